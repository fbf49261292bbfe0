package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestPutFile(t *testing.T) {
	putter := &fakePutter{}
	store := NewStoreWithPutter("exports", putter)

	key, err := store.PutFile(context.Background(), "pedigrees/", "report.PDF", bytes.NewReader([]byte("%PDF-1.3")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "pedigrees/"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)
	assert.Equal(t, "exports", aws.ToString(putter.input.Bucket))
	assert.Equal(t, key, aws.ToString(putter.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "%PDF-1.3", string(putter.body))
}

func TestPutFileError(t *testing.T) {
	store := NewStoreWithPutter("exports", &fakePutter{err: errors.New("access denied")})
	_, err := store.PutFile(context.Background(), "pedigrees", "tree.ged", bytes.NewReader(nil))
	require.ErrorContains(t, err, "access denied")
}

func TestDownloadLinkWithoutPresigner(t *testing.T) {
	store := NewStoreWithPutter("exports", &fakePutter{})
	_, err := store.DownloadLink(context.Background(), "pedigrees/a.pdf")
	require.ErrorIs(t, err, ErrNoPresigner)
}

func TestDownloadLinkPublicEndpoint(t *testing.T) {
	client := s3.New(s3.Options{
		Region:       "eu-central-1",
		BaseEndpoint: aws.String("http://minio:9000"),
		UsePathStyle: true,
		Credentials:  aws.NewCredentialsCache(staticCredentials{}),
	})
	store := NewStore("exports", client, "https://files.example.org/storage/")

	link, err := store.DownloadLink(context.Background(), "pedigrees/a.pdf")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "files.example.org", u.Host)
	assert.Equal(t, "/storage/exports/pedigrees/a.pdf", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

type staticCredentials struct{}

func (staticCredentials) Retrieve(context.Context) (aws.Credentials, error) {
	return aws.Credentials{AccessKeyID: "key", SecretAccessKey: "secret", Source: "test"}, nil
}
