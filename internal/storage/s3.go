package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const downloadLinkTTL = 15 * time.Minute

// ErrNoPresigner is returned by DownloadLink when the store was created
// without an *s3.Client.
var ErrNoPresigner = errors.New("download links are not configured")

// S3Params configures NewS3Client. Endpoint may point to an S3 compatible
// store such as MinIO, in which case path style addressing is used.
type S3Params struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client creates an S3 client. Static credentials are only used when
// an access key is set; otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, params S3Params) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(params.Region),
	}
	if params.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(params.AccessKey, params.SecretKey, ""),
		))
	}
	if params.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(params.Endpoint))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = params.Endpoint != ""
	}), nil
}

// ObjectPutter is the part of the S3 API used to store exports.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store keeps exported pedigree documents in a bucket and hands out
// short-lived download links for them.
type Store struct {
	bucket         string
	client         ObjectPutter
	presignClient  *s3.Client
	publicEndpoint string
}

// NewStore creates a store on top of client. When publicEndpoint is set,
// download links are signed for that host instead of the API endpoint.
func NewStore(bucket string, client *s3.Client, publicEndpoint string) *Store {
	return &Store{
		bucket:         bucket,
		client:         client,
		presignClient:  client,
		publicEndpoint: publicEndpoint,
	}
}

// NewStoreWithPutter creates a store that can upload but not sign links.
func NewStoreWithPutter(bucket string, client ObjectPutter) *Store {
	return &Store{bucket: bucket, client: client}
}

// PutFile uploads body below path under a generated name that keeps the
// extension of name, and returns the object key.
func (s *Store) PutFile(ctx context.Context, path string, name string, body io.ReadSeeker) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate object key: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(name))
	key := fmt.Sprintf("%s/%s%s", strings.TrimSuffix(path, "/"), id, ext)

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return key, nil
}

// DownloadLink returns a presigned GET URL for key.
func (s *Store) DownloadLink(ctx context.Context, key string) (string, error) {
	if s.presignClient == nil {
		return "", ErrNoPresigner
	}

	client := s.presignClient
	prefix := ""
	if s.publicEndpoint != "" {
		publicURL, err := url.Parse(s.publicEndpoint)
		if err != nil || publicURL.Scheme == "" || publicURL.Host == "" {
			return "", fmt.Errorf("invalid public endpoint: %s", s.publicEndpoint)
		}
		prefix = strings.TrimSuffix(publicURL.Path, "/")

		// The signature covers the Host header, so sign against the public host.
		base := s.presignClient.Options()
		client = s3.NewFromConfig(
			aws.Config{
				Region:      base.Region,
				Credentials: base.Credentials,
				HTTPClient:  base.HTTPClient,
			},
			func(o *s3.Options) {
				o.BaseEndpoint = aws.String(publicURL.Scheme + "://" + publicURL.Host)
				o.UsePathStyle = true
			},
		)
	}

	out, err := s3.NewPresignClient(client).PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(downloadLinkTTL),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate download link: %w", err)
	}

	if prefix == "" {
		return out.URL, nil
	}
	signedURL, err := url.Parse(out.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse presigned url: %w", err)
	}
	signedURL.Path = prefix + signedURL.Path
	return signedURL.String(), nil
}
