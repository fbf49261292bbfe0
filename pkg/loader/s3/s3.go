package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
)

// ObjectGetter is the part of the S3 API the loader needs. *s3.Client
// implements it.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3FileLoader loads uploads from an S3 bucket. The FilePath of an upload
// is used as object key.
type S3FileLoader struct {
	bucket string
	client ObjectGetter
	cache  *loader.Cache
}

// NewS3FileLoader creates a loader reading from bucket. The client is
// usually created with storage.NewS3Client.
func NewS3FileLoader(bucket string, client ObjectGetter) *S3FileLoader {
	return &S3FileLoader{
		bucket: bucket,
		client: client,
		cache:  loader.NewCache(),
	}
}

// GetFileContent downloads the object. Results are cached.
func (l *S3FileLoader) GetFileContent(ctx context.Context, file loader.UploadFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(file.FilePath),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get object %s: %w", file.FilePath, err)
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, fmt.Errorf("failed to read object %s: %w", file.FilePath, err)
		}
		return buf.Bytes(), nil
	})
}

func (l *S3FileLoader) GetBase64(ctx context.Context, file loader.UploadFile) (loader.Base64File, error) {
	content, err := l.GetFileContent(ctx, file)
	if err != nil {
		return loader.Base64File{}, err
	}
	return loader.Base64File{
		Base64:   base64.StdEncoding.EncodeToString(content),
		FileType: loader.Base64Prefix(file.FilePath),
	}, nil
}
