package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client abstracts the S3 API operations used by [S3Store].
// The [s3.Client] type satisfies this interface.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store stores photo blobs in Amazon S3 or any S3-compatible object
// store (MinIO, R2, etc.). PutObject does not return until the object
// is durably stored, which is exactly the acknowledgment ingestion
// needs before writing a metadata record.
type S3Store struct {
	client  S3Client
	bucket  string
	prefix  string
	baseURL string
}

// NewS3 creates an S3-backed blob store.
//
// The client should be pre-configured (credentials, region, endpoint).
// Prefix is prepended to all object keys; pass "" for no prefix.
// baseURL, when non-empty, overrides the default virtual-hosted URL
// form (useful behind a CDN or custom domain).
func NewS3(client S3Client, bucket, prefix, baseURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, baseURL: baseURL}
}

// key builds the full S3 object key for the given blob key.
func (s *S3Store) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + "/" + k
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	full := s.key(key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(full),
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", full, err)
	}

	if s.baseURL != "" {
		return s.baseURL + "/" + full, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, full), nil
}
