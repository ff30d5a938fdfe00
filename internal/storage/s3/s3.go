// Package s3 stores uploaded files in an S3 bucket. Any S3-compatible
// service works: set Endpoint for MinIO or similar and requests switch to
// path-style addressing.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sakif/review-hub/internal/storage"
)

// compile-time check that *Store implements storage.ObjectStore
var _ storage.ObjectStore = (*Store)(nil)

// API is the subset of the S3 client the store calls. *awss3.Client
// satisfies it; tests pass a fake.
type API interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// Config selects the bucket and how to reach it.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for S3-compatible services
	AccessKey string // optional; falls back to the default AWS credential chain
	SecretKey string
	PublicURL string // optional prefix for returned URLs
}

// Store puts and deletes objects in one bucket.
type Store struct {
	api       API
	bucket    string
	publicURL string
}

// New builds an S3 client from cfg.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	if cfg.Region == "" {
		return nil, errors.New("s3: region is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: loading AWS config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(api API, cfg Config) *Store {
	return &Store{api: api, bucket: cfg.Bucket, publicURL: publicURL(cfg)}
}

// publicURL is the prefix objects are reachable under.
func publicURL(cfg Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Put uploads body under key. body should be an io.ReadSeeker (a multipart
// file is one) so the SDK can sign the payload.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if !storage.ValidKey(key) {
		return "", fmt.Errorf("s3: invalid key %q", key)
	}

	_, err := s.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3: putting %s: %w", key, err)
	}

	return s.publicURL + "/" + key, nil
}

// Delete removes key. S3 treats deleting a missing key as success.
func (s *Store) Delete(ctx context.Context, key string) error {
	if !storage.ValidKey(key) {
		return fmt.Errorf("s3: invalid key %q", key)
	}

	_, err := s.api.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: deleting %s: %w", key, err)
	}
	return nil
}
