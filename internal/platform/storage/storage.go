// Package storage issues presigned transfer URLs for objects in an
// S3-compatible bucket. File bytes never pass through the API process.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/carehire/carehire-api/internal/config"
)

// ErrDisabled is returned by every operation when no bucket is configured.
var ErrDisabled = errors.New("object storage is not configured")

// ObjectStore issues transfer URLs for, and removes, stored objects.
type ObjectStore interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3 is the ObjectStore backed by an S3 bucket.
type S3 struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
	logger  *slog.Logger
}

var _ ObjectStore = (*S3)(nil)

// New returns an ObjectStore for cfg. A configuration without a bucket yields
// Disabled.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (ObjectStore, error) {
	if !cfg.Enabled() {
		return Disabled{}, nil
	}
	return NewS3(ctx, cfg, logger)
}

// NewS3 builds an S3 store. Static credentials are used when configured,
// otherwise the default AWS credential chain applies. A custom endpoint
// switches to path-style addressing for S3-compatible servers.
func NewS3(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*S3, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		expiry:  cfg.URLExpiry,
		logger:  logger.With(slog.String("component", "storage")),
	}, nil
}

// PresignUpload returns a URL accepting a PUT of the object at key.
func (s *S3) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	req, err := s.presign.PresignPutObject(ctx, in, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("presign upload of %s: %w", key, err)
	}
	return req.URL, nil
}

// PresignDownload returns a URL serving a GET of the object at key.
func (s *S3) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("presign download of %s: %w", key, err)
	}
	return req.URL, nil
}

// Delete removes the object at key. Deleting a missing object succeeds.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	s.logger.DebugContext(ctx, "object deleted", slog.String("key", key))
	return nil
}

// Disabled is the ObjectStore used when no bucket is configured.
type Disabled struct{}

// PresignUpload implements ObjectStore.
func (Disabled) PresignUpload(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

// PresignDownload implements ObjectStore.
func (Disabled) PresignDownload(context.Context, string) (string, error) {
	return "", ErrDisabled
}

// Delete implements ObjectStore.
func (Disabled) Delete(context.Context, string) error {
	return ErrDisabled
}
