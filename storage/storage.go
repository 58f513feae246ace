// Package storage keeps uploaded media files in S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ErrNotConfigured is returned when no bucket is configured.
var ErrNotConfigured = errors.New("object storage is not configured")

// Config contains the object storage settings.
type Config struct {
	Bucket          string
	EndpointURL     string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Storage is an interface for storing media files.
//
//go:generate mockgen -destination=mock_storage.go -package=storage . Storage
type Storage interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, opts UploadOptions) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// UploadOptions controls how an object is stored.
type UploadOptions struct {
	ContentType string
	Public      bool
}

// S3 stores objects in a single bucket.
type S3 struct {
	client   *minio.Client
	bucket   string
	endpoint string
}

// New creates an S3 client from the configuration.
func New(config Config) (*S3, error) {
	if config.Bucket == "" || config.EndpointURL == "" {
		return nil, ErrNotConfigured
	}
	endpoint := strings.TrimRight(config.EndpointURL, "/")
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q", config.EndpointURL)
	}

	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: u.Scheme == "https",
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return &S3{
		client:   client,
		bucket:   config.Bucket,
		endpoint: endpoint,
	}, nil
}

// Upload stores the object and returns its public URL. A negative size streams
// the reader until EOF.
func (s *S3) Upload(ctx context.Context, key string, r io.Reader, size int64, opts UploadOptions) (string, error) {
	key = strings.TrimLeft(key, "/")
	putOpts := minio.PutObjectOptions{ContentType: opts.ContentType}
	if opts.Public {
		putOpts.UserMetadata = map[string]string{"x-amz-acl": "public-read"}
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, putOpts)
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	log.Debug().Str("key", key).Int64("size", info.Size).Msg("object uploaded")
	return s.PublicURL(key), nil
}

// Delete removes the object.
func (s *S3) Delete(ctx context.Context, key string) error {
	key = strings.TrimLeft(key, "/")
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the public URL of the object.
func (s *S3) PublicURL(key string) string {
	return BuildPublicURL(s.endpoint, s.bucket, key)
}

// BuildPublicURL joins endpoint, bucket and the escaped key. Slashes of the key are kept.
func BuildPublicURL(endpoint, bucket, key string) string {
	key = strings.TrimLeft(key, "/")
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(endpoint, "/") + "/" + bucket + "/" + strings.Join(parts, "/")
}
