package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client reads objects from an S3-compatible bucket.
type Client struct {
	bucket string
	client *minio.Client
	logger *slog.Logger
}

// NewClient configures a MinIO/S3 client for bucket.
func NewClient(endpoint string, useSSL bool, accessKey, secretKey, bucket string, logger *slog.Logger) (*Client, error) {
	cleanEndpoint := strings.TrimSpace(endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	minioClient, err := minio.New(parseEndpoint(cleanEndpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	return &Client{bucket: bucket, client: minioClient, logger: logger}, nil
}

// Ping checks that the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("s3: check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("s3: bucket %q does not exist", c.bucket)
	}
	return nil
}

// FixtureSource opens a rule snapshot object published by the rule authoring service.
type FixtureSource struct {
	Client *Client
	Key    string
}

func (s FixtureSource) Open(ctx context.Context) (io.ReadCloser, error) {
	key := strings.Trim(strings.TrimSpace(s.Key), "/")
	if key == "" {
		return nil, errors.New("s3: object key is required")
	}
	obj, err := s.Client.client.GetObject(ctx, s.Client.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("s3: get object: %w", err)
	}
	// GetObject is lazy; Stat surfaces a missing key before decoding starts.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("s3: stat object %s: %w", key, err)
	}
	if s.Client.logger != nil {
		s.Client.logger.Info("rule snapshot opened", "bucket", s.Client.bucket, "key", key, "size", info.Size, "etag", info.ETag)
	}
	return obj, nil
}

func (s FixtureSource) Describe() string {
	return fmt.Sprintf("s3://%s/%s", s.Client.bucket, strings.Trim(s.Key, "/"))
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}
