// Package objectstore reads dataset files from S3-compatible storage.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// GetObjectAPI is the subset of the S3 client used here
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config holds S3 connection settings
type Config struct {
	Region string
	// Endpoint overrides the AWS endpoint for S3-compatible stores (R2, MinIO)
	Endpoint string
}

// Client downloads objects from S3
type Client struct {
	api GetObjectAPI
	log zerolog.Logger
}

// NewS3Client builds a client from the default AWS credential chain
func NewS3Client(ctx context.Context, cfg Config, log zerolog.Logger) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewClient(api, log), nil
}

// NewClient wraps an existing S3 API
func NewClient(api GetObjectAPI, log zerolog.Logger) *Client {
	return &Client{
		api: api,
		log: log.With().Str("client", "s3").Logger(),
	}
}

// Open streams an object. The caller closes the reader.
func (c *Client) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}

	c.log.Debug().Str("bucket", bucket).Str("key", key).Msg("Opened object")
	return out.Body, nil
}

// ParseURL splits s3://bucket/key into its parts
func ParseURL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 url %q: %w", raw, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("invalid s3 url %q: scheme must be s3", raw)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: bucket and key are required", raw)
	}
	return u.Host, key, nil
}

// IsURL reports whether location points at S3
func IsURL(location string) bool {
	return strings.HasPrefix(location, "s3://")
}
