// Package archive mirrors dump artifacts to an S3-compatible object store
// (MinIO in the field kits). The mirror is a secondary copy for disaster
// recovery; the removable-media path never depends on it.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/eventsync/eventsync/internal/logging"
)

// Config holds the object store connection settings.
type Config struct {
	Region       string
	BaseEndpoint string
	Bucket       string
	AccessKey    string
	SecretKey    string
}

// Enabled reports whether a mirror is configured at all.
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.BaseEndpoint != ""
}

// Mirror uploads dump artifacts to the configured bucket.
type Mirror struct {
	cfg    Config
	logger logging.Logger
}

func NewMirror(cfg Config, logger logging.Logger) *Mirror {
	return &Mirror{cfg: cfg, logger: logger.With("module", "dump_mirror")}
}

func (m *Mirror) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(m.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			m.cfg.AccessKey,
			m.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(m.cfg.BaseEndpoint)
		o.UsePathStyle = true
	})
	return client, nil
}

// storageKey shards uploads by date so a bucket listing stays navigable.
func storageKey(path string, ts time.Time) string {
	return fmt.Sprintf("dumps/%d/%02d/%02d/%s",
		ts.Year(), ts.Month(), ts.Day(), filepath.Base(path))
}

// Upload copies one artifact into the bucket and returns the object key.
func (m *Mirror) Upload(ctx context.Context, path string) (string, error) {
	client, err := m.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("object store client: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	bucket := m.cfg.Bucket
	key := storageKey(path, time.Now().UTC())

	if _, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   f,
	}); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	m.logger.Info(ctx, "artifact mirrored", "bucket", bucket, "key", key)
	return key, nil
}
