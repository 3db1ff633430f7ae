package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"directstay/internal/app/policies"
)

var (
	ErrEndpointRequired = errors.New("s3: endpoint is required")
	ErrBucketRequired   = errors.New("s3: bucket is required")
	ErrKeyRequired      = errors.New("s3: object key is required")
)

type Options struct {
	Endpoint      string
	UseSSL        bool
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// Archive stores invoice snapshots in an S3-compatible bucket. Objects stay private.
type Archive struct {
	bucket        string
	publicBaseURL string
	client        *minio.Client
	logger        *slog.Logger

	bucketInitOnce sync.Once
	bucketInitErr  error
}

func NewArchive(opts Options, logger *slog.Logger) (*Archive, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, ErrBucketRequired
	}
	client, err := minio.New(hostOf(endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(opts.AccessKey), strings.TrimSpace(opts.SecretKey), ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	base := strings.TrimSpace(opts.PublicBaseURL)
	if base == "" {
		base = endpoint
	}
	return &Archive{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		client:        client,
		logger:        logger,
	}, nil
}

func (a *Archive) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrKeyRequired
	}
	if err := a.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}
	objectURL := a.objectURL(key)
	if a.logger != nil {
		a.logger.Info("archive stored", "bucket", a.bucket, "key", key)
	}
	return objectURL, nil
}

// Ping reports whether the bucket is reachable; used by readiness.
func (a *Archive) Ping(ctx context.Context) error {
	_, err := a.client.BucketExists(ctx, a.bucket)
	return err
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	a.bucketInitOnce.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucket)
		if err != nil {
			a.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			a.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
		}
	})
	return a.bucketInitErr
}

func (a *Archive) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", a.publicBaseURL, a.bucket, key)
}

func hostOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ policies.ArchivePort = (*Archive)(nil)
