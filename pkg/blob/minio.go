package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinioConfig defines connection options for an S3-compatible blob backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore keeps blobs in an S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

// NewMinioStore connects to the object store and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig, logger zerolog.Logger) (*MinioStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With().Str("component", "minio_blob_store").Logger(),
	}, nil
}

// Put uploads the object, overwriting any previous blob under the same key.
func (m *MinioStore) Put(ctx context.Context, key string, reader io.Reader, size int64) error {
	if _, err := m.client.PutObject(ctx, m.bucket, key, reader, size, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("put object: %w", err)
	}

	m.logger.Debug().Str("key", key).Msg("blob stored")

	return nil
}

// Open returns a reader over the object's bytes.
func (m *MinioStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := m.stat(ctx, key); err != nil {
		return nil, err
	}

	object, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}

	return object, nil
}

// Delete removes the object. A missing key reports ErrNotFound.
func (m *MinioStore) Delete(ctx context.Context, key string) error {
	if err := m.stat(ctx, key); err != nil {
		return err
	}

	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}

	return nil
}

// Localize downloads the object to a temp file for path-based consumers;
// cleanup removes the temp file.
func (m *MinioStore) Localize(ctx context.Context, key string) (string, func(), error) {
	reader, err := m.Open(ctx, key)
	if err != nil {
		return "", nil, err
	}
	defer reader.Close()

	temp, err := os.CreateTemp("", "gradeflow-blob-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(temp, reader); err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return "", nil, fmt.Errorf("download object: %w", err)
	}

	if err := temp.Close(); err != nil {
		os.Remove(temp.Name())
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	path := temp.Name()

	return path, func() { os.Remove(path) }, nil
}

func (m *MinioStore) stat(ctx context.Context, key string) error {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return nil
	}

	var response minio.ErrorResponse
	if errors.As(err, &response) && response.Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	return fmt.Errorf("stat object: %w", err)
}
