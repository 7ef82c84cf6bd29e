package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DiskStore keeps blobs as flat files under a single directory.
type DiskStore struct {
	dir    string
	logger zerolog.Logger
}

// NewDiskStore creates the storage directory if needed and returns the store.
func NewDiskStore(dir string, logger zerolog.Logger) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory must not be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	return &DiskStore{
		dir:    dir,
		logger: logger.With().Str("component", "disk_blob_store").Logger(),
	}, nil
}

func (d *DiskStore) path(key string) string {
	// Keys are derived from user-supplied filenames; keep them inside dir.
	return filepath.Join(d.dir, filepath.Base(strings.TrimSpace(key)))
}

// Put writes the object, overwriting any previous blob under the same key.
func (d *DiskStore) Put(_ context.Context, key string, reader io.Reader, _ int64) error {
	file, err := os.Create(d.path(key))
	if err != nil {
		return fmt.Errorf("create blob file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		return fmt.Errorf("write blob file: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close blob file: %w", err)
	}

	d.logger.Debug().Str("key", key).Msg("blob stored")

	return nil
}

// Open returns a reader over the object's bytes.
func (d *DiskStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("open blob file: %w", err)
	}

	return file, nil
}

// Delete removes the object. A missing key reports ErrNotFound.
func (d *DiskStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(d.path(key)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("delete blob file: %w", err)
	}

	return nil
}

// Localize returns the on-disk path directly; cleanup is a no-op.
func (d *DiskStore) Localize(_ context.Context, key string) (string, func(), error) {
	path := d.path(key)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return "", nil, fmt.Errorf("stat blob file: %w", err)
	}

	return path, func() {}, nil
}
