// Package blob stores raw uploaded file bytes under flat string keys,
// independent of the metadata rows describing them.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNotFound indicates no object exists under the requested key.
var ErrNotFound = errors.New("blob not found")

// Store maps flat keys to file bytes. Writing an existing key overwrites it;
// last write wins, there is no versioning.
type Store interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// Localize returns a filesystem path holding the object's bytes, plus a
	// cleanup func the caller must run when done with the path.
	Localize(ctx context.Context, key string) (string, func(), error)
}

// SubmissionKey derives the storage key for a student upload. Re-submitting a
// same-named file produces the same key and overwrites the previous blob.
func SubmissionKey(studentNo, filename string) string {
	return fmt.Sprintf("%s_%s", studentNo, filename)
}

// ProfessorFileKey derives the storage key for a rubric or model-answer upload.
func ProfessorFileKey(kind, adminID, filename string) string {
	return fmt.Sprintf("%s_%s_%s", kind, adminID, filename)
}
