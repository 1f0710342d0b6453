package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying ingestion and query failures. Callers
// match them with errors.Is; adapters wrap them with context.
var (
	// ErrDecode marks an unreadable or corrupt source image.
	ErrDecode = errors.New("image decode failed")

	// ErrEmbedding marks an embedding model failure.
	ErrEmbedding = errors.New("embedding generation failed")

	// ErrStore marks a blob upload or record store failure.
	ErrStore = errors.New("store operation failed")

	// ErrDimensionMismatch marks vectors of unequal length offered for
	// comparison.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrDuplicateRecord marks a create with an already-used id.
	ErrDuplicateRecord = errors.New("record already exists")

	// ErrRecordNotFound marks a lookup of an unknown id.
	ErrRecordNotFound = errors.New("record not found")
)

// IngestFailure records one photo that could not be ingested. Failures
// are per item: the batch continues past them.
type IngestFailure struct {
	Path string
	Err  error
}

func (f IngestFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

func (f IngestFailure) Unwrap() error {
	return f.Err
}
