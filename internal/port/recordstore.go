package port

import (
	"context"

	"photofind/internal/domain"
)

// RecordStore persists photo metadata and embeddings.
type RecordStore interface {
	// Create writes a new record as a single atomic create. It fails
	// with domain.ErrDuplicateRecord if the id is already used; there
	// are no upsert semantics.
	Create(ctx context.Context, rec domain.PhotoRecord) error

	// Get returns the record for the given id, or domain.ErrRecordNotFound.
	Get(ctx context.Context, id string) (domain.PhotoRecord, error)

	// ScanEmbeddings streams (id, embedding) for every record that has
	// an embedding, invoking fn for each. Iteration stops at the first
	// error returned by fn. Enumeration order is the store's own and is
	// the tie-break authority for scan-based retrieval: stores must
	// enumerate in a stable order (bolt iterates keys byte-ordered).
	// There is no snapshot guarantee; records created during a scan may
	// or may not be observed.
	ScanEmbeddings(ctx context.Context, fn func(id string, embedding []float32) error) error

	// Close releases the store's resources.
	Close() error
}

// NearestQuerier is an optional RecordStore capability: a native
// distance-ordered query that returns the single closest record
// without the caller fetching the whole corpus. A nil match (with nil
// error) means the corpus is empty.
type NearestQuerier interface {
	Nearest(ctx context.Context, query []float32) (*domain.Match, error)
}
