package port

import (
	"context"
	"io"
)

// BlobStore holds the original photo bytes. Put must not return until
// the write is durably acknowledged: ingestion only writes a metadata
// record after the blob it references exists.
type BlobStore interface {
	// Put stores the blob under key and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader) (string, error)
}
