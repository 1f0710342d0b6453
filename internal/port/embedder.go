package port

import "context"

// Embedder maps images and text into a shared embedding space.
// Implementations must be safe to reuse across calls (stateless
// inference); this package never mutates an embedder after
// construction.
type Embedder interface {
	// EmbedImage generates an embedding for the image at path.
	EmbedImage(ctx context.Context, path string) ([]float32, error)

	// EmbedText generates an embedding for the given text.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding vector dimension. Image and text
	// embeddings share it; cross-modal comparison is meaningless otherwise.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
