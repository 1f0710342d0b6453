package embedding

import (
	"context"
	"hash/fnv"
)

// MockEmbedder produces deterministic pseudo-embeddings without any
// model. Useful for tests and offline smoke runs.
type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	return e.vectorFor(text), nil
}

func (e *MockEmbedder) EmbedImage(_ context.Context, path string) ([]float32, error) {
	return e.vectorFor(path), nil
}

func (e *MockEmbedder) vectorFor(s string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	seed := h.Sum32()

	vec := make([]float32, e.dimension)
	for i := range vec {
		seed = seed*1664525 + 1013904223
		vec[i] = float32(seed%2000)/1000.0 - 1.0
	}
	return vec
}

func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}
