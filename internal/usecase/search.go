package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"photofind/internal/domain"
	"photofind/internal/port"
)

// SearchEngine answers single best-match queries over the photo
// corpus. Strategy is resolved once at construction: stores exposing
// the NearestQuerier capability are queried server-side; everything
// else gets an exhaustive scan with cosine similarity. The two paths
// produce scores on different scales and must not be mixed.
type SearchEngine struct {
	store    port.RecordStore
	nearest  port.NearestQuerier // nil when the store has no native path
	logger   *slog.Logger
	minScore float64
}

// NewSearchEngine creates a search engine over store. minScore, when
// positive, turns matches scoring below it into no-match results; it
// applies to whichever scale the active strategy produces.
func NewSearchEngine(store port.RecordStore, logger *slog.Logger, minScore float64) *SearchEngine {
	e := &SearchEngine{store: store, logger: logger, minScore: minScore}
	if nq, ok := store.(port.NearestQuerier); ok {
		e.nearest = nq
	}
	return e
}

// UsesNativeQuery reports whether best-match queries run server-side.
func (e *SearchEngine) UsesNativeQuery() bool {
	return e.nearest != nil
}

// FindBestMatch returns the record whose stored embedding is most
// similar to query, or nil when the corpus is empty. An empty corpus
// is a valid no-match outcome, never an error.
func (e *SearchEngine) FindBestMatch(ctx context.Context, query []float32) (*domain.Match, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrEmbedding)
	}

	var (
		match *domain.Match
		err   error
	)
	if e.nearest != nil {
		// Dimension validation is the store's own on this path.
		match, err = e.nearest.Nearest(ctx, query)
	} else {
		match, err = e.scan(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	if match != nil && e.minScore > 0 && match.Score < e.minScore {
		e.logger.Debug("best match below minimum score",
			"photo_id", match.PhotoID, "score", match.Score, "min_score", e.minScore)
		return nil, nil
	}
	return match, nil
}

// scan computes cosine similarity against every stored embedding,
// tracking the running maximum. Ties go to the first record in the
// store's enumeration order. Candidates with mismatched dimension or
// zero norm are excluded and logged rather than aborting the query or
// scoring as a false maximum.
func (e *SearchEngine) scan(ctx context.Context, query []float32) (*domain.Match, error) {
	var best *domain.Match

	err := e.store.ScanEmbeddings(ctx, func(id string, embedding []float32) error {
		if len(embedding) != len(query) {
			e.logger.Warn("skipping candidate with mismatched dimension",
				"photo_id", id, "query_dim", len(query), "candidate_dim", len(embedding))
			return nil
		}

		sim, ok := cosineSimilarity(query, embedding)
		if !ok {
			e.logger.Warn("skipping candidate with zero-norm embedding", "photo_id", id)
			return nil
		}

		if best == nil || sim > best.Score {
			best = &domain.Match{PhotoID: id, Score: sim}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning corpus: %w", err)
	}

	return best, nil
}

// cosineSimilarity returns the normalized dot product of a and b.
// ok is false when either vector has zero norm: similarity is
// undefined there, and such candidates are excluded by the caller.
func cosineSimilarity(a, b []float32) (float64, bool) {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
