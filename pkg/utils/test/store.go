package testutils

import (
	"context"
	"fmt"

	"github.com/gramhealthco/asha/pkg/vector"
)

// FlakyStore wraps a vector.Store and fails searches against named
// collections, for exercising degraded-retrieval paths.
type FlakyStore struct {
	vector.Store

	// FailSearchOn names collections whose searches return an error.
	FailSearchOn map[string]bool
}

func NewFlakyStore(inner vector.Store) *FlakyStore {
	return &FlakyStore{
		Store:        inner,
		FailSearchOn: make(map[string]bool),
	}
}

func (f *FlakyStore) Search(ctx context.Context, collection string, query []float32, filter *vector.Filter, limit int) ([]vector.ScoredPoint, error) {
	if f.FailSearchOn[collection] {
		return nil, fmt.Errorf("mock search failure for collection %s", collection)
	}

	return f.Store.Search(ctx, collection, query, filter, limit)
}

// ScoreOverrideStore wraps a vector.Store and rewrites the search score of
// named points, for pinning exact similarity boundaries that real cosine
// arithmetic cannot hit.
type ScoreOverrideStore struct {
	vector.Store

	// Scores maps point IDs to the score their search hits report.
	Scores map[string]float32
}

func NewScoreOverrideStore(inner vector.Store) *ScoreOverrideStore {
	return &ScoreOverrideStore{
		Store:  inner,
		Scores: make(map[string]float32),
	}
}

func (s *ScoreOverrideStore) Search(ctx context.Context, collection string, query []float32, filter *vector.Filter, limit int) ([]vector.ScoredPoint, error) {
	hits, err := s.Store.Search(ctx, collection, query, filter, limit)
	if err != nil {
		return nil, err
	}

	for i := range hits {
		if score, ok := s.Scores[hits[i].ID]; ok {
			hits[i].Score = score
		}
	}

	return hits, nil
}
