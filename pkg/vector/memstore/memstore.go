// Package memstore implements vector.Store in process memory. It backs
// tests and single-node dev setups where running Qdrant is overkill.
package memstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/gramhealthco/asha/pkg/vector"
)

// Store is an in-memory vector.Store. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	dimension uint64
	points    map[string]vector.Point
}

var _ vector.Store = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

func (s *Store) EnsureCollection(_ context.Context, name string, dimension uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; ok {
		return nil
	}

	s.collections[name] = &collection{
		dimension: dimension,
		points:    make(map[string]vector.Point),
	}

	return nil
}

func (s *Store) Upsert(_ context.Context, name string, point vector.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("collection %s does not exist", name)
	}

	if uint64(len(point.Vector)) != coll.dimension {
		return fmt.Errorf("vector dimension %d does not match collection dimension %d", len(point.Vector), coll.dimension)
	}

	stored := vector.Point{
		ID:      point.ID,
		Vector:  append([]float32(nil), point.Vector...),
		Payload: clonePayload(point.Payload),
	}
	coll.points[point.ID] = stored

	return nil
}

func (s *Store) Search(_ context.Context, name string, query []float32, filter *vector.Filter, limit int) ([]vector.ScoredPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %s does not exist", name)
	}

	results := make([]vector.ScoredPoint, 0, len(coll.points))
	for _, p := range coll.points {
		if !matches(p.Payload, filter) {
			continue
		}

		results = append(results, vector.ScoredPoint{
			Point: vector.Point{ID: p.ID, Payload: clonePayload(p.Payload)},
			Score: cosine(query, p.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func (s *Store) Scroll(_ context.Context, name string, filter *vector.Filter, limit int) ([]vector.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %s does not exist", name)
	}

	points := make([]vector.Point, 0)
	for _, p := range coll.points {
		if !matches(p.Payload, filter) {
			continue
		}

		points = append(points, vector.Point{ID: p.ID, Payload: clonePayload(p.Payload)})
	}

	// Deterministic order so callers and tests see stable pagination.
	sort.Slice(points, func(i, j int) bool { return points[i].ID < points[j].ID })

	if len(points) > limit {
		points = points[:limit]
	}

	return points, nil
}

func (s *Store) SetPayload(_ context.Context, name string, ids []string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("collection %s does not exist", name)
	}

	for _, id := range ids {
		p, ok := coll.points[id]
		if !ok {
			return fmt.Errorf("%w: %s", vector.ErrNotFound, id)
		}

		for k, v := range fields {
			p.Payload[k] = v
		}
		coll.points[id] = p
	}

	return nil
}

func (s *Store) Delete(_ context.Context, name string, filter *vector.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("collection %s does not exist", name)
	}

	for id, p := range coll.points {
		if matches(p.Payload, filter) {
			delete(coll.points, id)
		}
	}

	return nil
}

func (s *Store) Healthy(_ context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Count returns the number of points in a collection. Test helper.
func (s *Store) Count(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[name]
	if !ok {
		return 0
	}

	return len(coll.points)
}

// matches evaluates all filter conditions against a payload.
func matches(payload map[string]any, filter *vector.Filter) bool {
	if filter == nil {
		return true
	}

	for _, c := range filter.Must {
		val, ok := payload[c.Field]
		if !ok {
			return false
		}

		if c.Equals != "" {
			str, ok := val.(string)
			if !ok || str != c.Equals {
				return false
			}
			continue
		}

		num, ok := asFloat(val)
		if !ok {
			return false
		}

		if c.GTE != nil && num < *c.GTE {
			return false
		}

		if c.LT != nil && num >= *c.LT {
			return false
		}
	}

	return true
}

// asFloat coerces the numeric payload representations into a float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// cosine computes cosine similarity between two vectors of equal length.
func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// clonePayload shallow-copies a payload map.
func clonePayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}

	return out
}
