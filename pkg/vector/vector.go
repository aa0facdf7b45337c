// Package vector provides the store-agnostic types and interface for the
// four asha vector collections. Implementations live in subpackages
// (qdrant for real deployments, memstore for tests and single-node dev).
package vector

import "context"

// Collection names are fixed. The seeded knowledge base, the supervisor
// dashboard and existing deployments all address collections by these
// names, so they are not configurable.
const (
	// CollectionUserMemory holds user health signals and symptoms.
	CollectionUserMemory = "user_health_memory"

	// CollectionKnowledge holds verified medical protocols and guidance.
	CollectionKnowledge = "verified_medical_knowledge"

	// CollectionNutrition holds nutrition patterns and IFA tracking.
	CollectionNutrition = "nutrition_patterns"

	// CollectionInsights holds population-level health insights.
	CollectionInsights = "asha_population_insights"
)

// Point is a stored item: an embedding plus its attribute payload.
type Point struct {
	// ID is the unique point identifier (a UUID string).
	ID string

	// Vector is the embedding. Its length must match the collection
	// dimension.
	Vector []float32

	// Payload holds the attribute fields stored alongside the vector.
	Payload map[string]any
}

// ScoredPoint is a search result with its similarity score
// (higher = more similar).
type ScoredPoint struct {
	Point

	Score float32
}

// Condition is a single payload predicate. Equals matches keyword fields
// exactly; GTE/LT bound numeric fields. Unset parts are ignored.
type Condition struct {
	Field  string
	Equals string
	GTE    *float64
	LT     *float64
}

// Filter is a conjunction of conditions over point payloads.
type Filter struct {
	Must []Condition
}

// Match builds an equality condition on a keyword field.
func Match(field, value string) Condition {
	return Condition{Field: field, Equals: value}
}

// GTE builds a lower-bound condition on a numeric field.
func GTE(field string, v float64) Condition {
	return Condition{Field: field, GTE: &v}
}

// LT builds an exclusive upper-bound condition on a numeric field.
func LT(field string, v float64) Condition {
	return Condition{Field: field, LT: &v}
}

// Store is the contract every vector backend implements.
type Store interface {
	// EnsureCollection creates the named collection with the given vector
	// dimension if it does not already exist.
	EnsureCollection(ctx context.Context, name string, dimension uint64) error

	// Upsert writes a point, replacing any existing point with the same ID.
	Upsert(ctx context.Context, collection string, point Point) error

	// Search returns up to limit points ranked by similarity to the query
	// vector, restricted by the optional filter.
	Search(ctx context.Context, collection string, query []float32, filter *Filter, limit int) ([]ScoredPoint, error)

	// Scroll returns up to limit points matching the filter without any
	// vector ranking.
	Scroll(ctx context.Context, collection string, filter *Filter, limit int) ([]Point, error)

	// SetPayload merges the given fields into the payloads of the
	// identified points, leaving other fields untouched.
	SetPayload(ctx context.Context, collection string, ids []string, fields map[string]any) error

	// Delete removes every point matching the filter.
	Delete(ctx context.Context, collection string, filter *Filter) error

	// Healthy reports whether the backend is reachable.
	Healthy(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
