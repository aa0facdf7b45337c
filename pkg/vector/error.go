package vector

import "errors"

var (
	// ErrUnavailable is returned when the vector store cannot be reached.
	// A request that hits this error fails as a whole; there is no retry.
	ErrUnavailable = errors.New("vector store unavailable")

	// ErrNotFound is returned when a point is not found in the store.
	ErrNotFound = errors.New("point not found")

	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")
)
