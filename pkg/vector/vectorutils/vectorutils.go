// Package vectorutils constructs vector.Store implementations from
// configuration values.
package vectorutils

import (
	"fmt"
	"log/slog"

	"github.com/gramhealthco/asha/pkg/vector"
	"github.com/gramhealthco/asha/pkg/vector/memstore"
	"github.com/gramhealthco/asha/pkg/vector/qdrant"
)

// Provider names accepted in config.
const (
	ProviderQdrant = "qdrant"
	ProviderMemory = "memory"
)

// NewStore builds a vector.Store for the configured provider.
func NewStore(provider, target, apiKey string, logger *slog.Logger) (vector.Store, error) {
	switch provider {
	case ProviderQdrant:
		return qdrant.New(target, apiKey, logger)
	case ProviderMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown vector store provider %q", provider)
	}
}
