// Package bootstrap wires the shared runtime components (vector store,
// embedder, retrieval engine, memory manager, risk scorer) for asha
// commands from viper configuration.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/gramhealthco/asha/pkg/embeddings"
	embeddingutils "github.com/gramhealthco/asha/pkg/embeddings/utils"
	"github.com/gramhealthco/asha/pkg/memory"
	"github.com/gramhealthco/asha/pkg/retrieval"
	"github.com/gramhealthco/asha/pkg/risk"
	"github.com/gramhealthco/asha/pkg/seed"
	"github.com/gramhealthco/asha/pkg/vector"
	"github.com/gramhealthco/asha/pkg/vector/vectorutils"
)

// Components holds the wired runtime for a command.
type Components struct {
	Store    vector.Store
	Embedder embeddings.Embedder
	Engine   *retrieval.Engine
	Manager  *memory.Manager
	Scorer   *risk.Scorer
	Seeder   *seed.Seeder
	Logger   *slog.Logger
}

// Build constructs all components from the viper configuration.
func Build(v *viper.Viper, logger *slog.Logger) (*Components, error) {
	store, err := vectorutils.NewStore(
		v.GetString("vector_store.provider"),
		v.GetString("vector_store.target"),
		v.GetString("vector_store.api_key"),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: v.GetString("embedding.provider"),
		TargetURL:    v.GetString("embedding.target"),
		Model:        v.GetString("embedding.model"),
		Dimensions:   v.GetUint("embedding.dimensions"),
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	scorer := risk.NewScorer(
		v.GetFloat64("risk.high_threshold"),
		v.GetFloat64("risk.medium_threshold"),
		logger,
	)

	engine := retrieval.NewEngine(store, embedder, retrieval.Config{
		MemoryTopK:    v.GetInt("retrieval.memory_top_k"),
		KnowledgeTopK: v.GetInt("retrieval.knowledge_top_k"),
		NutritionTopK: v.GetInt("retrieval.nutrition_top_k"),
		RerankTopK:    v.GetInt("retrieval.rerank_top_k"),
	}, logger)

	manager := memory.NewManager(store, embedder, memory.Config{
		DecayFactor:          v.GetFloat64("memory.decay_factor"),
		DecayAgeDays:         v.GetInt("memory.decay_age_days"),
		ReinforcementBoost:   v.GetFloat64("memory.reinforcement_boost"),
		TrajectoryWindowDays: v.GetInt("memory.trajectory_window_days"),
		HighThreshold:        v.GetFloat64("risk.high_threshold"),
		MediumThreshold:      v.GetFloat64("risk.medium_threshold"),
	}, logger)

	seeder := seed.NewSeeder(store, embedder, uint64(v.GetUint("embedding.dimensions")), logger)

	return &Components{
		Store:    store,
		Embedder: embedder,
		Engine:   engine,
		Manager:  manager,
		Scorer:   scorer,
		Seeder:   seeder,
		Logger:   logger,
	}, nil
}

// Close releases the store and embedder.
func (c *Components) Close() {
	if c.Embedder != nil {
		c.Embedder.Close()
	}
	if c.Store != nil {
		c.Store.Close()
	}
}
