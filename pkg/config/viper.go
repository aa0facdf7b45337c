package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/gramhealthco/asha/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the ASHA_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (ASHA_API_LISTEN, ASHA_VECTOR_STORE_TARGET, ...)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("ASHA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of
// truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// API
	v.SetDefault("api.listen", d.API.Listen)

	// Vector store
	v.SetDefault("vector_store.provider", d.VectorStore.Provider)
	v.SetDefault("vector_store.target", d.VectorStore.Target)
	v.SetDefault("vector_store.api_key", d.VectorStore.APIKey)

	// Embedding
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)

	// Retrieval
	v.SetDefault("retrieval.memory_top_k", d.Retrieval.MemoryTopK)
	v.SetDefault("retrieval.knowledge_top_k", d.Retrieval.KnowledgeTopK)
	v.SetDefault("retrieval.nutrition_top_k", d.Retrieval.NutritionTopK)
	v.SetDefault("retrieval.rerank_top_k", d.Retrieval.RerankTopK)

	// Memory
	v.SetDefault("memory.decay_factor", d.Memory.DecayFactor)
	v.SetDefault("memory.decay_age_days", d.Memory.DecayAgeDays)
	v.SetDefault("memory.reinforcement_boost", d.Memory.ReinforcementBoost)
	v.SetDefault("memory.trajectory_window_days", d.Memory.TrajectoryWindowDays)

	// Risk
	v.SetDefault("risk.high_threshold", d.Risk.HighThreshold)
	v.SetDefault("risk.medium_threshold", d.Risk.MediumThreshold)
}
