package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent asha configuration stored as config.toml
// in the .asha/ directory. The TOML layout uses sections for logical
// grouping.
type Config struct {
	Version     int               `toml:"version"`
	API         APIConfig         `toml:"api"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Retrieval   RetrievalConfig   `toml:"retrieval"`
	Memory      MemoryConfig      `toml:"memory"`
	Risk        RiskConfig        `toml:"risk"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// VectorStoreConfig holds vector store settings. Provider is "qdrant" for a
// real deployment or "memory" for an embedded store.
type VectorStoreConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// RetrievalConfig holds per-collection search limits.
type RetrievalConfig struct {
	MemoryTopK    int `toml:"memory_top_k,omitempty"`
	KnowledgeTopK int `toml:"knowledge_top_k,omitempty"`
	NutritionTopK int `toml:"nutrition_top_k,omitempty"`
	RerankTopK    int `toml:"rerank_top_k,omitempty"`
}

// MemoryConfig holds the long-term memory evolution knobs.
type MemoryConfig struct {
	DecayFactor          float64 `toml:"decay_factor,omitempty"`
	DecayAgeDays         int     `toml:"decay_age_days,omitempty"`
	ReinforcementBoost   float64 `toml:"reinforcement_boost,omitempty"`
	TrajectoryWindowDays int     `toml:"trajectory_window_days,omitempty"`
}

// RiskConfig holds the risk category thresholds.
type RiskConfig struct {
	HighThreshold   float64 `toml:"high_threshold,omitempty"`
	MediumThreshold float64 `toml:"medium_threshold,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on
// *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func floatKey(get func(c *Config) *float64) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			f := *get(c)
			if f == 0 {
				return ""
			}
			return strconv.FormatFloat(f, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid float value %q: %w", v, err)
			}
			*get(c) = f
			return nil
		},
	}
}

func intKey(get func(c *Config) *int) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			n := *get(c)
			if n == 0 {
				return ""
			}
			return strconv.Itoa(n)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid integer value %q: %w", v, err)
			}
			*get(c) = n
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.target": {
		get: func(c *Config) string { return c.VectorStore.Target },
		set: func(c *Config, v string) error { c.VectorStore.Target = v; return nil },
	},
	"vector_store.api_key": {
		get: func(c *Config) string { return c.VectorStore.APIKey },
		set: func(c *Config, v string) error { c.VectorStore.APIKey = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"retrieval.memory_top_k":    intKey(func(c *Config) *int { return &c.Retrieval.MemoryTopK }),
	"retrieval.knowledge_top_k": intKey(func(c *Config) *int { return &c.Retrieval.KnowledgeTopK }),
	"retrieval.nutrition_top_k": intKey(func(c *Config) *int { return &c.Retrieval.NutritionTopK }),
	"retrieval.rerank_top_k":    intKey(func(c *Config) *int { return &c.Retrieval.RerankTopK }),
	"memory.decay_factor":       floatKey(func(c *Config) *float64 { return &c.Memory.DecayFactor }),
	"memory.decay_age_days":     intKey(func(c *Config) *int { return &c.Memory.DecayAgeDays }),
	"memory.reinforcement_boost": floatKey(func(c *Config) *float64 {
		return &c.Memory.ReinforcementBoost
	}),
	"memory.trajectory_window_days": intKey(func(c *Config) *int {
		return &c.Memory.TrajectoryWindowDays
	}),
	"risk.high_threshold":   floatKey(func(c *Config) *float64 { return &c.Risk.HighThreshold }),
	"risk.medium_threshold": floatKey(func(c *Config) *float64 { return &c.Risk.MediumThreshold }),
}
