package config

const (
	defaultAPIListen = ":8080"

	defaultVectorProvider = "qdrant"
	defaultVectorTarget   = "localhost:6334"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "embeddinggemma"
	defaultEmbeddingDimensions = 768

	defaultMemoryTopK    = 10
	defaultKnowledgeTopK = 5
	defaultNutritionTopK = 3
	defaultRerankTopK    = 5

	defaultDecayFactor          = 0.95
	defaultDecayAgeDays         = 90
	defaultReinforcementBoost   = 1.5
	defaultTrajectoryWindowDays = 30

	defaultHighThreshold   = 0.7
	defaultMediumThreshold = 0.4
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
			Target:   defaultVectorTarget,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Retrieval: RetrievalConfig{
			MemoryTopK:    defaultMemoryTopK,
			KnowledgeTopK: defaultKnowledgeTopK,
			NutritionTopK: defaultNutritionTopK,
			RerankTopK:    defaultRerankTopK,
		},
		Memory: MemoryConfig{
			DecayFactor:          defaultDecayFactor,
			DecayAgeDays:         defaultDecayAgeDays,
			ReinforcementBoost:   defaultReinforcementBoost,
			TrajectoryWindowDays: defaultTrajectoryWindowDays,
		},
		Risk: RiskConfig{
			HighThreshold:   defaultHighThreshold,
			MediumThreshold: defaultMediumThreshold,
		},
	}
}
