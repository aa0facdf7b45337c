package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gramhealthco/asha/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Configer", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).NotTo(BeNil())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Version).To(Equal(defaults.Version))
			Expect(cfg.API.Listen).To(Equal(defaults.API.Listen))
			Expect(cfg.VectorStore.Provider).To(Equal(defaults.VectorStore.Provider))
			Expect(cfg.Embedding.Model).To(Equal(defaults.Embedding.Model))
			Expect(cfg.Embedding.Dimensions).To(Equal(defaults.Embedding.Dimensions))
			Expect(cfg.Retrieval.MemoryTopK).To(Equal(10))
			Expect(cfg.Memory.DecayFactor).To(Equal(0.95))
			Expect(cfg.Memory.ReinforcementBoost).To(Equal(1.5))
			Expect(cfg.Risk.HighThreshold).To(Equal(0.7))
			Expect(cfg.Risk.MediumThreshold).To(Equal(0.4))
		})

		It("loads a valid config file and fills missing fields with defaults", func() {
			data := `version = 0

[vector_store]
provider = "memory"

[risk]
high_threshold = 0.8
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.VectorStore.Provider).To(Equal("memory"))
			Expect(cfg.Risk.HighThreshold).To(Equal(0.8))

			// Unset fields fall back to defaults.
			Expect(cfg.Risk.MediumThreshold).To(Equal(0.4))
			Expect(cfg.Embedding.Dimensions).To(Equal(uint(768)))
		})

		It("rejects malformed TOML", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not [valid"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SaveConfig and round-trip", func() {
		It("persists values set through SetConfigValue", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("vector_store.target", "qdrant.internal:6334")).To(Succeed())
			Expect(c.SetConfigValue("memory.decay_age_days", "120")).To(Succeed())

			got, err := c.GetConfigValue("vector_store.target")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("qdrant.internal:6334"))

			got, err = c.GetConfigValue("memory.decay_age_days")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("120"))
		})

		It("rejects unknown keys", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SetConfigValue("nope.nothing", "x")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unknown config key"))
		})

		It("rejects non-numeric values for numeric keys", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SetConfigValue("risk.high_threshold", "very high")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidConfigKeys", func() {
		It("contains the retrieval and memory knobs", func() {
			keys := config.ValidConfigKeys()
			Expect(keys).To(ContainElement("retrieval.memory_top_k"))
			Expect(keys).To(ContainElement("memory.reinforcement_boost"))
			Expect(keys).To(ContainElement("risk.medium_threshold"))
			Expect(config.IsValidConfigKey("api.listen")).To(BeTrue())
			Expect(config.IsValidConfigKey("bogus")).To(BeFalse())
		})
	})
})
