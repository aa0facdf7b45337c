package seedcmder

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gramhealthco/asha/cmd/asha/bootstrap"
	"github.com/gramhealthco/asha/pkg/cliui"
	"github.com/gramhealthco/asha/pkg/config"
	"github.com/gramhealthco/asha/pkg/logger"
	"github.com/gramhealthco/asha/pkg/seed"
)

const seedLongDesc string = `Seed the verified medical knowledge and nutrition collections.

Embeds the bundled bilingual corpus and upserts it into the vector store.
Seed IDs are derived from content, so re-running updates in place instead
of duplicating.

Examples:
  asha seed
  asha seed --vector-store-target localhost:6334
  asha seed --embedding-model embeddinggemma`

const seedShortDesc string = "Seed the knowledge base"

var seedFlags = []string{
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
}

type seedCommander struct {
	vectorStoreProvider string
	vectorStoreTarget   string
	embeddingProvider   string
	embeddingTarget     string
	embeddingModel      string
	embeddingDimensions uint
}

func NewSeedCmd() *cobra.Command {
	cmder := &seedCommander{}
	fs := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: seedShortDesc,
		Long:  seedLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, fs, config.FlagVectorStoreProv, &cmder.vectorStoreProvider)
	config.AddStringFlag(cmd, fs, config.FlagVectorStoreTgt, &cmder.vectorStoreTarget)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingProv, &cmder.embeddingProvider)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, fs, config.FlagEmbeddingDims, &cmder.embeddingDimensions)

	return cmd
}

func (c *seedCommander) run(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}
	config.BindRegisteredFlags(v, cmd, config.DefaultFlagSet(), seedFlags)

	components, err := bootstrap.Build(v, logger.Nop())
	if err != nil {
		return err
	}
	defer components.Close()

	if err := cliui.Step(os.Stdout, "Seeding knowledge base", func() error {
		return components.Seeder.Seed(cmd.Context())
	}); err != nil {
		return err
	}

	fmt.Printf("\n  %s Seeded %s knowledge items %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(strconv.Itoa(len(seed.MedicalKnowledge))),
		cliui.DimStyle.Render(fmt.Sprintf("(%d nutrition patterns)", len(seed.NutritionPatterns))),
	)
	return nil
}
