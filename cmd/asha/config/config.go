// Package configcmder provides the config command for managing persistent
// asha configuration stored in the .asha/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent asha configuration.

Configuration is stored as config.toml in the .asha/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  api.listen,
  vector_store.provider, vector_store.target, vector_store.api_key,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  retrieval.memory_top_k, retrieval.knowledge_top_k,
  retrieval.nutrition_top_k, retrieval.rerank_top_k,
  memory.decay_factor, memory.decay_age_days,
  memory.reinforcement_boost, memory.trajectory_window_days,
  risk.high_threshold, risk.medium_threshold

Use subcommands to get, set, or list configuration values:
  asha config set <key> <value>    Set a configuration value
  asha config get <key>            Get a configuration value
  asha config list                 List all configuration values

Examples:
  asha config set vector_store.target localhost:6334
  asha config set embedding.model embeddinggemma
  asha config get risk.high_threshold
  asha config list`

const configShortDesc string = "Manage persistent asha configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
