// Package ashacmder
package ashacmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/gramhealthco/asha/cmd/asha/config"
	decaycmder "github.com/gramhealthco/asha/cmd/asha/decay"
	seedcmder "github.com/gramhealthco/asha/cmd/asha/seed"
	servecmder "github.com/gramhealthco/asha/cmd/asha/serve"
	trajectorycmder "github.com/gramhealthco/asha/cmd/asha/trajectory"
)

const ashaLongDesc string = `Asha is a retrieval-augmented memory and risk engine for maternal health signals.

Run services using:
  asha serve           Run the API and MCP servers
  asha seed            Seed the medical knowledge and nutrition collections
  asha decay           Apply risk decay to a user's old low-risk memories
  asha trajectory      Analyze a user's risk trajectory`

const ashaShortDesc string = "Asha - Maternal Health Memory Engine"

func NewAshaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asha",
		Short: ashaShortDesc,
		Long:  ashaLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Path to the .asha config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(seedcmder.NewSeedCmd())
	cmd.AddCommand(decaycmder.NewDecayCmd())
	cmd.AddCommand(trajectorycmder.NewTrajectoryCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())

	return cmd
}
