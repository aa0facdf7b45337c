package decaycmder

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gramhealthco/asha/cmd/asha/bootstrap"
	"github.com/gramhealthco/asha/pkg/cliui"
	"github.com/gramhealthco/asha/pkg/config"
	"github.com/gramhealthco/asha/pkg/logger"
)

const decayLongDesc string = `Apply risk decay to a user's memories.

Old low-risk memories lose weight over time so stale complaints stop
inflating retrieval. Only memories older than the configured decay age
and below the medium risk threshold are touched.

Examples:
  asha decay user-7f3a
  asha decay user-7f3a --config-dir ./.asha`

const decayShortDesc string = "Apply risk decay to a user's old memories"

func NewDecayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decay <user_id>",
		Short: decayShortDesc,
		Long:  decayLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecay(cmd, args[0])
		},
	}

	return cmd
}

func runDecay(cmd *cobra.Command, userID string) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}

	components, err := bootstrap.Build(v, logger.Nop())
	if err != nil {
		return err
	}
	defer components.Close()

	var decayed int
	if err := cliui.Step(os.Stdout, "Applying decay", func() error {
		var decayErr error
		decayed, decayErr = components.Manager.ApplyDecay(cmd.Context(), userID)
		return decayErr
	}); err != nil {
		return err
	}

	fmt.Printf("\n  %s Decayed %s memories for %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(strconv.Itoa(decayed)),
		cliui.ValueStyle.Render(userID),
	)
	return nil
}
