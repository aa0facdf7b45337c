package trajectorycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gramhealthco/asha/cmd/asha/bootstrap"
	"github.com/gramhealthco/asha/pkg/cliui"
	"github.com/gramhealthco/asha/pkg/config"
	"github.com/gramhealthco/asha/pkg/logger"
	"github.com/gramhealthco/asha/pkg/memory"
)

const trajectoryLongDesc string = `Analyze a user's risk trajectory.

Compares recent risk scores against older ones within the window and
reports whether the user's health is deteriorating, improving, or stable,
with an alert level for follow-up.

Examples:
  asha trajectory user-7f3a
  asha trajectory user-7f3a --days 14`

const trajectoryShortDesc string = "Analyze a user's risk trajectory"

func NewTrajectoryCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trajectory <user_id>",
		Short: trajectoryShortDesc,
		Long:  trajectoryLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrajectory(cmd, args[0], days)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Analysis window in days (default: configured window)")

	return cmd
}

func runTrajectory(cmd *cobra.Command, userID string, days int) error {
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

	alert, err := components.Manager.DetectDeterioration(cmd.Context(), userID, days)
	if err != nil {
		return fmt.Errorf("analyzing trajectory: %w", err)
	}

	fmt.Printf("\n  %s %s\n\n",
		cliui.KeyStyle.Render("User:"),
		cliui.ValueStyle.Render(userID),
	)
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Alert:"),
		renderAlert(alert.Level),
	)
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Message:"), alert.Message)

	t := alert.Trajectory
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Trend:"),
		cliui.ValueStyle.Render(t.Trend),
	)
	if t.Status == memory.StatusAnalyzed {
		fmt.Printf("  %s %.2f %s %.2f\n",
			cliui.KeyStyle.Render("Risk:"),
			t.OlderAvg,
			cliui.DimStyle.Render("->"),
			t.RecentAvg,
		)
	}
	fmt.Printf("  %s %d\n\n",
		cliui.KeyStyle.Render("Signals:"),
		t.SignalCount,
	)

	return nil
}

func renderAlert(level string) string {
	switch level {
	case memory.AlertHighPriority:
		return cliui.FailMark + " " + level
	case memory.AlertMonitor:
		return cliui.DimStyle.Render(level)
	default:
		return cliui.SuccessMark + " " + level
	}
}
