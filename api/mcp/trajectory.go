package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gramhealthco/asha/pkg/memory"
)

var (
	trajectoryToolName    = "risk_trajectory"
	trajectoryDescription = "Analyze a user's risk trajectory over a time window and report whether their health is deteriorating, improving, or stable, with an alert level for follow-up."
)

// TrajectoryInput represents the input arguments for the risk_trajectory tool.
type TrajectoryInput struct {
	UserID string `json:"user_id" jsonschema:"the pseudonymous user identifier"`
	Days   int    `json:"days,omitempty" jsonschema:"analysis window in days (default: 30)"`
}

// TrajectoryOutput represents the output of the risk_trajectory tool.
type TrajectoryOutput struct {
	UserID     string             `json:"user_id"`
	Alert      string             `json:"alert"`
	Message    string             `json:"message"`
	Trajectory *memory.Trajectory `json:"trajectory"`
}

// handleTrajectory runs deterioration detection for a user.
func (s *Server) handleTrajectory(ctx context.Context, _ *mcp.CallToolRequest, input TrajectoryInput) (*mcp.CallToolResult, TrajectoryOutput, error) {
	if input.UserID == "" {
		return toolError("user_id is required"), TrajectoryOutput{}, nil
	}

	alert, err := s.config.Manager.DetectDeterioration(ctx, input.UserID, input.Days)
	if err != nil {
		s.config.Logger.Error("MCP trajectory failed", "user_id", input.UserID, "error", err)
		return toolError(fmt.Sprintf("trajectory analysis failed: %v", err)), TrajectoryOutput{}, nil
	}

	return nil, TrajectoryOutput{
		UserID:     input.UserID,
		Alert:      alert.Level,
		Message:    alert.Message,
		Trajectory: alert.Trajectory,
	}, nil
}
