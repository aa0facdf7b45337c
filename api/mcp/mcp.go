// Package mcp provides an MCP (Model Context Protocol) server exposing the
// health memory engine to assistant runtimes.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gramhealthco/asha/pkg/memory"
	"github.com/gramhealthco/asha/pkg/retrieval"
	"github.com/gramhealthco/asha/pkg/risk"
	"github.com/gramhealthco/asha/pkg/utils"
)

type Config struct {
	// Engine runs evidence retrieval for the health_query tool.
	Engine *retrieval.Engine

	// Manager provides trajectory analysis for the risk_trajectory tool.
	Manager *memory.Manager

	// Scorer computes risk scores for retrieved queries.
	Scorer *risk.Scorer

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the health tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "asha",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.Engine == nil {
		return nil, errors.New("retrieval engine is required")
	}
	if c.Manager == nil {
		return nil, errors.New("memory manager is required")
	}
	if c.Scorer == nil {
		return nil, errors.New("risk scorer is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        healthQueryToolName,
		Description: healthQueryDescription,
	}, s.handleHealthQuery)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        trajectoryToolName,
		Description: trajectoryDescription,
	}, s.handleTrajectory)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
