package api

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/gramhealthco/asha/pkg/memory"
	"github.com/gramhealthco/asha/pkg/retrieval"
	"github.com/gramhealthco/asha/pkg/risk"
	"github.com/gramhealthco/asha/pkg/vector"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the API server for the health memory engine.
type Server struct {
	config  Config
	engine  *retrieval.Engine
	manager *memory.Manager
	scorer  *risk.Scorer
	store   vector.Store
	logger  *slog.Logger
	app     *fiber.App
}

// NewServer creates a new API server. The engine, manager, and scorer are
// injected so they can be shared with the MCP server.
func NewServer(
	config Config,
	engine *retrieval.Engine,
	manager *memory.Manager,
	scorer *risk.Scorer,
	store vector.Store,
	mcpHandler http.Handler,
	logger *slog.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		engine:  engine,
		manager: manager,
		scorer:  scorer,
		store:   store,
		logger:  logger,
		app:     app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/health", s.handleHealth)

	v1 := app.Group("/v1")
	v1.Post("/query", s.handleQuery)
	v1.Get("/trajectory/:userID", s.handleTrajectory)
	v1.Post("/decay", s.handleDecay)
	v1.Post("/insights", s.handleInsight)
	v1.Get("/users/high-risk", s.handleHighRiskUsers)
	v1.Delete("/users/:userID", s.handleEraseUser)

	if mcpHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(mcpHandler))
	}

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
