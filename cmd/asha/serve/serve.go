// Package servecmder provides the serve command for running the API and
// MCP servers.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gramhealthco/asha/api"
	"github.com/gramhealthco/asha/api/mcp"
	"github.com/gramhealthco/asha/cmd/asha/bootstrap"
	"github.com/gramhealthco/asha/pkg/config"
	"github.com/gramhealthco/asha/pkg/logger"
)

type ServeCommander struct {
	listen              string
	vectorStoreProvider string
	vectorStoreTarget   string
	embeddingProvider   string
	embeddingTarget     string
	embeddingModel      string
	embeddingDimensions uint
	noMCP               bool
	debug               bool
	configDir           string
	logger              *slog.Logger
}

const serveLongDesc string = `Run the asha servers.

Starts the HTTP API server and mounts the MCP server on /mcp. On startup
the vector store collections are created if missing.

Examples:
  asha serve
  asha serve --listen :8090
  asha serve --vector-store-provider memory
  asha serve --no-mcp`

const serveShortDesc string = "Run the API and MCP servers"

var serveFlags = []string{
	config.FlagAPIListen,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}
	fs := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, fs, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, fs, config.FlagVectorStoreProv, &cmder.vectorStoreProvider)
	config.AddStringFlag(cmd, fs, config.FlagVectorStoreTgt, &cmder.vectorStoreTarget)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingProv, &cmder.embeddingProvider)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, fs, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, fs, config.FlagEmbeddingDims, &cmder.embeddingDimensions)
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP server mount")

	return cmd
}

func (c *ServeCommander) run(cmd *cobra.Command) error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithJSON(true))

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}
	config.BindRegisteredFlags(v, cmd, config.DefaultFlagSet(), serveFlags)

	components, err := bootstrap.Build(v, c.logger)
	if err != nil {
		return err
	}
	defer components.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := components.Seeder.EnsureCollections(ctx); err != nil {
		return fmt.Errorf("ensuring collections: %w", err)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Engine:  components.Engine,
		Manager: components.Manager,
		Scorer:  components.Scorer,
		Noop:    c.noMCP,
		Logger:  c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	apiConfig := api.Config{
		ListenAddr: v.GetString("api.listen"),
	}
	apiServer := api.NewServer(
		apiConfig,
		components.Engine,
		components.Manager,
		components.Scorer,
		components.Store,
		mcpServer.Handler(),
		c.logger,
	)

	c.logger.Info("starting servers",
		"api_addr", apiConfig.ListenAddr,
		"vector_store", v.GetString("vector_store.provider"),
		"embedding_model", v.GetString("embedding.model"),
		"mcp_enabled", !c.noMCP,
	)

	// Channel to capture errors from goroutines
	errChan := make(chan error, 1)

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return apiServer.Shutdown()
	}
}
