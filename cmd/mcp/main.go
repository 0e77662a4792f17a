package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/supersafe-ai/guard-agent/internal/mcpadapter"
	"github.com/supersafe-ai/guard-agent/internal/setup"
	setuplogger "github.com/supersafe-ai/guard-agent/internal/setup/logger"
)

func main() {
	// Setup logging
	logger := setuplogger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = logger

	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes (e.g. echo | ./bin/guard-mcp)
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "guard-agent",
			Version: "1.0.0",
		}, nil,
	)

	// Add Tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "guard_input",
		Description: "Run user input through the input guard chain: length and charset checks, sanitization, prompt-injection, toxicity, and PII detection",
	}, mcpadapter.NewGuardInputHandler(deps.Pipeline))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "guard_output",
		Description: "Run model output through the output guard chain: validity, toxicity, hallucination (needs context), and semantic relevance (needs query)",
	}, mcpadapter.NewGuardOutputHandler(deps.Pipeline))
	return server
}
