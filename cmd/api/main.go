package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/emicklei/go-restful/v3"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/supersafe-ai/guard-agent/internal/api"
	"github.com/supersafe-ai/guard-agent/internal/api/middleware"
	"github.com/supersafe-ai/guard-agent/internal/setup"
	setuplogger "github.com/supersafe-ai/guard-agent/internal/setup/logger"
)

func main() {
	// Setup logging
	logger := setuplogger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx := context.Background()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// API
	handler := api.NewHandler(deps.Pipeline, deps.Agent, &logger)
	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	// Server
	port := os.Getenv("GUARD_AGENT_API_PORT")
	if port == "" {
		port = "18082"
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("address", addr).Msg("Starting Guard Agent API")

	server := http.Server{
		Addr:    addr,
		Handler: corsHandler.Handler(container),
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
