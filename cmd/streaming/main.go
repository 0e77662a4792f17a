package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/supersafe-ai/guard-agent/internal/setup"
	setuplogger "github.com/supersafe-ai/guard-agent/internal/setup/logger"
	"github.com/supersafe-ai/guard-agent/internal/stream"
	"github.com/supersafe-ai/guard-agent/internal/stream/redis"
)

func main() {
	// Setup logging
	logger := setuplogger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	consumerName, _ := os.Hostname()
	if consumerName == "" {
		consumerName = "guard-consumer"
	}

	streamCfg := &stream.StreamConfig{
		Provider: getEnv("STREAM_PROVIDER", "redis"),
		RedisConfig: redis.NewRedisStreamConfig(
			getEnv("REDIS_ADDR", "localhost:6379"),
			os.Getenv("REDIS_PASSWORD"),
			getEnv("GUARD_STREAM", "guard-events"),
			getEnv("GUARD_RESULTS_STREAM", "guard-results"),
			getEnv("GUARD_GROUP", "guard-group"),
			consumerName,
		),
	}

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Pipeline, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up stream consumer")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("Consumer stopped with error")
			stop()
		}
	}()

	log.Info().Str("provider", streamCfg.Provider).Msg("Guard streaming consumer started")

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	if err := consumer.Stop(); err != nil {
		log.Error().Err(err).Msg("Error stopping consumer")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
