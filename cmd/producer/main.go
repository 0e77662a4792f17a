package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/supersafe-ai/guard-agent/internal/models"
	setuplogger "github.com/supersafe-ai/guard-agent/internal/setup/logger"
	"github.com/supersafe-ai/guard-agent/internal/stream/redis"
)

func main() {
	log.Logger = setuplogger.New(os.Getenv("LOG_LEVEL"))

	data := flag.String("d", "", "guard request JSON payload")
	streamName := flag.String("stream", "guard-events", "redis stream to publish to")
	flag.Parse()

	if *data == "" {
		log.Fatal().Msg("missing -d payload")
	}

	var req models.GuardRequest
	if err := json.Unmarshal([]byte(*data), &req); err != nil {
		log.Fatal().Err(err).Msg("Invalid guard request payload")
	}
	if req.EventID == "" {
		log.Fatal().Msg("event_id is required")
	}

	ctx := context.Background()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client, err := redis.ConnectRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer client.Close()

	payload, err := json.Marshal(req)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal payload")
	}

	id, err := client.XAdd(ctx, &goredis.XAddArgs{
		Stream: *streamName,
		Values: map[string]interface{}{"payload": string(payload)},
	}).Result()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to publish event")
	}

	log.Info().
		Str("stream", *streamName).
		Str("message_id", id).
		Str("event_id", req.EventID).
		Msg("Event published")
}
