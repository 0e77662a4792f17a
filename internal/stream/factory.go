package stream

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/pipeline"
	"github.com/supersafe-ai/guard-agent/internal/stream/redis"
)

type StreamConfig struct {
	Provider    string // redis today; kafka, sqs later
	RedisConfig *redis.RedisStreamConfig
}

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	p *pipeline.Pipeline,
	logger *zerolog.Logger,
) (StreamConsumer, error) {

	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := redis.ConnectRedis(
			ctx,
			cfg.RedisConfig.RedisAddr,
			cfg.RedisConfig.RedisPassword,
			5,
		)
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(
			client,
			cfg.RedisConfig,
			p,
			logger,
		), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
