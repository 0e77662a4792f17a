package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/models"
	"github.com/supersafe-ai/guard-agent/internal/pipeline"
)

type Consumer struct {
	client        *redis.Client
	stream        string
	resultsStream string
	groupID       string
	consumerName  string
	pipeline      *pipeline.Pipeline
	logger        *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *RedisStreamConfig, p *pipeline.Pipeline, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:        client,
		stream:        cfg.Stream,
		resultsStream: cfg.ResultsStream,
		groupID:       cfg.Group,
		consumerName:  cfg.ConsumerName,
		pipeline:      p,
		logger:        logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var guardRequest models.GuardRequest
	if err := json.Unmarshal([]byte(payload), &guardRequest); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // ACK bad messages so they don't redeliver
		return
	}

	result := c.guard(ctx, guardRequest)

	c.logger.Info().
		Str("id", msg.ID).
		Str("event_id", result.ID).
		Bool("blocked", result.Blocked).
		Int("stages_run", len(result.StageTrace)).
		Msg("Guard complete")

	c.publish(ctx, result)
	c.ack(ctx, msg.ID)
}

// guard routes the event through the chain matching its direction. Events
// without an explicit type are treated as user input.
func (c *Consumer) guard(ctx context.Context, req models.GuardRequest) models.GuardResult {
	var pipelineResult models.PipelineResult
	direction := req.EventType
	if direction != models.EventTypeModelOutput {
		direction = models.EventTypeUserInput
	}

	switch direction {
	case models.EventTypeModelOutput:
		pipelineResult = c.pipeline.ValidateOutput(ctx, req.Content.Text, req.Content.Context, req.Content.Query)
	default:
		pipelineResult = c.pipeline.ValidateInput(ctx, req.Content.Text)
	}

	return models.GuardResult{
		ID:         req.EventID,
		Direction:  direction,
		Text:       pipelineResult.Text,
		Blocked:    pipelineResult.Blocked,
		Reason:     pipelineResult.Reason,
		StageTrace: pipelineResult.StageTrace,
		CreatedAt:  time.Now(),
	}
}

// publish mirrors the verdict onto the results stream when one is
// configured.
func (c *Consumer) publish(ctx context.Context, result models.GuardResult) {
	if c.resultsStream == "" {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Error().Err(err).Str("event_id", result.ID).Msg("Failed to encode result")
		return
	}

	err = c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultsStream,
		Values: map[string]any{"payload": string(payload)},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("event_id", result.ID).Msg("Failed to publish result")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
