package setup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/agent"
	"github.com/supersafe-ai/guard-agent/internal/config"
	"github.com/supersafe-ai/guard-agent/internal/detector"
	"github.com/supersafe-ai/guard-agent/internal/llm"
	"github.com/supersafe-ai/guard-agent/internal/llm/bedrock"
	"github.com/supersafe-ai/guard-agent/internal/llm/gpt"
	"github.com/supersafe-ai/guard-agent/internal/models"
	"github.com/supersafe-ai/guard-agent/internal/pipeline"
	"github.com/supersafe-ai/guard-agent/internal/ratelimit"
)

type Config struct {
	AWSRegion       string
	ClaudeModelID   string
	OpenAIKey       string
	OpenAIModelID   string
	DefaultProvider string
}

type Dependencies struct {
	Pipeline *pipeline.Pipeline
	Limiter  *ratelimit.Limiter
	Agent    *agent.Agent
	Guards   *config.GuardsConfig
	Logger   *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:   getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:   getEnv("OPEN_AI_MODEL_ID", ""),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "bedrock"),
	}
}

// Wire builds the guard pipeline, rate limiter, and agent from the yaml
// configuration. An unavailable LLM provider degrades the LLM-backed output
// checks instead of failing startup; the agent then answers from retrieved
// context alone.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	guards, err := config.LoadGuardsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load guards config: %w", err)
	}

	llmClient, llmErr := createLLMClient(ctx, cfg.DefaultProvider, cfg)
	if llmErr != nil {
		logger.Warn().Err(llmErr).Msg("LLM provider unavailable, LLM-backed checks degraded")
	}

	inputStages, err := buildInputStages(guards, logger)
	if err != nil {
		return nil, err
	}
	outputStages, err := buildOutputStages(guards, llmClient, llmErr, logger)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(inputStages, outputStages, logger)

	limiter, err := ratelimit.New(guards.RateLimit.MaxCalls, time.Duration(guards.RateLimit.PeriodSeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate limiter: %w", err)
	}

	safeAgent := agent.New(p, limiter, llmClient, nil, guards.Agent, logger)

	return &Dependencies{
		Pipeline: p,
		Limiter:  limiter,
		Agent:    safeAgent,
		Guards:   guards,
		Logger:   logger,
	}, nil
}

// buildInputStages wires, in order: sanitization, structural validation,
// injection, toxicity, PII.
func buildInputStages(guards *config.GuardsConfig, logger *zerolog.Logger) ([]pipeline.StageRunner, error) {
	var stages []pipeline.StageRunner

	sanitizerStage, err := pipeline.NewStage(detector.NewSanitizer(), models.KindRequired, models.PolicyRedact, logger)
	if err != nil {
		return nil, err
	}
	stages = append(stages, sanitizerStage)

	validity, err := detector.NewInputValidity(detector.InputValidityConfig{
		MinLength:         guards.Input.MinLength,
		MaxLength:         guards.Input.MaxLength,
		AllowedChars:      guards.Input.AllowedChars,
		ForbiddenPatterns: guards.Input.ForbiddenPatterns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build input validator: %w", err)
	}
	validityStage, err := pipeline.NewStage(validity, models.KindRequired, models.PolicyBlock, logger)
	if err != nil {
		return nil, err
	}
	stages = append(stages, validityStage)

	if guards.Checks.Injection.Enabled {
		injection, err := detector.NewInjection(guards.Checks.Injection.Patterns...)
		if err != nil {
			return nil, fmt.Errorf("failed to build injection detector: %w", err)
		}
		stage, err := pipeline.NewStage(injection, models.KindRequired, models.PolicyBlock, logger)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	if guards.Checks.Toxicity.Enabled {
		toxicity, err := detector.NewToxicity(guards.Checks.Toxicity.Patterns...)
		if err != nil {
			return nil, fmt.Errorf("failed to build toxicity detector: %w", err)
		}
		stage, err := pipeline.NewStage(toxicity, models.KindRequired, stagePolicy(guards.Checks.Toxicity.Policy), logger)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	if guards.Checks.PII.Enabled {
		stage, err := pipeline.NewStage(detector.NewPII(), models.KindRequired, stagePolicy(guards.Checks.PII.Policy), logger)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	return stages, nil
}

// buildOutputStages wires, in order: structural validation, toxicity, then
// the degradable LLM-backed checks.
func buildOutputStages(guards *config.GuardsConfig, llmClient llm.Client, llmErr error, logger *zerolog.Logger) ([]pipeline.StageRunner, error) {
	var stages []pipeline.StageRunner

	validity, err := detector.NewOutputValidity(detector.OutputValidityConfig{
		MinLength:         guards.Output.MinLength,
		MaxLength:         guards.Output.MaxLength,
		ForbiddenPatterns: guards.Output.ForbiddenPatterns,
		RequiredJSONKeys:  guards.Output.RequiredJSONKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build output validator: %w", err)
	}
	validityStage, err := pipeline.NewStage(validity, models.KindRequired, models.PolicyBlock, logger)
	if err != nil {
		return nil, err
	}
	stages = append(stages, validityStage)

	if guards.Checks.Toxicity.Enabled {
		toxicity, err := detector.NewToxicity(guards.Checks.Toxicity.Patterns...)
		if err != nil {
			return nil, fmt.Errorf("failed to build toxicity detector: %w", err)
		}
		stage, err := pipeline.NewStage(toxicity, models.KindRequired, models.PolicyBlock, logger)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	if guards.Checks.Hallucination.Enabled {
		stage, err := pipeline.NewDegradableStage("hallucination", models.KindOptional, models.PolicyBlock,
			func() (pipeline.Detector, error) {
				if llmClient == nil {
					return nil, fmt.Errorf("no LLM client: %w", llmErr)
				}
				return detector.NewHallucination(llmClient, logger)
			}, logger, pipeline.WithNeeds(pipeline.NeedsContext))
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	if guards.Checks.Relevance.Enabled {
		stage, err := pipeline.NewDegradableStage("semantic-relevance", models.KindOptional, models.PolicyWarn,
			func() (pipeline.Detector, error) {
				if llmClient == nil {
					return nil, fmt.Errorf("no LLM client: %w", llmErr)
				}
				return detector.NewRelevance(llmClient, guards.Checks.Relevance.Threshold, logger)
			}, logger, pipeline.WithNeeds(pipeline.NeedsQuery))
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	return stages, nil
}

func stagePolicy(policy string) models.StagePolicy {
	switch policy {
	case "redact":
		return models.PolicyRedact
	case "warn":
		return models.PolicyWarn
	default:
		return models.PolicyBlock
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.Client, error) {
	switch provider {
	case "openai":
		client, err := gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
