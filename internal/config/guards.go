package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in limits, matching the shipped configs/guards.yaml.
const (
	defaultMinInput           = 5
	defaultMaxInput           = 500
	defaultMaxOutput          = 1000
	defaultRelevanceThreshold = 0.5
	defaultMaxCalls           = 5
	defaultPeriodSeconds      = 10
	defaultMaxHistory         = 20
)

func LoadGuardsConfig() (*GuardsConfig, error) {
	path := os.Getenv("GUARDS_CONFIG_PATH")
	if path == "" {
		path = "configs/guards.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg GuardsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *GuardsConfig) {
	if cfg.Agent.Name == "" {
		cfg.Agent.Name = "guard-agent"
	}
	if cfg.Agent.BlockedMessage == "" {
		cfg.Agent.BlockedMessage = "I can't help with that request."
	}
	if cfg.Agent.ThrottleMessage == "" {
		cfg.Agent.ThrottleMessage = "You're sending messages too quickly. Please wait a moment."
	}
	if cfg.Agent.MaxHistory == 0 {
		cfg.Agent.MaxHistory = defaultMaxHistory
	}

	if cfg.RateLimit.MaxCalls == 0 {
		cfg.RateLimit.MaxCalls = defaultMaxCalls
	}
	if cfg.RateLimit.PeriodSeconds == 0 {
		cfg.RateLimit.PeriodSeconds = defaultPeriodSeconds
	}

	if cfg.Input.MinLength == 0 {
		cfg.Input.MinLength = defaultMinInput
	}
	if cfg.Input.MaxLength == 0 {
		cfg.Input.MaxLength = defaultMaxInput
	}
	if cfg.Output.MaxLength == 0 {
		cfg.Output.MaxLength = defaultMaxOutput
	}

	if cfg.Checks.Toxicity.Policy == "" {
		cfg.Checks.Toxicity.Policy = "block"
	}
	if cfg.Checks.PII.Policy == "" {
		cfg.Checks.PII.Policy = "redact"
	}
	if cfg.Checks.Relevance.Threshold == 0 {
		cfg.Checks.Relevance.Threshold = defaultRelevanceThreshold
	}
}

func (c *GuardsConfig) Validate() error {
	if c.RateLimit.MaxCalls < 0 {
		return fmt.Errorf("rate_limit: negative max_calls %d", c.RateLimit.MaxCalls)
	}
	if c.RateLimit.PeriodSeconds < 0 {
		return fmt.Errorf("rate_limit: negative period_seconds %d", c.RateLimit.PeriodSeconds)
	}

	if c.Input.MinLength < 0 || c.Input.MaxLength < 0 {
		return fmt.Errorf("input: negative length bound")
	}
	if c.Input.MinLength > c.Input.MaxLength {
		return fmt.Errorf("input: min_length %d exceeds max_length %d", c.Input.MinLength, c.Input.MaxLength)
	}
	if c.Output.MinLength < 0 || c.Output.MaxLength < 0 {
		return fmt.Errorf("output: negative length bound")
	}
	if c.Output.MinLength > c.Output.MaxLength {
		return fmt.Errorf("output: min_length %d exceeds max_length %d", c.Output.MinLength, c.Output.MaxLength)
	}

	switch c.Checks.Toxicity.Policy {
	case "block", "redact", "warn":
	default:
		return fmt.Errorf("checks.toxicity: invalid policy %q", c.Checks.Toxicity.Policy)
	}
	switch c.Checks.PII.Policy {
	case "block", "redact", "warn":
	default:
		return fmt.Errorf("checks.pii: invalid policy %q", c.Checks.PII.Policy)
	}

	if t := c.Checks.Relevance.Threshold; t < 0.0 || t > 1.0 {
		return fmt.Errorf("checks.relevance: invalid threshold %f, must be in [0.0, 1.0]", t)
	}

	return nil
}
