package config

// GuardsConfig is the complete pipeline configuration loaded from yaml.
type GuardsConfig struct {
	Agent     AgentConfig     `yaml:"agent"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Checks    ChecksConfig    `yaml:"checks"`
}

// AgentConfig holds the chat agent's identity and canned refusals.
type AgentConfig struct {
	Name            string `yaml:"name"`
	BlockedMessage  string `yaml:"blocked_message"`
	ThrottleMessage string `yaml:"throttle_message"`
	MaxHistory      int    `yaml:"max_history"`
}

// RateLimitConfig bounds calls per client over a sliding window.
type RateLimitConfig struct {
	MaxCalls      int `yaml:"max_calls"`
	PeriodSeconds int `yaml:"period_seconds"`
}

// InputConfig bounds user-supplied text before generation.
type InputConfig struct {
	MinLength         int      `yaml:"min_length"`
	MaxLength         int      `yaml:"max_length"`
	AllowedChars      string   `yaml:"allowed_chars"`
	ForbiddenPatterns []string `yaml:"forbidden_patterns"`
}

// OutputConfig bounds generated text before it reaches the caller.
type OutputConfig struct {
	MinLength         int      `yaml:"min_length"`
	MaxLength         int      `yaml:"max_length"`
	ForbiddenPatterns []string `yaml:"forbidden_patterns"`
	RequiredJSONKeys  []string `yaml:"required_json_keys"`
}

// ChecksConfig configures the individual detectors.
type ChecksConfig struct {
	Injection     InjectionCheck     `yaml:"injection"`
	Toxicity      ToxicityCheck      `yaml:"toxicity"`
	PII           PIICheck           `yaml:"pii"`
	Hallucination HallucinationCheck `yaml:"hallucination"`
	Relevance     RelevanceCheck     `yaml:"relevance"`
}

type InjectionCheck struct {
	Enabled  bool     `yaml:"enabled"`
	Patterns []string `yaml:"patterns"`
}

type ToxicityCheck struct {
	Enabled  bool     `yaml:"enabled"`
	Policy   string   `yaml:"policy"`
	Patterns []string `yaml:"patterns"`
}

type PIICheck struct {
	Enabled bool   `yaml:"enabled"`
	Policy  string `yaml:"policy"`
}

type HallucinationCheck struct {
	Enabled bool `yaml:"enabled"`
}

type RelevanceCheck struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
}
