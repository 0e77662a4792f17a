package detector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/llm"
	"github.com/supersafe-ai/guard-agent/internal/models"
)

const (
	relationEntailment    = "entailment"
	relationNeutral       = "neutral"
	relationContradiction = "contradiction"
)

type entailmentResponse struct {
	Relationship string `json:"relationship"`
	Reason       string `json:"reason"`
}

// Hallucination checks whether generated text is grounded in the supplied
// context using an LLM as an NLI judge: the context is the premise, the
// output the hypothesis. Only a contradiction is a hit; neutral statements
// may be unsupported but are not provably wrong.
type Hallucination struct {
	llmClient llm.Client
	maxTokens int
	logger    *zerolog.Logger
}

func NewHallucination(client llm.Client, logger *zerolog.Logger) (*Hallucination, error) {
	if client == nil {
		return nil, fmt.Errorf("hallucination detector requires an LLM client")
	}
	return &Hallucination{
		llmClient: client,
		maxTokens: 256,
		logger:    logger,
	}, nil
}

func (d *Hallucination) Name() string {
	return "hallucination"
}

func (d *Hallucination) Detect(ctx context.Context, content models.Content) (*models.Hit, error) {
	if content.Context == "" {
		return nil, nil
	}

	resp, err := d.llmClient.InvokeModelWithRetry(ctx, llm.Request{
		Prompt:      d.buildPrompt(content),
		MaxTokens:   d.maxTokens,
		Temperature: 0.0, // deterministic
	})
	if err != nil {
		return nil, fmt.Errorf("entailment check failed: %w", err)
	}

	var parsed entailmentResponse
	if err := json.Unmarshal([]byte(stripMarkdownCodeBlock(resp.Content)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to deserialize entailment response: %w", err)
	}

	switch parsed.Relationship {
	case relationEntailment, relationNeutral:
		d.logger.Debug().
			Str("detector", d.Name()).
			Str("relationship", parsed.Relationship).
			Msg("entailment check passed")
		return nil, nil
	case relationContradiction:
		reason := parsed.Reason
		if reason == "" {
			reason = "output contradicts the provided context"
		}
		return &models.Hit{Reason: fmt.Sprintf("hallucination detected: %s", reason)}, nil
	default:
		return nil, fmt.Errorf("invalid entailment response: unknown relationship %q", parsed.Relationship)
	}
}

func (d *Hallucination) buildPrompt(content models.Content) string {
	return fmt.Sprintf(`You are a natural language inference judge.
Classify the relationship between the premise and the hypothesis as exactly one of:
"entailment", "neutral", or "contradiction".

Premise: %s
Hypothesis: %s

Respond ONLY in raw JSON with no markdown, no code blocks, no explanation:
{"relationship": "<entailment|neutral|contradiction>", "reason": "<string>"}`, content.Context, content.Text)
}
