package detector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/llm"
	"github.com/supersafe-ai/guard-agent/internal/models"
)

type similarityResponse struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Relevance scores how topically related the text is to the query using an
// LLM judge. Below-threshold similarity is reported as a hit; whether that
// blocks is the wiring's choice (the default pipeline treats it as advisory).
type Relevance struct {
	llmClient llm.Client
	threshold float64
	maxTokens int
	logger    *zerolog.Logger
}

func NewRelevance(client llm.Client, threshold float64, logger *zerolog.Logger) (*Relevance, error) {
	if client == nil {
		return nil, fmt.Errorf("relevance detector requires an LLM client")
	}
	if threshold < 0.0 || threshold > 1.0 {
		return nil, fmt.Errorf("relevance threshold %f out of range [0.0, 1.0]", threshold)
	}
	return &Relevance{
		llmClient: client,
		threshold: threshold,
		maxTokens: 256,
		logger:    logger,
	}, nil
}

func (d *Relevance) Name() string {
	return "semantic-relevance"
}

func (d *Relevance) Detect(ctx context.Context, content models.Content) (*models.Hit, error) {
	if content.Query == "" {
		return nil, nil
	}

	resp, err := d.llmClient.InvokeModelWithRetry(ctx, llm.Request{
		Prompt:      d.buildPrompt(content),
		MaxTokens:   d.maxTokens,
		Temperature: 0.0, // deterministic
	})
	if err != nil {
		return nil, fmt.Errorf("similarity check failed: %w", err)
	}

	var parsed similarityResponse
	if err := json.Unmarshal([]byte(stripMarkdownCodeBlock(resp.Content)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to deserialize similarity response: %w", err)
	}

	if parsed.Score < 0.0 || parsed.Score > 1.0 {
		return nil, fmt.Errorf("invalid similarity response: score %f out of range [0.0, 1.0]", parsed.Score)
	}

	d.logger.Debug().
		Str("detector", d.Name()).
		Float64("score", parsed.Score).
		Float64("threshold", d.threshold).
		Msg("similarity scored")

	if parsed.Score < d.threshold {
		return &models.Hit{
			Reason: fmt.Sprintf("answer drifts off-topic: similarity %.2f below threshold %.2f", parsed.Score, d.threshold),
		}, nil
	}
	return nil, nil
}

func (d *Relevance) buildPrompt(content models.Content) string {
	return fmt.Sprintf(`You are an evaluation judge.
Score how topically relevant the answer is to the query on a scale from 0.0 to 1.0.

Query: %s
Answer: %s

Respond ONLY in raw JSON with no markdown, no code blocks, no explanation:
{"score": <float>, "reason": "<string>"}`, content.Query, content.Text)
}
