package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/config"
	"github.com/supersafe-ai/guard-agent/internal/llm"
	"github.com/supersafe-ai/guard-agent/internal/pipeline"
	"github.com/supersafe-ai/guard-agent/internal/ratelimit"
)

const systemPrompt = `You are a helpful and polite customer service assistant.
You answer questions based ONLY on the provided context.
If you don't know the answer, say so. Do not make up information.
Be concise and professional.`

const noContextReply = "I apologize, but I don't have information about that topic in my knowledge base."

// Turn is one exchange kept in the agent's bounded history.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Reply is the agent's answer to a single chat message. Blocked and
// Throttled replies carry the configured refusal text in Text.
type Reply struct {
	Text      string `json:"text"`
	Blocked   bool   `json:"blocked"`
	Throttled bool   `json:"throttled"`
	Reason    string `json:"reason,omitempty"`
}

// Agent answers questions from a keyword-matched knowledge base with every
// message guarded on both sides of generation: rate limit, then the input
// chain, then retrieval and generation, then the output chain. The LLM
// client is optional; without one the agent answers from retrieved context
// alone.
type Agent struct {
	pipeline  *pipeline.Pipeline
	limiter   *ratelimit.Limiter
	llmClient llm.Client
	kb        KnowledgeBase
	cfg       config.AgentConfig
	logger    *zerolog.Logger

	mu      sync.Mutex
	history []Turn
}

func New(p *pipeline.Pipeline, limiter *ratelimit.Limiter, client llm.Client, kb KnowledgeBase, cfg config.AgentConfig, logger *zerolog.Logger) *Agent {
	if kb == nil {
		kb = DefaultKnowledgeBase()
	}
	return &Agent{
		pipeline:  p,
		limiter:   limiter,
		llmClient: client,
		kb:        kb,
		cfg:       cfg,
		logger:    logger,
	}
}

// Chat processes one user message end to end. clientID scopes the rate
// limit; callers without a client identity should pass a stable constant.
func (a *Agent) Chat(ctx context.Context, clientID, userInput string) (Reply, error) {
	if !a.limiter.Admit(clientID) {
		a.logger.Warn().Str("client_id", clientID).Msg("chat throttled")
		return Reply{Text: a.cfg.ThrottleMessage, Throttled: true, Reason: "rate limit exceeded"}, nil
	}

	inputResult := a.pipeline.ValidateInput(ctx, userInput)
	if inputResult.Blocked {
		a.logger.Info().Str("reason", inputResult.Reason).Msg("input blocked")
		return Reply{Text: a.cfg.BlockedMessage, Blocked: true, Reason: inputResult.Reason}, nil
	}

	query := inputResult.Text
	docs := a.kb.Retrieve(query)

	raw, err := a.generate(ctx, query, docs)
	if err != nil {
		return Reply{}, fmt.Errorf("generation failed: %w", err)
	}

	outputResult := a.pipeline.ValidateOutput(ctx, raw, docs, query)
	if outputResult.Blocked {
		a.logger.Info().Str("reason", outputResult.Reason).Msg("output blocked")
		return Reply{Text: a.cfg.BlockedMessage, Blocked: true, Reason: outputResult.Reason}, nil
	}

	a.remember(query, outputResult.Text)
	return Reply{Text: outputResult.Text}, nil
}

// History returns a copy of the retained turns, oldest first.
func (a *Agent) History() []Turn {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Turn, len(a.history))
	copy(out, a.history)
	return out
}

func (a *Agent) generate(ctx context.Context, query, docs string) (string, error) {
	if docs == "" {
		return noContextReply, nil
	}

	if a.llmClient == nil {
		return fmt.Sprintf("Based on our policy: %s", docs), nil
	}

	resp, err := a.llmClient.InvokeModelWithRetry(ctx, llm.Request{
		Prompt:      a.buildPrompt(query, docs),
		MaxTokens:   512,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

func (a *Agent) buildPrompt(query, docs string) string {
	return fmt.Sprintf("%s\n\nContext:\n%s\n\nQuestion: %s", systemPrompt, docs, query)
}

func (a *Agent) remember(user, assistant string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, Turn{User: user, Assistant: assistant})
	if max := a.cfg.MaxHistory; max > 0 && len(a.history) > max {
		a.history = a.history[len(a.history)-max:]
	}
}
