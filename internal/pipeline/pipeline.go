package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/models"
)

// Pipeline sequences an ordered input chain and an ordered output chain.
// Each call is strictly sequential: a stage's output text is the next
// stage's input, and execution always stops at the first block. Instances
// are immutable after construction and safe for concurrent calls.
type Pipeline struct {
	input  []StageRunner
	output []StageRunner
	logger *zerolog.Logger
}

func New(input []StageRunner, output []StageRunner, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		input:  input,
		output: output,
		logger: logger,
	}
}

// ValidateInput runs the input chain over user-supplied text before it
// reaches generation.
func (p *Pipeline) ValidateInput(ctx context.Context, text string) models.PipelineResult {
	return p.run(ctx, models.Content{Text: text}, p.input)
}

// ValidateOutput runs the output chain over generated text. Context gates
// the grounding check, query gates the relevance check; either may be empty.
func (p *Pipeline) ValidateOutput(ctx context.Context, text, contextText, query string) models.PipelineResult {
	return p.run(ctx, models.Content{Text: text, Context: contextText, Query: query}, p.output)
}

func (p *Pipeline) run(ctx context.Context, content models.Content, stages []StageRunner) models.PipelineResult {
	trace := make([]models.Verdict, 0, len(stages))

	for _, stage := range stages {
		verdict := stage.Run(ctx, content)
		trace = append(trace, verdict)

		switch verdict.Outcome {
		case models.OutcomeBlocked:
			p.logger.Info().
				Str("stage", verdict.Stage).
				Str("reason", verdict.Reason).
				Int("stages_run", len(trace)).
				Msg("pipeline blocked")
			return models.PipelineResult{
				Blocked:    true,
				Reason:     fmt.Sprintf("%s: %s", verdict.Stage, verdict.Reason),
				StageTrace: trace,
			}
		case models.OutcomeRedacted:
			p.logger.Debug().
				Str("stage", verdict.Stage).
				Str("reason", verdict.Reason).
				Msg("working text redacted")
			content.Text = verdict.Text
		}
		// pass and skipped leave the working text unchanged
	}

	return models.PipelineResult{
		Text:       content.Text,
		StageTrace: trace,
	}
}
