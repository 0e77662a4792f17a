package batch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/models"
	"github.com/supersafe-ai/guard-agent/internal/pipeline"
)

// Processor fans records out to a fixed pool of workers, each running the
// guard chain matching the record's direction. Result order is not
// guaranteed.
type Processor struct {
	pipeline *pipeline.Pipeline
	workers  int
	logger   *zerolog.Logger
}

func NewProcessor(p *pipeline.Pipeline, workers int, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		pipeline: p,
		workers:  workers,
		logger:   logger,
	}
}

func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan models.GuardResult {
	jobs := make(chan InputRecord)
	results := make(chan models.GuardResult)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range jobs {
				result := p.guard(ctx, record.Request)
				select {
				case results <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			if record.Error != nil {
				p.logger.Warn().Int("line", record.LineNumber).Msg("Skipping malformed record")
				continue
			}
			select {
			case jobs <- record:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) guard(ctx context.Context, req models.GuardRequest) models.GuardResult {
	var pipelineResult models.PipelineResult
	direction := req.EventType
	if direction != models.EventTypeModelOutput {
		direction = models.EventTypeUserInput
	}

	switch direction {
	case models.EventTypeModelOutput:
		pipelineResult = p.pipeline.ValidateOutput(ctx, req.Content.Text, req.Content.Context, req.Content.Query)
	default:
		pipelineResult = p.pipeline.ValidateInput(ctx, req.Content.Text)
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
