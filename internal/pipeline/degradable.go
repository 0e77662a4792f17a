package pipeline

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/models"
)

// DetectorFactory builds a detector whose backing capability may be absent
// (a model dependency, credentials, a remote endpoint).
type DetectorFactory func() (Detector, error)

// DegradableStage decorates a stage whose detector may fail to construct.
// Degradation is decided once, here, and fixed for the pipeline's lifetime:
// a degraded stage never invokes a detector and reports skipped on every run,
// so the fail-open decision stays visible in the trace.
type DegradableStage struct {
	name           string
	stage          *Stage
	degraded       bool
	degradedReason string
}

func NewDegradableStage(name string, kind models.StageKind, policy models.StagePolicy, factory DetectorFactory, logger *zerolog.Logger, opts ...StageOption) (*DegradableStage, error) {
	det, err := factory()
	if err != nil {
		logger.Warn().
			Err(err).
			Str("stage", name).
			Msg("detector unavailable, stage degraded")
		return &DegradableStage{
			name:           name,
			degraded:       true,
			degradedReason: err.Error(),
		}, nil
	}

	stage, err := NewStage(det, kind, policy, logger, opts...)
	if err != nil {
		return nil, err
	}
	return &DegradableStage{name: name, stage: stage}, nil
}

func (d *DegradableStage) Name() string {
	return d.name
}

// Degraded reports whether the backing detector failed to construct.
func (d *DegradableStage) Degraded() bool {
	return d.degraded
}

func (d *DegradableStage) Run(ctx context.Context, content models.Content) models.Verdict {
	if d.degraded {
		return models.Skipped(d.name, content.Text, "detector unavailable: "+d.degradedReason)
	}
	return d.stage.Run(ctx, content)
}
