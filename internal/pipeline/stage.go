package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/models"
)

// Detector is the capability contract a stage consumes. Detect must be
// side-effect-free and deterministic for a given text and configuration, and
// must tolerate concurrent invocation.
type Detector interface {
	Name() string
	Detect(ctx context.Context, content models.Content) (*models.Hit, error)
}

// Redactor must be implemented by detectors wired with PolicyRedact. Redact
// must be idempotent.
type Redactor interface {
	Redact(text string) string
}

// Needs declares which companion field of the content a stage depends on.
// Stages whose dependency is absent report skipped instead of running.
type Needs string

const (
	NeedsNone    Needs = ""
	NeedsContext Needs = "context"
	NeedsQuery   Needs = "query"
)

// StageRunner is the executable unit the pipeline sequences. Both Stage and
// DegradableStage satisfy it.
type StageRunner interface {
	Name() string
	Run(ctx context.Context, content models.Content) models.Verdict
}

// Stage wraps one detector with its action policy. Constructed once at
// pipeline build time, immutable afterwards, safe for concurrent reuse.
type Stage struct {
	name     string
	kind     models.StageKind
	policy   models.StagePolicy
	needs    Needs
	detector Detector
	redactor Redactor
	logger   *zerolog.Logger
}

type StageOption func(*Stage)

// WithNeeds gates the stage on a companion content field.
func WithNeeds(needs Needs) StageOption {
	return func(s *Stage) {
		s.needs = needs
	}
}

func NewStage(detector Detector, kind models.StageKind, policy models.StagePolicy, logger *zerolog.Logger, opts ...StageOption) (*Stage, error) {
	if detector == nil {
		return nil, fmt.Errorf("stage requires a detector")
	}

	switch kind {
	case models.KindRequired, models.KindOptional:
	default:
		return nil, fmt.Errorf("stage %s: unknown kind %q", detector.Name(), kind)
	}

	s := &Stage{
		name:     detector.Name(),
		kind:     kind,
		policy:   policy,
		detector: detector,
		logger:   logger,
	}

	switch policy {
	case models.PolicyBlock, models.PolicyWarn:
	case models.PolicyRedact:
		redactor, ok := detector.(Redactor)
		if !ok {
			return nil, fmt.Errorf("stage %s: policy %q requires a redacting detector", s.name, policy)
		}
		s.redactor = redactor
	default:
		return nil, fmt.Errorf("stage %s: unknown policy %q", s.name, policy)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Stage) Name() string {
	return s.name
}

func (s *Stage) Kind() models.StageKind {
	return s.kind
}

func (s *Stage) Policy() models.StagePolicy {
	return s.policy
}

// Run executes the detector once and maps the result through the stage's
// action policy. Detector faults never escape: required stages fail closed,
// optional stages fail open.
func (s *Stage) Run(ctx context.Context, content models.Content) (verdict models.Verdict) {
	now := time.Now()
	defer func() {
		if r := recover(); r != nil {
			verdict = s.fault(content, fmt.Errorf("detector panic: %v", r))
			verdict.Duration = time.Since(now)
		}
	}()

	switch {
	case s.needs == NeedsContext && content.Context == "":
		return s.timed(models.Skipped(s.name, content.Text, "no context supplied"), now)
	case s.needs == NeedsQuery && content.Query == "":
		return s.timed(models.Skipped(s.name, content.Text, "no query supplied"), now)
	}

	hit, err := s.detector.Detect(ctx, content)
	if err != nil {
		return s.timed(s.fault(content, err), now)
	}
	if hit == nil {
		return s.timed(models.Pass(s.name, content.Text), now)
	}

	switch s.policy {
	case models.PolicyBlock:
		return s.timed(models.Blocked(s.name, hit.Reason), now)
	case models.PolicyRedact:
		redacted := s.redactor.Redact(content.Text)
		return s.timed(models.Redacted(s.name, redacted, hit.Reason), now)
	default: // PolicyWarn
		v := models.Pass(s.name, content.Text)
		v.Warning = hit.Reason
		return s.timed(v, now)
	}
}

func (s *Stage) timed(v models.Verdict, start time.Time) models.Verdict {
	v.Duration = time.Since(start)
	return v
}

func (s *Stage) fault(content models.Content, err error) models.Verdict {
	s.logger.Error().
		Err(err).
		Str("stage", s.name).
		Str("kind", string(s.kind)).
		Msg("detector fault")

	if s.kind == models.KindRequired {
		return models.Blocked(s.name, fmt.Sprintf("stage %s failed", s.name))
	}
	return models.Skipped(s.name, content.Text, fmt.Sprintf("stage %s failed, skipped", s.name))
}
