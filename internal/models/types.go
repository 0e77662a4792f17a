package models

import (
	"time"
)

// Outcome is the result class of a single stage execution.
type Outcome string

const (
	OutcomePass     Outcome = "pass"
	OutcomeRedacted Outcome = "redacted"
	OutcomeBlocked  Outcome = "blocked"
	OutcomeSkipped  Outcome = "skipped"
)

// StageKind controls how a stage fault is handled: required stages fail
// closed, optional stages fail open.
type StageKind string

const (
	KindRequired StageKind = "required"
	KindOptional StageKind = "optional"
)

// StagePolicy is the action a stage takes when its detector reports a hit.
type StagePolicy string

const (
	PolicyBlock  StagePolicy = "block"
	PolicyRedact StagePolicy = "redact"
	PolicyWarn   StagePolicy = "warn"
)

type EventType string

const (
	EventTypeUserInput   EventType = "user_input"
	EventTypeModelOutput EventType = "model_output"
)

// Hit is a detector's signal that its check condition was triggered.
type Hit struct {
	Reason   string   `json:"reason"`
	Patterns []string `json:"patterns,omitempty"`
}

// Content is the working payload threaded through one pipeline call. Text is
// the value stages may rewrite; Context and Query are read-only companions
// used by the output-side checks.
type Content struct {
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
	Query   string `json:"query,omitempty"`
}

// Verdict is the immutable outcome of one stage execution. Blocked verdicts
// carry no text; passing and skipped verdicts carry the input unchanged.
type Verdict struct {
	Stage    string        `json:"stage"`
	Outcome  Outcome       `json:"outcome"`
	Text     string        `json:"text,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Warning  string        `json:"warning,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

func Pass(stage, text string) Verdict {
	return Verdict{Stage: stage, Outcome: OutcomePass, Text: text}
}

func Redacted(stage, text, reason string) Verdict {
	return Verdict{Stage: stage, Outcome: OutcomeRedacted, Text: text, Reason: reason}
}

func Blocked(stage, reason string) Verdict {
	return Verdict{Stage: stage, Outcome: OutcomeBlocked, Reason: reason}
}

func Skipped(stage, text, reason string) Verdict {
	return Verdict{Stage: stage, Outcome: OutcomeSkipped, Text: text, Reason: reason}
}

// PipelineResult is returned per ValidateInput/ValidateOutput call. StageTrace
// holds one verdict per executed stage, in execution order.
type PipelineResult struct {
	Text       string    `json:"text,omitempty"`
	Blocked    bool      `json:"blocked"`
	Reason     string    `json:"reason,omitempty"`
	StageTrace []Verdict `json:"stage_trace"`
}

type Agent struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Version string `json:"version"`
}

// Input message

type GuardRequest struct {
	EventID   string    `json:"event_id"`
	EventType EventType `json:"event_type"`
	Agent     Agent     `json:"agent"`
	Content   Content   `json:"content"`
}

// Final result emitted to callers
type GuardResult struct {
	ID         string    `json:"id"`
	Direction  EventType `json:"direction"`
	Text       string    `json:"text,omitempty"`
	Blocked    bool      `json:"blocked"`
	Reason     string    `json:"reason,omitempty"`
	StageTrace []Verdict `json:"stage_trace"`
	CreatedAt  time.Time `json:"created_at"`
}
