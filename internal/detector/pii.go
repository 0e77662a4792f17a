package detector

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/supersafe-ai/guard-agent/internal/models"
)

type piiPattern struct {
	kind    string
	pattern *regexp.Regexp
}

// PII detects personally identifiable information (emails, phone numbers,
// SSNs) and redacts it with typed placeholders. Redaction is idempotent: the
// placeholders themselves never match any pattern.
type PII struct {
	patterns []piiPattern
}

func NewPII() *PII {
	return &PII{
		patterns: []piiPattern{
			{kind: "email", pattern: regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)},
			{kind: "phone", pattern: regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)},
			{kind: "ssn", pattern: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
		},
	}
}

func (d *PII) Name() string {
	return "pii"
}

func (d *PII) Detect(ctx context.Context, content models.Content) (*models.Hit, error) {
	var kinds []string
	for _, p := range d.patterns {
		if p.pattern.MatchString(content.Text) {
			kinds = append(kinds, p.kind)
		}
	}
	if len(kinds) > 0 {
		return &models.Hit{
			Reason:   fmt.Sprintf("detected PII: %s", strings.Join(kinds, ", ")),
			Patterns: kinds,
		}, nil
	}
	return nil, nil
}

func (d *PII) Redact(text string) string {
	redacted := text
	for _, p := range d.patterns {
		redacted = p.pattern.ReplaceAllString(redacted, fmt.Sprintf("<REDACTED_%s>", strings.ToUpper(p.kind)))
	}
	return redacted
}
