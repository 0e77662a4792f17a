package detector

import (
	"context"
	"fmt"
	"regexp"

	"github.com/supersafe-ai/guard-agent/internal/models"
)

// defaultToxicPatterns is a basic keyword list. In production you would back
// this with a model-based classifier behind the same interface.
var defaultToxicPatterns = []string{
	`\b(?:fuck|shit|bitch|cunt)\b`,
	`\b(?:kill|murder|rape|terrorist)\b`,
	`\b(?:racist|bigot)\b`,
}

// Toxicity detects toxic or hateful language by keyword matching. It also
// implements Redact by masking every match.
type Toxicity struct {
	patterns []*regexp.Regexp
}

func NewToxicity(customPatterns ...string) (*Toxicity, error) {
	all := append(append([]string{}, defaultToxicPatterns...), customPatterns...)

	compiled := make([]*regexp.Regexp, 0, len(all))
	for _, p := range all {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("invalid toxicity pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	return &Toxicity{patterns: compiled}, nil
}

func (d *Toxicity) Name() string {
	return "toxicity"
}

func (d *Toxicity) Detect(ctx context.Context, content models.Content) (*models.Hit, error) {
	var hits []string
	for _, re := range d.patterns {
		if re.MatchString(content.Text) {
			hits = append(hits, re.String())
		}
	}
	if len(hits) > 0 {
		return &models.Hit{Reason: "toxic content detected", Patterns: hits}, nil
	}
	return nil, nil
}

func (d *Toxicity) Redact(text string) string {
	sanitized := text
	for _, re := range d.patterns {
		sanitized = re.ReplaceAllString(sanitized, "***")
	}
	return sanitized
}
