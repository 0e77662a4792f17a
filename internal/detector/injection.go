package detector

import (
	"context"
	"fmt"
	"regexp"

	"github.com/supersafe-ai/guard-agent/internal/models"
)

// defaultInjectionPatterns are common directive-override attempts. Heuristic
// only; an injected instruction is rejected, never rewritten.
var defaultInjectionPatterns = []string{
	`ignore\s+(all\s+)?previous\s+instructions`,
	`pretend\s+you\s+are`,
	`disregard\s+(any\s+)?rules`,
	`act\s+as\s+if\s+you\s+are`,
	`you\s+are\s+now\s+in\s+developer\s+mode`,
	`system\s*prompt\s*:`,
}

// Injection detects prompt injection attempts with regex heuristics.
type Injection struct {
	patterns []*regexp.Regexp
}

func NewInjection(customPatterns ...string) (*Injection, error) {
	all := append(append([]string{}, defaultInjectionPatterns...), customPatterns...)

	compiled := make([]*regexp.Regexp, 0, len(all))
	for _, p := range all {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("invalid injection pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	return &Injection{patterns: compiled}, nil
}

func (d *Injection) Name() string {
	return "prompt-injection"
}

func (d *Injection) Detect(ctx context.Context, content models.Content) (*models.Hit, error) {
	for _, re := range d.patterns {
		if re.MatchString(content.Text) {
			return &models.Hit{
				Reason:   "potential prompt injection detected",
				Patterns: []string{re.String()},
			}, nil
		}
	}
	return nil, nil
}
