package detector

import (
	"context"
	"fmt"
	"strings"

	"github.com/supersafe-ai/guard-agent/internal/models"
	"github.com/supersafe-ai/guard-agent/internal/validation"
)

// defaultForbiddenInputPatterns cover common injection carriers that survive
// sanitization, e.g. when they arrive without markup.
var defaultForbiddenInputPatterns = []string{
	`<script`,
	`javascript:`,
	`\beval\s*\(`,
	`\bexec\s*\(`,
}

// InputValidity runs the structural input checks: length bounds, an optional
// allowed-character format, and forbidden patterns. It collects every
// structural defect so the block reason names all of them at once.
type InputValidity struct {
	chain *validation.Chain[string]
}

type InputValidityConfig struct {
	MinLength         int
	MaxLength         int
	AllowedChars      string
	ForbiddenPatterns []string
}

func NewInputValidity(cfg InputValidityConfig) (*InputValidity, error) {
	validators := []validation.Validator[string]{
		validation.NewLengthValidator("length", cfg.MinLength, cfg.MaxLength),
	}

	if cfg.AllowedChars != "" {
		formatValidator, err := validation.NewRegexValidator("format", cfg.AllowedChars, "input contains invalid characters")
		if err != nil {
			return nil, err
		}
		validators = append(validators, formatValidator)
	}

	patterns := append(append([]string{}, defaultForbiddenInputPatterns...), cfg.ForbiddenPatterns...)
	forbidden, err := validation.NewPatternAbsenceValidator("forbidden", patterns)
	if err != nil {
		return nil, err
	}
	validators = append(validators, forbidden)

	return &InputValidity{
		chain: validation.NewChain(validators, validation.CollectAll[string]()),
	}, nil
}

func (d *InputValidity) Name() string {
	return "input-validity"
}

func (d *InputValidity) Detect(ctx context.Context, content models.Content) (*models.Hit, error) {
	var errs []string
	for _, result := range d.chain.Validate(content.Text) {
		if !result.Valid {
			errs = append(errs, fmt.Sprintf("%s: %s", result.Name, result.Error))
		}
	}
	if len(errs) > 0 {
		return &models.Hit{
			Reason:   fmt.Sprintf("invalid input: %s", strings.Join(errs, "; ")),
			Patterns: errs,
		}, nil
	}
	return nil, nil
}
