package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supersafe-ai/guard-agent/internal/models"
	"github.com/supersafe-ai/guard-agent/internal/validation"
)

var defaultForbiddenOutputPatterns = []string{
	`\b(?:fuck|shit|bitch|cunt)\b`,
	`\b(?:terrorist|kill|murder)\b`,
}

// OutputValidity runs the structural output checks: length bounds, forbidden
// content, and an optional JSON required-keys schema.
type OutputValidity struct {
	chain        *validation.Chain[string]
	requiredKeys []string
}

type OutputValidityConfig struct {
	MinLength         int
	MaxLength         int
	ForbiddenPatterns []string
	// RequiredJSONKeys, when non-empty, requires the output to be a JSON
	// object carrying each listed key.
	RequiredJSONKeys []string
}

func NewOutputValidity(cfg OutputValidityConfig) (*OutputValidity, error) {
	patterns := append(append([]string{}, defaultForbiddenOutputPatterns...), cfg.ForbiddenPatterns...)
	forbidden, err := validation.NewPatternAbsenceValidator("forbidden", patterns)
	if err != nil {
		return nil, err
	}

	return &OutputValidity{
		chain: validation.NewChain([]validation.Validator[string]{
			validation.NewLengthValidator("length", cfg.MinLength, cfg.MaxLength),
			forbidden,
		}, validation.CollectAll[string]()),
		requiredKeys: cfg.RequiredJSONKeys,
	}, nil
}

func (d *OutputValidity) Name() string {
	return "output-validity"
}

func (d *OutputValidity) Detect(ctx context.Context, content models.Content) (*models.Hit, error) {
	var errs []string
	for _, result := range d.chain.Validate(content.Text) {
		if !result.Valid {
			errs = append(errs, fmt.Sprintf("%s: %s", result.Name, result.Error))
		}
	}

	if err := d.checkSchema(content.Text); err != "" {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return &models.Hit{
			Reason:   fmt.Sprintf("invalid output: %s", strings.Join(errs, "; ")),
			Patterns: errs,
		}, nil
	}
	return nil, nil
}

func (d *OutputValidity) checkSchema(text string) string {
	if len(d.requiredKeys) == 0 {
		return ""
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return fmt.Sprintf("schema: output is not a JSON object: %v", err)
	}

	var missing []string
	for _, key := range d.requiredKeys {
		if _, ok := data[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Sprintf("schema: missing keys: %s", strings.Join(missing, ", "))
	}
	return ""
}
