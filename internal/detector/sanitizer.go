package detector

import (
	"context"
	"regexp"
	"strings"

	"github.com/supersafe-ai/guard-agent/internal/models"
)

var (
	scriptBlockRe  = regexp.MustCompile(`(?is)<script.*?</script>`)
	eventHandlerRe = regexp.MustCompile(`(?i)on\w+\s*=\s*["'].*?["']`)
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
)

// Sanitizer strips markup that has no business in a chat prompt: script
// blocks, inline event handlers, remaining HTML tags, and runs of whitespace.
type Sanitizer struct{}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

func (d *Sanitizer) Name() string {
	return "input-sanitizer"
}

func (d *Sanitizer) Detect(ctx context.Context, content models.Content) (*models.Hit, error) {
	if sanitize(content.Text) != content.Text {
		return &models.Hit{Reason: "input required sanitization"}, nil
	}
	return nil, nil
}

func (d *Sanitizer) Redact(text string) string {
	return sanitize(text)
}

// sanitize is idempotent: a sanitized string contains none of the stripped
// constructs and already-normalized whitespace.
func sanitize(text string) string {
	sanitized := scriptBlockRe.ReplaceAllString(text, "")
	sanitized = eventHandlerRe.ReplaceAllString(sanitized, "")
	sanitized = htmlTagRe.ReplaceAllString(sanitized, "")
	sanitized = strings.Join(strings.Fields(sanitized), " ")
	return strings.TrimSpace(sanitized)
}
