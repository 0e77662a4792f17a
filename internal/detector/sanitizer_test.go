package detector

import (
	"context"
	"testing"

	"github.com/supersafe-ai/guard-agent/internal/models"
)

func TestSanitizer_Redact(t *testing.T) {
	det := NewSanitizer()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"script block removed",
			`hello <script>alert("xss")</script> world`,
			"hello world",
		},
		{
			"script block across lines",
			"before <script>\nalert(1)\n</script> after",
			"before after",
		},
		{
			"event handler removed",
			`click onclick="steal()" here`,
			"click here",
		},
		{
			"html tags stripped",
			"<b>bold</b> and <i>italic</i>",
			"bold and italic",
		},
		{
			"whitespace normalized",
			"  too   many \t spaces \n here  ",
			"too many spaces here",
		},
		{
			"already clean",
			"nothing to do",
			"nothing to do",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := det.Redact(tt.text)
			if got != tt.want {
				t.Errorf("Redact = %q, want %q", got, tt.want)
			}

			// sanitizing twice gives the same result
			if again := det.Redact(got); again != got {
				t.Errorf("second pass changed text: %q", again)
			}
		})
	}
}

func TestSanitizer_Detect(t *testing.T) {
	det := NewSanitizer()

	hit, err := det.Detect(context.Background(), models.Content{Text: "<b>markup</b>"})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if hit == nil {
		t.Error("expected a hit for markup input")
	}

	hit, err = det.Detect(context.Background(), models.Content{Text: "plain text"})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if hit != nil {
		t.Errorf("unexpected hit for clean input: %+v", hit)
	}
}
