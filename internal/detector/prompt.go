package detector

import (
	"strings"
)

// stripMarkdownCodeBlock removes markdown code block formatting if present.
// Models occasionally wrap JSON replies in ```json fences despite being told
// not to.
func stripMarkdownCodeBlock(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		firstNewline := strings.Index(content, "\n")
		if firstNewline == -1 {
			return content
		}

		closingBackticks := strings.LastIndex(content, "```")
		if closingBackticks == -1 || closingBackticks <= firstNewline {
			return content
		}

		content = content[firstNewline+1 : closingBackticks]
		content = strings.TrimSpace(content)
	}

	return content
}
