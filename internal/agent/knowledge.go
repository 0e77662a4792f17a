package agent

import (
	"sort"
	"strings"
)

// KnowledgeBase is a keyword-matched document store standing in for a real
// retrieval backend. Keys are matched as substrings of the lowercased query.
type KnowledgeBase map[string]string

// DefaultKnowledgeBase covers the built-in customer support topics.
func DefaultKnowledgeBase() KnowledgeBase {
	return KnowledgeBase{
		"refund policy": "Refunds are processed within 14 days of purchase. No refunds for digital goods after download.",
		"shipping":      "Standard shipping takes 3-5 business days. Express shipping is 1-2 days.",
		"contact":       "Support email is support@supersafe.ai. Phone support is available 9-5 EST.",
		"pricing":       "Basic plan is $10/mo. Pro plan is $29/mo. Enterprise is custom pricing.",
	}
}

// Retrieve returns the concatenated documents whose key appears in the
// query, or "" when nothing matches. Results are ordered by key so retrieval
// is deterministic.
func (kb KnowledgeBase) Retrieve(query string) string {
	lowered := strings.ToLower(query)

	keys := make([]string, 0, len(kb))
	for key := range kb {
		if strings.Contains(lowered, key) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	docs := make([]string, 0, len(keys))
	for _, key := range keys {
		docs = append(docs, kb[key])
	}
	return strings.Join(docs, "\n")
}
