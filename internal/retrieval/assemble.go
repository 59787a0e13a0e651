package retrieval

import "strings"

// Assemble turns ranked retrieved sentences into a user-facing answer. The
// structuring is purely deterministic string formatting over the provided
// sentences; no model call is involved. Duplicate sentences are preserved
// because they reflect index ranking, not noise.
func Assemble(sentences []string) string {
	trimmed := make([]string, 0, len(sentences))
	for _, s := range sentences {
		trimmed = append(trimmed, strings.TrimSpace(s))
	}

	switch len(trimmed) {
	case 0:
		return ""
	case 1:
		return trimmed[0]
	}

	return strings.Join(trimmed, ". ") + "."
}
