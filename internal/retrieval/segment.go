// Package retrieval implements the answer engine: sentence segmentation,
// flat vector indexing, conversational context composition, and answer
// assembly from top-ranked sentences.
package retrieval

import "strings"

// sentenceDelimiter is the sole terminator recognized by Segment. Bare-period
// splitting mis-segments abbreviations ("e.g.") and decimals ("3.14"); it is
// kept as-is because changing segmentation changes stored embeddings and
// therefore retrieval results for already-ingested documents.
const sentenceDelimiter = "."

// Segment splits cleaned document text into its ordered retrieval units.
// Fragments are trimmed and empty fragments are discarded, so the result
// contains only non-empty sentences. All-whitespace input yields nil.
func Segment(text string) []string {
	parts := strings.Split(text, sentenceDelimiter)

	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) == 0 {
		return nil
	}
	return sentences
}

// CleanText normalizes raw extracted text before segmentation.
func CleanText(raw string) string {
	return strings.TrimSpace(raw)
}
