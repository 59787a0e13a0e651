package retrieval

import "strings"

// DefaultContextWindow is the number of prior turns prefixed to a query
// before embedding.
const DefaultContextWindow = 3

// Turn is one prior exchange in a conversation. Only Text participates in
// context composition; Answer is carried for completeness.
type Turn struct {
	Text   string
	Answer string
}

// ComposeContext merges the last window turns with the new query into the
// composite string that gets embedded. A bare follow-up query ("what about
// the second one?") carries too little lexical signal on its own; prefixing
// recent turn text biases retrieval toward dialogue continuity.
//
// Turns are joined chronologically with single spaces and the query is
// appended last. With no prior turns the query is returned unchanged.
func ComposeContext(query string, turns []Turn, window int) string {
	if window <= 0 {
		window = DefaultContextWindow
	}
	if window > len(turns) {
		window = len(turns)
	}

	recent := turns[len(turns)-window:]
	parts := make([]string, 0, len(recent)+1)
	for _, t := range recent {
		parts = append(parts, t.Text)
	}
	parts = append(parts, query)

	return strings.Join(parts, " ")
}
