package narration

import (
	"regexp"
	"strings"
)

// sentence-terminal punctuation followed by whitespace
var reBoundary = regexp.MustCompile(`[.?!]\s+`)

// SplitSentences splits narration into its ordered, trimmed, non-empty
// sentences. The terminal punctuation stays with the sentence it ends.
func SplitSentences(text string) []string {
	var out []string
	rest := text
	for {
		loc := reBoundary.FindStringIndex(rest)
		if loc == nil {
			break
		}
		// keep the punctuation mark, drop the whitespace run
		if s := strings.TrimSpace(rest[:loc[0]+1]); s != "" {
			out = append(out, s)
		}
		rest = rest[loc[1]:]
	}
	if s := strings.TrimSpace(rest); s != "" {
		out = append(out, s)
	}
	return out
}
