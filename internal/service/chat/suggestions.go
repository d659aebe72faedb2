package chat

import (
	"regexp"
	"strings"
)

// MaxSuggestions caps the follow-up questions returned per turn.
const MaxSuggestions = 3

// ordinalLine matches "1. question text" after trimming. The model is asked
// for a numbered list but is not guaranteed to produce one.
var ordinalLine = regexp.MustCompile(`^\d+\.\s+(.+)$`)

// ParseSuggestions extracts up to MaxSuggestions questions from free-form
// model output. Only numbered lines are kept, ordinals stripped, original
// order preserved; prose, headers and blank lines are discarded. No numbered
// lines is a valid empty result, not an error.
func ParseSuggestions(raw string) []string {
	suggestions := make([]string, 0, MaxSuggestions)
	for _, line := range strings.Split(raw, "\n") {
		m := ordinalLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		item := strings.TrimSpace(m[1])
		if item == "" {
			continue
		}
		suggestions = append(suggestions, item)
		if len(suggestions) == MaxSuggestions {
			break
		}
	}
	return suggestions
}
