package validators

import "strings"

// SanitizeString trims surrounding whitespace, collapses internal runs of
// whitespace to a single space, and truncates to maxLen runes. maxLen <= 0
// means no length cap. Titles and search queries arrive from mobile keyboards
// with stray newlines and double spaces, so this runs before any free-text
// field reaches a service.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Join(strings.Fields(input), " ")
	if maxLen <= 0 {
		return cleaned
	}
	runes := []rune(cleaned)
	if len(runes) <= maxLen {
		return cleaned
	}
	return strings.TrimSpace(string(runes[:maxLen]))
}
