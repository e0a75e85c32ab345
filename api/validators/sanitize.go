package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the value at maxLen
// bytes. Chat messages and form fields pass through here before they reach
// the agent. A maxLen of zero means no cap.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || len(trimmed) <= maxLen {
		return trimmed
	}
	return trimmed[:maxLen]
}
