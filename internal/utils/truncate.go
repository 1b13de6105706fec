package utils

// TruncateText cuts text to at most maxLen characters, appending "..."
// only when something was actually cut. Operates on runes so multi-byte
// text is never split mid-character.
func TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
