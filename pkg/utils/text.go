package utils

import "strings"

// TruncateRunes cuts s to at most max characters without splitting a rune.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// PrepareEmbeddingText joins title and content the way items are embedded at
// ingestion and caps the result at max characters.
func PrepareEmbeddingText(title, content string, max int) string {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	var text string
	switch {
	case title == "":
		text = content
	case content == "":
		text = title
	default:
		text = title + "\n\n" + content
	}
	return TruncateRunes(text, max)
}
