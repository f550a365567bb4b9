package search

import (
	"regexp"
	"strings"
)

const (
	snippetMaxLength     = 200
	snippetTruncatedBody = 197
	ellipsis             = "..."
)

var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// ExtractSnippet picks the sentence of content that contains the most query
// words (case-insensitive substring match, first sentence wins ties). When no
// sentence matches it falls back to the head of content. Lengths are in runes.
func ExtractSnippet(content, query string) string {
	words := strings.Fields(strings.ToLower(query))

	best := ""
	bestScore := 0
	for _, sentence := range sentenceBoundary.Split(content, -1) {
		lower := strings.ToLower(sentence)
		score := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = strings.TrimSpace(sentence)
		}
	}

	if best != "" {
		return truncateRunes(best, snippetMaxLength, snippetTruncatedBody)
	}

	runes := []rune(content)
	if len(runes) > snippetMaxLength {
		return string(runes[:snippetMaxLength]) + ellipsis
	}
	return content
}

func truncateRunes(s string, max, keep int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:keep]) + ellipsis
}
