package prompt

import (
	"fmt"
	"math"
	"strings"

	"knowledge-rag-be/pkg/rag/search"
)

// Turn is one prior conversation message.
type Turn struct {
	Role    string
	Content string
}

// FormatConversation renders turns, given newest first, as "role: content"
// lines in chronological order.
func FormatConversation(turns []Turn) string {
	lines := make([]string, 0, len(turns))
	for i := len(turns) - 1; i >= 0; i-- {
		lines = append(lines, fmt.Sprintf("%s: %s", turns[i].Role, turns[i].Content))
	}
	return strings.Join(lines, "\n")
}

// BuildContextSummary renders retrieved sources for a generation prompt. With
// no results it returns "" even when conversation context is present.
func BuildContextSummary(results []search.SearchResult, conversationContext string) string {
	if len(results) == 0 {
		return ""
	}

	sources := make([]string, len(results))
	for i, r := range results {
		sources[i] = fmt.Sprintf("Source %d (%s, relevance: %d%%): %s",
			i+1, r.Item.Title, relevancePercent(r.RelevanceScore), r.Snippet)
	}

	summary := fmt.Sprintf("Based on %d relevant documents:\n\n%s", len(results), strings.Join(sources, "\n\n"))

	if conversationContext != "" {
		summary = fmt.Sprintf("Previous conversation context:\n%s\n\n%s", conversationContext, summary)
	}
	return summary
}

// relevancePercent rounds halves toward positive infinity.
func relevancePercent(score float64) int {
	return int(math.Floor(score*100 + 0.5))
}
