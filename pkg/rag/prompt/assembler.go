package prompt

import (
	"context"

	"knowledge-rag-be/pkg/rag/search"

	"github.com/google/uuid"
)

const (
	ContextSearchLimit     = 5
	ContextSearchThreshold = 0.6
	ContextTurns           = 5
)

type Searcher interface {
	SearchDocuments(ctx context.Context, params search.SearchParams) ([]search.SearchResult, error)
}

// TurnLoader returns up to n turns of a conversation, newest first. A
// conversation outside the workspace yields no turns and no error.
type TurnLoader interface {
	LoadRecentTurns(ctx context.Context, workspaceId, conversationId uuid.UUID, n int) ([]Turn, error)
}

type RAGContext struct {
	Sources []search.SearchResult
	Summary string
}

// Assembler gathers sources and conversation turns for one generation call.
type Assembler struct {
	searcher Searcher
	turns    TurnLoader
}

func NewAssembler(searcher Searcher, turns TurnLoader) *Assembler {
	return &Assembler{searcher: searcher, turns: turns}
}

func (a *Assembler) GetRAGContext(ctx context.Context, query string, workspaceId uuid.UUID, conversationId *uuid.UUID) (*RAGContext, error) {
	threshold := ContextSearchThreshold
	results, err := a.searcher.SearchDocuments(ctx, search.SearchParams{
		Query:       query,
		WorkspaceId: workspaceId,
		Limit:       ContextSearchLimit,
		Threshold:   &threshold,
	})
	if err != nil {
		return nil, err
	}

	conversationContext := ""
	if conversationId != nil && a.turns != nil {
		turns, err := a.turns.LoadRecentTurns(ctx, workspaceId, *conversationId, ContextTurns)
		if err != nil {
			return nil, err
		}
		conversationContext = FormatConversation(turns)
	}

	return &RAGContext{
		Sources: results,
		Summary: BuildContextSummary(results, conversationContext),
	}, nil
}
