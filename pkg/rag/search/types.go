package search

import (
	"context"
	"fmt"

	"knowledge-rag-be/internal/entity"

	"github.com/google/uuid"
)

const (
	DefaultLimit     = 10
	DefaultThreshold = 0.7

	DefaultSimilarLimit = 5
	SimilarMinScore     = 0.5
)

// Strategy decides which rows are scored for a query.
type Strategy string

const (
	// StrategyOverfetch loads the newest 2*limit eligible rows.
	StrategyOverfetch Strategy = "overfetch"
	// StrategyFull scores every eligible row.
	StrategyFull Strategy = "full"
	// StrategyPgvector loads the 2*limit rows nearest by pgvector cosine distance.
	StrategyPgvector Strategy = "pgvector"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategyOverfetch, nil
	case StrategyOverfetch, StrategyFull, StrategyPgvector:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown candidate strategy %q", s)
}

type Filters struct {
	CollectionIds []uuid.UUID
	Types         []string
	Tags          []string
}

type SearchParams struct {
	Query       string
	WorkspaceId uuid.UUID
	// Limit <= 0 means DefaultLimit.
	Limit int
	// Nil means DefaultThreshold; an explicit 0 is kept.
	Threshold *float64
	Filters   Filters
}

type SearchResult struct {
	Item           *entity.KnowledgeItem
	RelevanceScore float64
	Snippet        string
}

// CandidateQuery describes the rows a DocumentStore returns. Stores always
// restrict to WorkspaceId and ready status.
type CandidateQuery struct {
	WorkspaceId uuid.UUID
	Filters     Filters
	ExcludeId   *uuid.UUID
	// EmbeddingsModel, when set, keeps only vectors produced by that model.
	EmbeddingsModel string
	// Near, when set, orders by vector distance instead of recency.
	Near []float32
	// Limit <= 0 returns every matching row.
	Limit int
}

type DocumentStore interface {
	Candidates(ctx context.Context, q CandidateQuery) ([]*entity.KnowledgeItem, error)
	// Get returns nil, nil when the item does not exist in the workspace.
	Get(ctx context.Context, workspaceId, id uuid.UUID) (*entity.KnowledgeItem, error)
}
