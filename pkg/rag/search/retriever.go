package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"knowledge-rag-be/internal/constant"
	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/pkg/logger"
	"knowledge-rag-be/pkg/embedding"
	"knowledge-rag-be/pkg/rag/similarity"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("knowledge-rag-be/pkg/rag/search")

type Config struct {
	Strategy Strategy
	// EnforceEmbeddingModel restricts candidates to vectors made by the
	// provider's current model. Off by default: mixed-model corpora are then
	// scored as is.
	EnforceEmbeddingModel bool
}

func DefaultConfig() Config {
	return Config{Strategy: StrategyOverfetch}
}

// Retriever runs semantic search over a workspace's knowledge items.
type Retriever struct {
	provider embedding.Provider
	store    DocumentStore
	config   Config
	logger   logger.ILogger
}

func NewRetriever(provider embedding.Provider, store DocumentStore, config Config, log logger.ILogger) *Retriever {
	if config.Strategy == "" {
		config.Strategy = StrategyOverfetch
	}
	return &Retriever{
		provider: provider,
		store:    store,
		config:   config,
		logger:   log,
	}
}

// SearchDocuments embeds the query, scores candidates by cosine similarity and
// returns those at or above the threshold, best first, at most Limit of them.
func (r *Retriever) SearchDocuments(ctx context.Context, params SearchParams) ([]SearchResult, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, constant.ErrEmptyQuery
	}
	if params.WorkspaceId == uuid.Nil {
		return nil, constant.ErrWorkspaceRequired
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	threshold := DefaultThreshold
	if params.Threshold != nil {
		threshold = *params.Threshold
	}

	ctx, span := tracer.Start(ctx, "search.SearchDocuments")
	defer span.End()
	span.SetAttributes(
		attribute.String("workspace.id", params.WorkspaceId.String()),
		attribute.String("rag.strategy", string(r.config.Strategy)),
		attribute.Int("rag.limit", limit),
	)

	queryVector, err := embedding.EmbedQuery(ctx, r.provider, params.Query)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	q := r.candidateQuery(params.WorkspaceId, limit, queryVector)
	q.Filters = params.Filters

	candidates, err := r.store.Candidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("candidate fetch failed: %w", err)
	}

	results := make([]SearchResult, 0, len(candidates))
	for _, item := range candidates {
		if item == nil || item.WorkspaceId != params.WorkspaceId {
			continue
		}
		score := similarity.Cosine(queryVector, item.Embedding)
		snippet := ExtractSnippet(item.Content, params.Query)
		if score < threshold {
			continue
		}
		results = append(results, SearchResult{
			Item:           item,
			RelevanceScore: score,
			Snippet:        snippet,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > limit {
		results = results[:limit]
	}

	span.SetAttributes(attribute.Int("rag.results", len(results)))
	r.logger.Debug("SEARCH", "Documents retrieved", map[string]interface{}{
		"workspace_id": params.WorkspaceId.String(),
		"strategy":     string(r.config.Strategy),
		"candidates":   len(candidates),
		"results":      len(results),
		"threshold":    threshold,
	})

	return results, nil
}

// FindSimilarDocuments returns ready items of the workspace whose vectors score
// above SimilarMinScore against the given item, best first. An unknown item or
// one without a vector yields an empty list.
func (r *Retriever) FindSimilarDocuments(ctx context.Context, documentId, workspaceId uuid.UUID, limit int) ([]*entity.KnowledgeItem, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	source, err := r.store.Get(ctx, workspaceId, documentId)
	if err != nil {
		return nil, err
	}
	if source == nil || source.WorkspaceId != workspaceId || !source.HasEmbedding() {
		return []*entity.KnowledgeItem{}, nil
	}

	q := r.similarQuery(workspaceId, limit, source)
	candidates, err := r.store.Candidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("candidate fetch failed: %w", err)
	}

	type scored struct {
		item  *entity.KnowledgeItem
		score float64
	}
	matches := make([]scored, 0, len(candidates))
	for _, item := range candidates {
		if item == nil || item.Id == source.Id || item.WorkspaceId != workspaceId {
			continue
		}
		score := similarity.Cosine(source.Embedding, item.Embedding)
		if score > SimilarMinScore {
			matches = append(matches, scored{item: item, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	items := make([]*entity.KnowledgeItem, len(matches))
	for i, m := range matches {
		items[i] = m.item
	}
	return items, nil
}

func (r *Retriever) candidateQuery(workspaceId uuid.UUID, limit int, queryVector []float32) CandidateQuery {
	q := CandidateQuery{WorkspaceId: workspaceId}
	switch r.config.Strategy {
	case StrategyFull:
	case StrategyPgvector:
		q.Limit = limit * 2
		q.Near = queryVector
	default:
		q.Limit = limit * 2
	}
	if r.config.EnforceEmbeddingModel {
		q.EmbeddingsModel = r.provider.Model()
	}
	return q
}

func (r *Retriever) similarQuery(workspaceId uuid.UUID, limit int, source *entity.KnowledgeItem) CandidateQuery {
	id := source.Id
	q := CandidateQuery{WorkspaceId: workspaceId, ExcludeId: &id}
	switch r.config.Strategy {
	case StrategyFull:
	case StrategyPgvector:
		q.Limit = limit * 3
		q.Near = source.Embedding
	default:
		q.Limit = limit * 3
	}
	if r.config.EnforceEmbeddingModel && source.EmbeddingsModel != "" {
		q.EmbeddingsModel = source.EmbeddingsModel
	}
	return q
}
