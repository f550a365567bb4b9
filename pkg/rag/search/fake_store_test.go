package search

import (
	"context"
	"errors"
	"sort"

	"knowledge-rag-be/internal/constant"
	"knowledge-rag-be/internal/entity"

	"github.com/google/uuid"
)

type fakeProvider struct {
	vectors map[string][]float32
	err     error
	model   string
}

func (p *fakeProvider) Model() string {
	if p.model == "" {
		return "test-model"
	}
	return p.model
}

func (p *fakeProvider) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if p.err != nil {
		return nil, p.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = p.vectors[t]
	}
	return out, nil
}

// fakeStore mimics the repository: workspace, ready and filter conditions,
// newest first, then the limit. leak adds rows that ignore the workspace
// condition so isolation in the retriever itself can be checked.
type fakeStore struct {
	items   []*entity.KnowledgeItem
	leak    []*entity.KnowledgeItem
	queries []CandidateQuery
	err     error
}

func (s *fakeStore) Candidates(_ context.Context, q CandidateQuery) ([]*entity.KnowledgeItem, error) {
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}

	var out []*entity.KnowledgeItem
	for _, it := range s.items {
		if it.WorkspaceId != q.WorkspaceId || it.Status != constant.KnowledgeStatusReady {
			continue
		}
		if q.ExcludeId != nil && it.Id == *q.ExcludeId {
			continue
		}
		if q.EmbeddingsModel != "" && it.EmbeddingsModel != q.EmbeddingsModel {
			continue
		}
		if len(q.Filters.Types) > 0 && !contains(q.Filters.Types, it.Type) {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return append(out, s.leak...), nil
}

func (s *fakeStore) Get(_ context.Context, workspaceId, id uuid.UUID) (*entity.KnowledgeItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, it := range s.items {
		if it.Id == id && it.WorkspaceId == workspaceId {
			return it, nil
		}
	}
	return nil, nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

var errStore = errors.New("database unavailable")
