package search

import (
	"context"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/repository/scope"
	"knowledge-rag-be/internal/repository/specification"
	"knowledge-rag-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// GormStore reads candidates through the knowledge item repository.
type GormStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewGormStore(uowFactory unitofwork.RepositoryFactory) *GormStore {
	return &GormStore{uowFactory: uowFactory}
}

func (s *GormStore) Candidates(ctx context.Context, q CandidateQuery) ([]*entity.KnowledgeItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.KnowledgeItemRepository().FindAll(ctx, CandidateSpecifications(q)...)
}

func (s *GormStore) Get(ctx context.Context, workspaceId, id uuid.UUID) (*entity.KnowledgeItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.KnowledgeItemRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
	)
}

// CandidateSpecifications translates q into repository specifications.
func CandidateSpecifications(q CandidateQuery) []specification.Specification {
	specs := []specification.Specification{
		specification.ByWorkspaceID{WorkspaceID: q.WorkspaceId},
		specification.Scoped(scope.Ready),
	}

	if len(q.Filters.CollectionIds) > 0 {
		specs = append(specs, specification.ByCollectionIDs{CollectionIDs: q.Filters.CollectionIds})
	}
	if len(q.Filters.Types) > 0 {
		specs = append(specs, specification.ByTypes{Types: q.Filters.Types})
	}
	if len(q.Filters.Tags) > 0 {
		specs = append(specs, specification.HasAnyTag{Tags: q.Filters.Tags})
	}
	if q.ExcludeId != nil {
		specs = append(specs, specification.ExcludeID{ID: *q.ExcludeId})
	}
	if q.EmbeddingsModel != "" {
		specs = append(specs, specification.ByEmbeddingsModel{Model: q.EmbeddingsModel})
	}

	if len(q.Near) > 0 {
		specs = append(specs, specification.NearestTo{Vector: q.Near})
	} else {
		specs = append(specs, specification.Scoped(scope.OrderByCreatedDesc))
	}

	if q.Limit > 0 {
		specs = append(specs, specification.Limit{N: q.Limit})
	}
	return specs
}
