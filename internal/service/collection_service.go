package service

import (
	"context"
	"strings"
	"time"

	"knowledge-rag-be/internal/dto"
	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/repository/specification"
	"knowledge-rag-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ICollectionService interface {
	List(ctx context.Context, workspaceId uuid.UUID) ([]*dto.CollectionResponse, error)
	Create(ctx context.Context, workspaceId, userId uuid.UUID, req *dto.CreateCollectionRequest) (*dto.CollectionResponse, error)
}

type collectionService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCollectionService(uowFactory unitofwork.RepositoryFactory) ICollectionService {
	return &collectionService{uowFactory: uowFactory}
}

func (s *collectionService) List(ctx context.Context, workspaceId uuid.UUID) ([]*dto.CollectionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	collections, err := uow.KnowledgeCollectionRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}

	counts, err := uow.KnowledgeCollectionRepository().CountItems(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	countById := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		countById[c.Id] = c.ItemCount
	}

	res := make([]*dto.CollectionResponse, 0, len(collections))
	for _, c := range collections {
		res = append(res, toCollectionResponse(c, countById[c.Id]))
	}
	return res, nil
}

func (s *collectionService) Create(ctx context.Context, workspaceId, userId uuid.UUID, req *dto.CreateCollectionRequest) (*dto.CollectionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	collection := &entity.KnowledgeCollection{
		Id:          uuid.New(),
		WorkspaceId: workspaceId,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   userId,
		CreatedAt:   time.Now(),
	}
	if err := uow.KnowledgeCollectionRepository().Create(ctx, collection); err != nil {
		return nil, err
	}
	return toCollectionResponse(collection, 0), nil
}

func toCollectionResponse(c *entity.KnowledgeCollection, itemCount int64) *dto.CollectionResponse {
	return &dto.CollectionResponse{
		Id:          c.Id,
		Name:        c.Name,
		Description: c.Description,
		ItemCount:   itemCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
