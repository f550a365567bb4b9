package contract

import (
	"context"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/repository/specification"

	"github.com/google/uuid"
)

type KnowledgeCollectionRepository interface {
	Create(ctx context.Context, collection *entity.KnowledgeCollection) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeCollection, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeCollection, error)
	CountItems(ctx context.Context, workspaceId uuid.UUID) ([]*entity.KnowledgeCollectionCount, error)
}
