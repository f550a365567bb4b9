package contract

import (
	"context"
	"time"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/repository/specification"

	"github.com/google/uuid"
)

type KnowledgeItemRepository interface {
	Create(ctx context.Context, item *entity.KnowledgeItem) error
	// Update writes the client-editable columns; status and vectors are left alone.
	Update(ctx context.Context, item *entity.KnowledgeItem) error
	// Delete removes the row; knowledge items have no soft delete.
	Delete(ctx context.Context, workspaceId uuid.UUID, id uuid.UUID) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32, model string) error
	// UpdateStatus writes only the ingestion columns so concurrent edits survive.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, processingError string, processedAt *time.Time) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeItem, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeItem, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DistinctValues(ctx context.Context, column string, specs ...specification.Specification) ([]string, error)
}
