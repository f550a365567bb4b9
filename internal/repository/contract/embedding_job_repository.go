package contract

import (
	"context"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/repository/specification"
)

type EmbeddingJobRepository interface {
	Create(ctx context.Context, job *entity.EmbeddingJob) error
	Update(ctx context.Context, job *entity.EmbeddingJob) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EmbeddingJob, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmbeddingJob, error)
}
