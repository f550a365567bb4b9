package implementation

import (
	"context"
	"errors"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/mapper"
	"knowledge-rag-be/internal/model"
	"knowledge-rag-be/internal/repository/contract"
	"knowledge-rag-be/internal/repository/specification"

	"gorm.io/gorm"
)

type EmbeddingJobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmbeddingJobMapper
}

func NewEmbeddingJobRepository(db *gorm.DB) contract.EmbeddingJobRepository {
	return &EmbeddingJobRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmbeddingJobMapper(),
	}
}

func (r *EmbeddingJobRepositoryImpl) Create(ctx context.Context, job *entity.EmbeddingJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *EmbeddingJobRepositoryImpl) Update(ctx context.Context, job *entity.EmbeddingJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *EmbeddingJobRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EmbeddingJob, error) {
	var m model.EmbeddingJob
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EmbeddingJobRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmbeddingJob, error) {
	var models []*model.EmbeddingJob
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	jobs := make([]*entity.EmbeddingJob, 0, len(models))
	for _, m := range models {
		jobs = append(jobs, r.mapper.ToEntity(m))
	}
	return jobs, nil
}
