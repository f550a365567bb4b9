package implementation

import (
	"context"
	"errors"
	"time"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/mapper"
	"knowledge-rag-be/internal/model"
	"knowledge-rag-be/internal/repository/contract"
	"knowledge-rag-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeItemMapper
}

func NewKnowledgeItemRepository(db *gorm.DB) contract.KnowledgeItemRepository {
	return &KnowledgeItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeItemMapper(),
	}
}

func (r *KnowledgeItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KnowledgeItemRepositoryImpl) Create(ctx context.Context, item *entity.KnowledgeItem) error {
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

// Columns a client edit may write. Status, processing and vector columns are
// owned by the embedding job and change through UpdateStatus/UpdateEmbedding.
var knowledgeItemEditableColumns = []string{
	"collection_id", "title", "type", "source_url", "file_name", "file_size", "mime_type",
	"content", "summary", "metadata", "tags", "is_favorite", "is_archived", "updated_at",
}

func (r *KnowledgeItemRepositoryImpl) Update(ctx context.Context, item *entity.KnowledgeItem) error {
	m := r.mapper.ToModel(item)
	return r.db.WithContext(ctx).
		Model(m).
		Where("workspace_id = ?", item.WorkspaceId).
		Select(knowledgeItemEditableColumns).
		Updates(m).Error
}

func (r *KnowledgeItemRepositoryImpl) Delete(ctx context.Context, workspaceId uuid.UUID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceId).
		Delete(&model.KnowledgeItem{}, id).Error
}

func (r *KnowledgeItemRepositoryImpl) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32, embeddingModel string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.KnowledgeItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"embeddings":       pgvector.NewVector(embedding),
			"embeddings_model": embeddingModel,
			"updated_at":       now,
		}).Error
}

func (r *KnowledgeItemRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string, processingError string, processedAt *time.Time) error {
	var errValue interface{}
	if processingError != "" {
		errValue = processingError
	}
	return r.db.WithContext(ctx).
		Model(&model.KnowledgeItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"processing_error": errValue,
			"processed_at":     processedAt,
			"updated_at":       time.Now(),
		}).Error
}

func (r *KnowledgeItemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeItem, error) {
	var m model.KnowledgeItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *KnowledgeItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeItem, error) {
	var models []*model.KnowledgeItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *KnowledgeItemRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.KnowledgeItem{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *KnowledgeItemRepositoryImpl) DistinctValues(ctx context.Context, column string, specs ...specification.Specification) ([]string, error) {
	var values []string
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.KnowledgeItem{}), specs...)
	if err := query.Distinct(column).Pluck(column, &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}
