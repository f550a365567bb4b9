package implementation

import (
	"context"
	"errors"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/mapper"
	"knowledge-rag-be/internal/model"
	"knowledge-rag-be/internal/repository/contract"
	"knowledge-rag-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KnowledgeCollectionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WorkspaceMapper
}

func NewKnowledgeCollectionRepository(db *gorm.DB) contract.KnowledgeCollectionRepository {
	return &KnowledgeCollectionRepositoryImpl{
		db:     db,
		mapper: mapper.NewWorkspaceMapper(),
	}
}

func (r *KnowledgeCollectionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KnowledgeCollectionRepositoryImpl) Create(ctx context.Context, collection *entity.KnowledgeCollection) error {
	m := r.mapper.CollectionToModel(collection)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*collection = *r.mapper.CollectionToEntity(m)
	return nil
}

func (r *KnowledgeCollectionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeCollection, error) {
	var m model.KnowledgeCollection
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CollectionToEntity(&m), nil
}

func (r *KnowledgeCollectionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeCollection, error) {
	var models []*model.KnowledgeCollection
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.KnowledgeCollection, len(models))
	for i, m := range models {
		entities[i] = r.mapper.CollectionToEntity(m)
	}
	return entities, nil
}

// CountItems returns every collection of the workspace with its non-archived item count.
func (r *KnowledgeCollectionRepositoryImpl) CountItems(ctx context.Context, workspaceId uuid.UUID) ([]*entity.KnowledgeCollectionCount, error) {
	var rows []model.KnowledgeCollectionCount
	err := r.db.WithContext(ctx).
		Table("knowledge_collections").
		Select("knowledge_collections.id, knowledge_collections.name, COUNT(knowledge_items.id) AS item_count").
		Joins("LEFT JOIN knowledge_items ON knowledge_items.collection_id = knowledge_collections.id AND knowledge_items.is_archived = false").
		Where("knowledge_collections.workspace_id = ?", workspaceId).
		Group("knowledge_collections.id, knowledge_collections.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make([]*entity.KnowledgeCollectionCount, len(rows))
	for i, row := range rows {
		counts[i] = &entity.KnowledgeCollectionCount{
			Id:        row.Id,
			Name:      row.Name,
			ItemCount: row.ItemCount,
		}
	}
	return counts, nil
}
