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

type AiConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewAiConversationRepository(db *gorm.DB) contract.AiConversationRepository {
	return &AiConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *AiConversationRepositoryImpl) Create(ctx context.Context, conversation *entity.AiConversation) error {
	m := r.mapper.ConversationToModel(conversation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*conversation = *r.mapper.ConversationToEntity(m)
	return nil
}

func (r *AiConversationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AiConversation, error) {
	var m model.AiConversation
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
	return r.mapper.ConversationToEntity(&m), nil
}

type AiMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewAiMessageRepository(db *gorm.DB) contract.AiMessageRepository {
	return &AiMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *AiMessageRepositoryImpl) Create(ctx context.Context, message *entity.AiMessage) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *AiMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AiMessage, error) {
	var models []*model.AiMessage
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AiMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MessageToEntity(m)
	}
	return entities, nil
}
