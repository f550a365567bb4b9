package contract

import (
	"context"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/repository/specification"
)

type AiConversationRepository interface {
	Create(ctx context.Context, conversation *entity.AiConversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AiConversation, error)
}

type AiMessageRepository interface {
	Create(ctx context.Context, message *entity.AiMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AiMessage, error)
}
