package unitofwork

import (
	"context"

	"knowledge-rag-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	KnowledgeItemRepository() contract.KnowledgeItemRepository
	KnowledgeCollectionRepository() contract.KnowledgeCollectionRepository
	WorkspaceMemberRepository() contract.WorkspaceMemberRepository

	AiConversationRepository() contract.AiConversationRepository
	AiMessageRepository() contract.AiMessageRepository

	EmbeddingJobRepository() contract.EmbeddingJobRepository
}
