package unitofwork

import (
	"context"
	"fmt"

	"knowledge-rag-be/internal/repository/contract"
	"knowledge-rag-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) KnowledgeItemRepository() contract.KnowledgeItemRepository {
	return implementation.NewKnowledgeItemRepository(u.getDB())
}

func (u *UnitOfWorkImpl) KnowledgeCollectionRepository() contract.KnowledgeCollectionRepository {
	return implementation.NewKnowledgeCollectionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) WorkspaceMemberRepository() contract.WorkspaceMemberRepository {
	return implementation.NewWorkspaceMemberRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AiConversationRepository() contract.AiConversationRepository {
	return implementation.NewAiConversationRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AiMessageRepository() contract.AiMessageRepository {
	return implementation.NewAiMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) EmbeddingJobRepository() contract.EmbeddingJobRepository {
	return implementation.NewEmbeddingJobRepository(u.getDB())
}
