package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ActiveMember struct{}

func (s ActiveMember) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type ByKnowledgeItemID struct {
	KnowledgeItemID uuid.UUID
}

func (s ByKnowledgeItemID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("knowledge_item_id = ?", s.KnowledgeItemID)
}
