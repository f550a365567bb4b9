package model

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeCollection struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (KnowledgeCollection) TableName() string {
	return "knowledge_collections"
}

// KnowledgeCollectionCount is a read model for the list endpoint filters.
type KnowledgeCollectionCount struct {
	Id        uuid.UUID
	Name      string
	ItemCount int64
}
