package entity

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeCollection struct {
	Id          uuid.UUID
	WorkspaceId uuid.UUID
	Name        string
	Description string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type KnowledgeCollectionCount struct {
	Id        uuid.UUID
	Name      string
	ItemCount int64
}
