package model

import (
	"time"

	"github.com/google/uuid"
)

type EmbeddingJob struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	KnowledgeItemId uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkspaceId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Status          string    `gorm:"type:varchar(20);not null;default:pending;index"`
	Attempts        int       `gorm:"not null;default:0"`
	MaxAttempts     int       `gorm:"not null;default:3"`
	LastError       *string   `gorm:"type:text"`
	StartedAt       *time.Time
	FinishedAt      *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (EmbeddingJob) TableName() string {
	return "embedding_jobs"
}
