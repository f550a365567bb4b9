package entity

import (
	"time"

	"github.com/google/uuid"
)

type EmbeddingJob struct {
	Id              uuid.UUID
	KnowledgeItemId uuid.UUID
	WorkspaceId     uuid.UUID
	Status          string
	Attempts        int
	MaxAttempts     int
	LastError       string
	StartedAt       *time.Time
	FinishedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

func (j *EmbeddingJob) Exhausted() bool {
	return j.Attempts >= j.MaxAttempts
}
