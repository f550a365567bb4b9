package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeItem is one ingested unit of workspace content. Embedding is nil
// until the embedding job has produced a vector with EmbeddingsModel.
type KnowledgeItem struct {
	Id              uuid.UUID
	WorkspaceId     uuid.UUID
	CollectionId    *uuid.UUID
	CreatedBy       uuid.UUID
	Title           string
	Type            string
	Status          string
	SourceUrl       string
	FileName        string
	FileSize        int64
	MimeType        string
	Content         string
	Summary         string
	Metadata        map[string]interface{}
	Tags            []string
	Embedding       []float32
	EmbeddingsModel string
	IsFavorite      bool
	IsArchived      bool
	ProcessingError string
	ProcessedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

func (k *KnowledgeItem) HasEmbedding() bool {
	return len(k.Embedding) > 0
}
