package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeItem struct {
	Id              uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId     uuid.UUID        `gorm:"type:uuid;not null;index:knowledge_item_tenant_idx"`
	CollectionId    *uuid.UUID       `gorm:"type:uuid;index:knowledge_item_collection_idx"`
	CreatedBy       uuid.UUID        `gorm:"type:uuid;not null;index:knowledge_item_created_by_idx"`
	Title           string           `gorm:"type:text;not null"`
	Type            string           `gorm:"type:varchar(20);not null;index:knowledge_item_type_idx"`
	Status          string           `gorm:"type:varchar(20);not null;default:processing;index:knowledge_item_status_idx"`
	SourceUrl       *string          `gorm:"type:text"`
	FileName        *string          `gorm:"type:text"`
	FileSize        *int64           `gorm:"type:bigint"`
	MimeType        *string          `gorm:"type:text"`
	Content         *string          `gorm:"type:text"`
	Summary         *string          `gorm:"type:text"`
	Metadata        datatypes.JSON   `gorm:"type:jsonb;default:'{}'"`
	Tags            datatypes.JSON   `gorm:"type:jsonb;default:'[]'"`
	Embeddings      *pgvector.Vector `gorm:"type:vector"` // dimension follows the configured model
	EmbeddingsModel *string          `gorm:"type:text"`
	IsFavorite      bool             `gorm:"not null;default:false"`
	IsArchived      bool             `gorm:"not null;default:false"`
	ProcessingError *string          `gorm:"type:text"`
	ProcessedAt     *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime;index:knowledge_item_created_at_idx"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (KnowledgeItem) TableName() string {
	return "knowledge_items"
}
