package scope

import (
	"knowledge-rag-be/internal/constant"

	"gorm.io/gorm"
)

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

func OrderByCreatedAsc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// Ready keeps only items that finished ingestion.
func Ready(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", constant.KnowledgeStatusReady)
}
