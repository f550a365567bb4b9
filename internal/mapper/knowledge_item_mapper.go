package mapper

import (
	"encoding/json"
	"time"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeItemMapper struct{}

func NewKnowledgeItemMapper() *KnowledgeItemMapper {
	return &KnowledgeItemMapper{}
}

func (m *KnowledgeItemMapper) ToEntity(k *model.KnowledgeItem) *entity.KnowledgeItem {
	if k == nil {
		return nil
	}

	var updatedAt *time.Time
	if !k.UpdatedAt.IsZero() {
		t := k.UpdatedAt
		updatedAt = &t
	}

	var embedding []float32
	if k.Embeddings != nil {
		embedding = k.Embeddings.Slice()
	}

	metadata := map[string]interface{}{}
	if len(k.Metadata) > 0 {
		_ = json.Unmarshal(k.Metadata, &metadata)
	}

	tags := []string{}
	if len(k.Tags) > 0 {
		_ = json.Unmarshal(k.Tags, &tags)
	}

	var fileSize int64
	if k.FileSize != nil {
		fileSize = *k.FileSize
	}

	return &entity.KnowledgeItem{
		Id:              k.Id,
		WorkspaceId:     k.WorkspaceId,
		CollectionId:    k.CollectionId,
		CreatedBy:       k.CreatedBy,
		Title:           k.Title,
		Type:            k.Type,
		Status:          k.Status,
		SourceUrl:       deref(k.SourceUrl),
		FileName:        deref(k.FileName),
		FileSize:        fileSize,
		MimeType:        deref(k.MimeType),
		Content:         deref(k.Content),
		Summary:         deref(k.Summary),
		Metadata:        metadata,
		Tags:            tags,
		Embedding:       embedding,
		EmbeddingsModel: deref(k.EmbeddingsModel),
		IsFavorite:      k.IsFavorite,
		IsArchived:      k.IsArchived,
		ProcessingError: deref(k.ProcessingError),
		ProcessedAt:     k.ProcessedAt,
		CreatedAt:       k.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *KnowledgeItemMapper) ToModel(e *entity.KnowledgeItem) *model.KnowledgeItem {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	// A missing vector must stay NULL, never an empty vector.
	var embeddings *pgvector.Vector
	if len(e.Embedding) > 0 {
		v := pgvector.NewVector(e.Embedding)
		embeddings = &v
	}

	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadataJson, _ := json.Marshal(metadata)

	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJson, _ := json.Marshal(tags)

	var fileSize *int64
	if e.FileSize > 0 {
		fs := e.FileSize
		fileSize = &fs
	}

	return &model.KnowledgeItem{
		Id:              e.Id,
		WorkspaceId:     e.WorkspaceId,
		CollectionId:    e.CollectionId,
		CreatedBy:       e.CreatedBy,
		Title:           e.Title,
		Type:            e.Type,
		Status:          e.Status,
		SourceUrl:       ptr(e.SourceUrl),
		FileName:        ptr(e.FileName),
		FileSize:        fileSize,
		MimeType:        ptr(e.MimeType),
		Content:         ptr(e.Content),
		Summary:         ptr(e.Summary),
		Metadata:        datatypes.JSON(metadataJson),
		Tags:            datatypes.JSON(tagsJson),
		Embeddings:      embeddings,
		EmbeddingsModel: ptr(e.EmbeddingsModel),
		IsFavorite:      e.IsFavorite,
		IsArchived:      e.IsArchived,
		ProcessingError: ptr(e.ProcessingError),
		ProcessedAt:     e.ProcessedAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *KnowledgeItemMapper) ToEntities(items []*model.KnowledgeItem) []*entity.KnowledgeItem {
	entities := make([]*entity.KnowledgeItem, len(items))
	for i, k := range items {
		entities[i] = m.ToEntity(k)
	}
	return entities
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
