package specification

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByType struct {
	Type string
}

func (s ByType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}

type ByTypes struct {
	Types []string
}

func (s ByTypes) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type IN ?", s.Types)
}

type ByCollectionID struct {
	CollectionID uuid.UUID
}

func (s ByCollectionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("collection_id = ?", s.CollectionID)
}

type ByCollectionIDs struct {
	CollectionIDs []uuid.UUID
}

func (s ByCollectionIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("collection_id IN ?", s.CollectionIDs)
}

// HasAnyTag matches items carrying at least one of Tags (jsonb string array).
type HasAnyTag struct {
	Tags []string
}

func (s HasAnyTag) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("jsonb_exists_any(tags, ARRAY[?]::text[])", s.Tags)
}

type ByEmbeddingsModel struct {
	Model string
}

func (s ByEmbeddingsModel) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embeddings_model = ?", s.Model)
}

type IsArchived struct {
	Archived bool
}

func (s IsArchived) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_archived = ?", s.Archived)
}

// MissingEmbedding selects ready items that never received a vector.
type MissingEmbedding struct{}

func (s MissingEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embeddings IS NULL")
}

// KnowledgeSearchQuery matches title, content or summary (case-insensitive).
type KnowledgeSearchQuery struct {
	Query string
}

func (s KnowledgeSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR content ILIKE ? OR summary ILIKE ?", pattern, pattern, pattern)
}

// NearestTo orders rows by pgvector cosine distance to Vector. Rows with a
// different dimension or no vector are excluded since <=> rejects them.
type NearestTo struct {
	Vector []float32
}

func (s NearestTo) Apply(db *gorm.DB) *gorm.DB {
	v := pgvector.NewVector(s.Vector)
	return db.
		Where("embeddings IS NOT NULL").
		Where("vector_dims(embeddings) = ?", len(s.Vector)).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embeddings <=> ?", Vars: []interface{}{v}},
		})
}
