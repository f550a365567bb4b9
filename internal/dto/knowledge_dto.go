package dto

import (
	"time"

	"github.com/google/uuid"
)

type ListKnowledgeItemsRequest struct {
	Search       string `query:"search"`
	Type         string `query:"type"`
	Status       string `query:"status"`
	CollectionId string `query:"collectionId" validate:"omitempty,uuid"`
	SortBy       string `query:"sortBy" validate:"omitempty,oneof=createdAt updatedAt title type status"`
	SortOrder    string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page         int    `query:"page" validate:"omitempty,min=1"`
	Limit        int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Archived     bool   `query:"archived"`
}

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

type CollectionFilter struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ItemCount int64     `json:"itemCount"`
}

type KnowledgeFilters struct {
	Types       []string           `json:"types"`
	Statuses    []string           `json:"statuses"`
	Collections []CollectionFilter `json:"collections"`
}

type ListKnowledgeItemsResponse struct {
	Items      []*KnowledgeItemResponse `json:"items"`
	Pagination Pagination               `json:"pagination"`
	Filters    KnowledgeFilters         `json:"filters"`
}

type KnowledgeItemResponse struct {
	Id              uuid.UUID              `json:"id"`
	WorkspaceId     uuid.UUID              `json:"workspaceId"`
	CollectionId    *uuid.UUID             `json:"collectionId"`
	CreatedBy       uuid.UUID              `json:"createdBy"`
	Title           string                 `json:"title"`
	Type            string                 `json:"type"`
	Status          string                 `json:"status"`
	SourceUrl       string                 `json:"sourceUrl,omitempty"`
	FileName        string                 `json:"fileName,omitempty"`
	FileSize        int64                  `json:"fileSize,omitempty"`
	MimeType        string                 `json:"mimeType,omitempty"`
	Content         string                 `json:"content,omitempty"`
	Summary         string                 `json:"summary,omitempty"`
	Metadata        map[string]interface{} `json:"metadata"`
	Tags            []string               `json:"tags"`
	HasEmbedding    bool                   `json:"hasEmbedding"`
	EmbeddingsModel string                 `json:"embeddingsModel,omitempty"`
	IsFavorite      bool                   `json:"isFavorite"`
	IsArchived      bool                   `json:"isArchived"`
	ProcessingError string                 `json:"processingError,omitempty"`
	ProcessedAt     *time.Time             `json:"processedAt"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       *time.Time             `json:"updatedAt"`
}

type CreateKnowledgeItemRequest struct {
	Title        string                 `json:"title" validate:"required"`
	Type         string                 `json:"type" validate:"required"`
	Content      string                 `json:"content"`
	Summary      string                 `json:"summary"`
	CollectionId *uuid.UUID             `json:"collectionId"`
	SourceUrl    string                 `json:"sourceUrl" validate:"omitempty,url"`
	FileName     string                 `json:"fileName"`
	FileSize     int64                  `json:"fileSize" validate:"omitempty,min=0"`
	MimeType     string                 `json:"mimeType"`
	Metadata     map[string]interface{} `json:"metadata"`
	Tags         []string               `json:"tags"`
}

// UpdateKnowledgeItemRequest only changes the fields that are present.
type UpdateKnowledgeItemRequest struct {
	Id           uuid.UUID              `json:"-"`
	Title        *string                `json:"title"`
	Type         *string                `json:"type"`
	Content      *string                `json:"content"`
	Summary      *string                `json:"summary"`
	CollectionId *uuid.UUID             `json:"collectionId"`
	SourceUrl    *string                `json:"sourceUrl"`
	FileName     *string                `json:"fileName"`
	MimeType     *string                `json:"mimeType"`
	Metadata     map[string]interface{} `json:"metadata"`
	Tags         []string               `json:"tags"`
	IsArchived   *bool                  `json:"isArchived"`
	IsFavorite   *bool                  `json:"isFavorite"`
}

type SearchFilters struct {
	CollectionIds []uuid.UUID `json:"collectionIds"`
	Types         []string    `json:"types"`
	Tags          []string    `json:"tags"`
}

type SearchKnowledgeRequest struct {
	Query     string        `json:"query" validate:"required"`
	Limit     int           `json:"limit" validate:"omitempty,min=1,max=100"`
	Threshold *float64      `json:"threshold" validate:"omitempty,min=-1,max=1"`
	Filters   SearchFilters `json:"filters"`
}

type SearchResultResponse struct {
	Item           *KnowledgeItemResponse `json:"item"`
	RelevanceScore float64                `json:"relevanceScore"`
	Snippet        string                 `json:"snippet"`
}

type SearchKnowledgeResponse struct {
	Query   string                  `json:"query"`
	Results []*SearchResultResponse `json:"results"`
	Total   int                     `json:"total"`
}

type SimilarKnowledgeResponse struct {
	SourceId uuid.UUID                `json:"sourceId"`
	Items    []*KnowledgeItemResponse `json:"items"`
}

type EmbeddingJobResponse struct {
	Id              uuid.UUID  `json:"id"`
	KnowledgeItemId uuid.UUID  `json:"knowledgeItemId"`
	Status          string     `json:"status"`
	Attempts        int        `json:"attempts"`
	MaxAttempts     int        `json:"maxAttempts"`
	LastError       string     `json:"lastError,omitempty"`
	StartedAt       *time.Time `json:"startedAt"`
	FinishedAt      *time.Time `json:"finishedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// EmbedKnowledgeItemMessage is the payload on the embedding job topic.
type EmbedKnowledgeItemMessage struct {
	JobId uuid.UUID `json:"job_id"`
}
