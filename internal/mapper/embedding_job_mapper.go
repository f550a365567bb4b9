package mapper

import (
	"time"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/model"
)

type EmbeddingJobMapper struct{}

func NewEmbeddingJobMapper() *EmbeddingJobMapper {
	return &EmbeddingJobMapper{}
}

func (m *EmbeddingJobMapper) ToEntity(j *model.EmbeddingJob) *entity.EmbeddingJob {
	if j == nil {
		return nil
	}
	var updatedAt *time.Time
	if !j.UpdatedAt.IsZero() {
		t := j.UpdatedAt
		updatedAt = &t
	}
	return &entity.EmbeddingJob{
		Id:              j.Id,
		KnowledgeItemId: j.KnowledgeItemId,
		WorkspaceId:     j.WorkspaceId,
		Status:          j.Status,
		Attempts:        j.Attempts,
		MaxAttempts:     j.MaxAttempts,
		LastError:       deref(j.LastError),
		StartedAt:       j.StartedAt,
		FinishedAt:      j.FinishedAt,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *EmbeddingJobMapper) ToModel(e *entity.EmbeddingJob) *model.EmbeddingJob {
	if e == nil {
		return nil
	}
	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}
	return &model.EmbeddingJob{
		Id:              e.Id,
		KnowledgeItemId: e.KnowledgeItemId,
		WorkspaceId:     e.WorkspaceId,
		Status:          e.Status,
		Attempts:        e.Attempts,
		MaxAttempts:     e.MaxAttempts,
		LastError:       ptr(e.LastError),
		StartedAt:       e.StartedAt,
		FinishedAt:      e.FinishedAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}
