package mapper

import (
	"time"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/model"
)

type WorkspaceMapper struct{}

func NewWorkspaceMapper() *WorkspaceMapper {
	return &WorkspaceMapper{}
}

func (m *WorkspaceMapper) MemberToEntity(w *model.WorkspaceMember) *entity.WorkspaceMember {
	if w == nil {
		return nil
	}
	return &entity.WorkspaceMember{
		Id:          w.Id,
		WorkspaceId: w.WorkspaceId,
		UserId:      w.UserId,
		Role:        w.Role,
		IsActive:    w.IsActive,
		CreatedAt:   w.CreatedAt,
	}
}

func (m *WorkspaceMapper) MemberToModel(e *entity.WorkspaceMember) *model.WorkspaceMember {
	if e == nil {
		return nil
	}
	return &model.WorkspaceMember{
		Id:          e.Id,
		WorkspaceId: e.WorkspaceId,
		UserId:      e.UserId,
		Role:        e.Role,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *WorkspaceMapper) CollectionToEntity(c *model.KnowledgeCollection) *entity.KnowledgeCollection {
	if c == nil {
		return nil
	}
	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}
	return &entity.KnowledgeCollection{
		Id:          c.Id,
		WorkspaceId: c.WorkspaceId,
		Name:        c.Name,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *WorkspaceMapper) CollectionToModel(e *entity.KnowledgeCollection) *model.KnowledgeCollection {
	if e == nil {
		return nil
	}
	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}
	return &model.KnowledgeCollection{
		Id:          e.Id,
		WorkspaceId: e.WorkspaceId,
		Name:        e.Name,
		Description: e.Description,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
