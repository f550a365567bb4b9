package mapper

import (
	"time"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ConversationToEntity(c *model.AiConversation) *entity.AiConversation {
	if c == nil {
		return nil
	}
	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}
	return &entity.AiConversation{
		Id:          c.Id,
		WorkspaceId: c.WorkspaceId,
		UserId:      c.UserId,
		Title:       c.Title,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ConversationMapper) ConversationToModel(e *entity.AiConversation) *model.AiConversation {
	if e == nil {
		return nil
	}
	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}
	return &model.AiConversation{
		Id:          e.Id,
		WorkspaceId: e.WorkspaceId,
		UserId:      e.UserId,
		Title:       e.Title,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ConversationMapper) MessageToEntity(msg *model.AiMessage) *entity.AiMessage {
	if msg == nil {
		return nil
	}
	return &entity.AiMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ConversationMapper) MessageToModel(e *entity.AiMessage) *model.AiMessage {
	if e == nil {
		return nil
	}
	return &model.AiMessage{
		Id:             e.Id,
		ConversationId: e.ConversationId,
		Role:           e.Role,
		Content:        e.Content,
		CreatedAt:      e.CreatedAt,
	}
}
