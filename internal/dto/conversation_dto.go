package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	Title string `json:"title" validate:"max=255"`
}

type AppendMessageRequest struct {
	ConversationId uuid.UUID `json:"-"`
	Role           string    `json:"role" validate:"required,oneof=user assistant"`
	Content        string    `json:"content" validate:"required"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ConversationResponse struct {
	Id        uuid.UUID          `json:"id"`
	Title     string             `json:"title"`
	Messages  []*MessageResponse `json:"messages"`
	CreatedAt time.Time          `json:"createdAt"`
}

type RAGContextRequest struct {
	Query          string     `json:"query" validate:"required"`
	ConversationId *uuid.UUID `json:"conversationId"`
}

type RAGContextResponse struct {
	Sources []*SearchResultResponse `json:"sources"`
	Summary string                  `json:"summary"`
}
