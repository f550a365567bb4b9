package entity

import (
	"time"

	"github.com/google/uuid"
)

type AiConversation struct {
	Id          uuid.UUID
	WorkspaceId uuid.UUID
	UserId      uuid.UUID
	Title       string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// AiMessage is one conversation turn.
type AiMessage struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           string
	Content        string
	CreatedAt      time.Time
}
