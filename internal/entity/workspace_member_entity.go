package entity

import (
	"time"

	"github.com/google/uuid"
)

type WorkspaceMember struct {
	Id          uuid.UUID
	WorkspaceId uuid.UUID
	UserId      uuid.UUID
	Role        string
	IsActive    bool
	CreatedAt   time.Time
}
