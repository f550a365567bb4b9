package model

import (
	"time"

	"github.com/google/uuid"
)

type WorkspaceMember struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:workspace_member_unique_idx"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:workspace_member_unique_idx"`
	Role        string    `gorm:"type:varchar(20);not null;default:member"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (WorkspaceMember) TableName() string {
	return "workspace_members"
}
