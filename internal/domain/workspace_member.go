package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleName represents the role of a workspace member
type RoleName string

const (
	RoleOwner  RoleName = "OWNER"
	RoleAdmin  RoleName = "ADMIN"
	RoleMember RoleName = "MEMBER"
)

// WorkspaceMember grants a user access to a workspace's collaboration state.
type WorkspaceMember struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"workspaceMemberId"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_workspace_members_workspace_user" json:"workspaceId"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_workspace_members_workspace_user" json:"userId"`
	RoleName    RoleName  `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"roleName"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	JoinedAt    time.Time `gorm:"not null" json:"joinedAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name for WorkspaceMember
func (WorkspaceMember) TableName() string {
	return "workspace_members"
}

func (m *WorkspaceMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	return nil
}
