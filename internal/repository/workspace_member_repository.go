package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ins72/mewayz-9913-sub005/internal/domain"
)

// WorkspaceMemberRepository defines the interface for workspace membership lookups
type WorkspaceMemberRepository interface {
	Create(ctx context.Context, member *domain.WorkspaceMember) error
	FindByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error)
	IsActiveMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)
}

// workspaceMemberRepositoryImpl is the GORM implementation of WorkspaceMemberRepository
type workspaceMemberRepositoryImpl struct {
	db *gorm.DB
}

// NewWorkspaceMemberRepository creates a new instance of WorkspaceMemberRepository
func NewWorkspaceMemberRepository(db *gorm.DB) WorkspaceMemberRepository {
	return &workspaceMemberRepositoryImpl{db: db}
}

// Create creates a new workspace membership
func (r *workspaceMemberRepositoryImpl) Create(ctx context.Context, member *domain.WorkspaceMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// FindByWorkspaceAndUser finds the membership row of a user in a workspace
func (r *workspaceMemberRepositoryImpl) FindByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	var member domain.WorkspaceMember
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// IsActiveMember reports whether the user currently belongs to the workspace
func (r *workspaceMemberRepositoryImpl) IsActiveMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ? AND is_active = ?", workspaceID, userID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
