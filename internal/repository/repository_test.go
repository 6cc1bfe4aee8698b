package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ins72/mewayz-9913-sub005/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.WorkspaceMember{}))
	return db
}

func TestUserRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &domain.User{Email: "ada@example.com", Name: "Ada", IsActive: true}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", found.Name)
	assert.Equal(t, "ada@example.com", found.Email)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUserRepository_InactiveUserIsHidden(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &domain.User{Email: "gone@example.com", Name: "Gone", IsActive: true}
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err := repo.FindByID(ctx, user.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestWorkspaceMemberRepository_IsActiveMember(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkspaceMemberRepository(db)
	ctx := context.Background()

	workspaceID := uuid.New()
	memberID := uuid.New()
	formerID := uuid.New()

	require.NoError(t, repo.Create(ctx, &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      memberID,
		RoleName:    domain.RoleMember,
		IsActive:    true,
	}))
	former := &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      formerID,
		RoleName:    domain.RoleMember,
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, former))
	require.NoError(t, db.Model(former).Update("is_active", false).Error)

	tests := []struct {
		name        string
		workspaceID uuid.UUID
		userID      uuid.UUID
		want        bool
	}{
		{"active member", workspaceID, memberID, true},
		{"deactivated member", workspaceID, formerID, false},
		{"stranger", workspaceID, uuid.New(), false},
		{"other workspace", uuid.New(), memberID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := repo.IsActiveMember(ctx, tt.workspaceID, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	found, err := repo.FindByWorkspaceAndUser(ctx, workspaceID, memberID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, found.RoleName)
	assert.False(t, found.JoinedAt.IsZero())
}

func TestWorkspaceMemberRepository_UniqueMembership(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkspaceMemberRepository(db)
	ctx := context.Background()

	workspaceID, userID := uuid.New(), uuid.New()
	require.NoError(t, repo.Create(ctx, &domain.WorkspaceMember{WorkspaceID: workspaceID, UserID: userID, IsActive: true}))
	err := repo.Create(ctx, &domain.WorkspaceMember{WorkspaceID: workspaceID, UserID: userID, IsActive: true})
	assert.Error(t, err)
}
