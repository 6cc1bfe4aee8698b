package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ins72/mewayz-9913-sub005/internal/domain"
	"github.com/ins72/mewayz-9913-sub005/internal/repository"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
)

// Context keys set by WorkspaceMember
const (
	ContextKeyWorkspaceID = "workspace_id"
	ContextKeyCaller      = "caller"
)

// WorkspaceMember admits only active members of the :workspaceId in the path
// and exposes the caller's profile to the handlers. Must run after auth.
func WorkspaceMember(users repository.UserRepository, members repository.WorkspaceMemberRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID, err := uuid.Parse(c.Param("workspaceId"))
		if err != nil {
			response.AbortWithError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid workspace ID")
			return
		}

		userID, ok := c.Get(ContextKeyUserID)
		if !ok {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in context")
			return
		}
		uid := userID.(uuid.UUID)

		ctx := c.Request.Context()
		isMember, err := members.IsActiveMember(ctx, workspaceID, uid)
		if err != nil {
			logger.Error("Failed to check workspace membership",
				zap.String("workspace_id", workspaceID.String()),
				zap.String("user_id", uid.String()),
				zap.Error(err))
			response.AbortWithError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to verify workspace membership")
			return
		}
		if !isMember {
			response.AbortWithError(c, http.StatusForbidden, response.ErrCodeForbidden, "Not a member of this workspace")
			return
		}

		user, err := users.FindByID(ctx, uid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User not found")
				return
			}
			logger.Error("Failed to load user", zap.String("user_id", uid.String()), zap.Error(err))
			response.AbortWithError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to load user")
			return
		}

		c.Set(ContextKeyWorkspaceID, workspaceID)
		c.Set(ContextKeyCaller, user.ToCaller())
		c.Next()
	}
}

// GetCaller returns the identity stored by WorkspaceMember
func GetCaller(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(ContextKeyCaller)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}
