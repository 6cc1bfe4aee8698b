package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ins72/mewayz-9913-sub005/internal/dto"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
	"github.com/ins72/mewayz-9913-sub005/internal/service"
)

type PresenceHandler struct {
	presenceService service.PresenceService
}

func NewPresenceHandler(presenceService service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

// Join godoc
// @Summary      Join workspace presence
// @Tags         presence
// @Produce      json
// @Param        workspaceId path string true "Workspace ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.JoinPresenceResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      503 {object} response.ErrorResponse
// @Router       /workspaces/{workspaceId}/presence [post]
func (h *PresenceHandler) Join(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	result, err := h.presenceService.Join(c.Request.Context(), c.Param("workspaceId"), caller)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.JoinPresenceResponse{
		User:        result.Record,
		ActiveUsers: result.ActiveUsers,
	})
}

// Leave godoc
// @Summary      Leave workspace presence
// @Tags         presence
// @Param        workspaceId path string true "Workspace ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Router       /workspaces/{workspaceId}/presence [delete]
func (h *PresenceHandler) Leave(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	if err := h.presenceService.Leave(c.Request.Context(), c.Param("workspaceId"), caller.ID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Left workspace"})
}

// Heartbeat refreshes the caller's presence without announcing it
func (h *PresenceHandler) Heartbeat(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	active, err := h.presenceService.Touch(c.Request.Context(), c.Param("workspaceId"), caller.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.HeartbeatResponse{Active: active})
}

// ListActive godoc
// @Summary      List users present in a workspace
// @Tags         presence
// @Produce      json
// @Param        workspaceId path string true "Workspace ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ActiveUsersResponse}
// @Router       /workspaces/{workspaceId}/presence [get]
func (h *PresenceHandler) ListActive(c *gin.Context) {
	workspaceID := c.Param("workspaceId")

	records, err := h.presenceService.ListActive(c.Request.Context(), workspaceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.ActiveUsersResponse{
		WorkspaceID: workspaceID,
		ActiveUsers: records,
		Count:       len(records),
	})
}

func (h *PresenceHandler) UpdateCursor(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateCursorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	update, err := h.presenceService.UpdateCursor(c.Request.Context(), c.Param("workspaceId"), caller.ID, req.CursorPosition)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.CursorResponse{
		UserID:         update.UserID,
		CursorPosition: update.CursorPosition,
		Timestamp:      update.Timestamp,
	})
}
