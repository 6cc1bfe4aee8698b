package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ins72/mewayz-9913-sub005/internal/dto"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
	"github.com/ins72/mewayz-9913-sub005/internal/service"
)

type ActivityHandler struct {
	activityService service.ActivityService
}

func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// GetFeed godoc
// @Summary      Recent workspace activity, newest first
// @Tags         activity
// @Produce      json
// @Param        workspaceId path string true "Workspace ID (UUID)"
// @Param        limit query int false "Maximum entries (default 50)"
// @Success      200 {object} response.SuccessResponse{data=dto.ActivityFeedResponse}
// @Router       /workspaces/{workspaceId}/activity [get]
func (h *ActivityHandler) GetFeed(c *gin.Context) {
	workspaceID := c.Param("workspaceId")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "limit must be an integer")
			return
		}
		limit = n
	}

	entries, err := h.activityService.GetFeed(c.Request.Context(), workspaceID, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.ActivityFeedResponse{
		WorkspaceID: workspaceID,
		Activities:  entries,
		Count:       len(entries),
	})
}

// RecordActivity is the internal endpoint other services push activity to
func (h *ActivityHandler) RecordActivity(c *gin.Context) {
	var req dto.RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	entry := req.ToEntry()
	if err := h.activityService.Record(c.Request.Context(), c.Param("workspaceId"), entry); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, entry)
}
