package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ins72/mewayz-9913-sub005/internal/dto"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
	"github.com/ins72/mewayz-9913-sub005/internal/service"
)

type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// StartSession godoc
// @Summary      Start a collaborative session hosted by the caller
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        workspaceId path string true "Workspace ID (UUID)"
// @Param        request body dto.StartSessionRequest true "Session"
// @Success      201 {object} response.SuccessResponse{data=domain.CollaborativeSession}
// @Failure      400 {object} response.ErrorResponse
// @Router       /workspaces/{workspaceId}/sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	session, err := h.sessionService.StartSession(c.Request.Context(), c.Param("workspaceId"), caller, req.Type, req.Data)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, session)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessionService.GetSession(c.Request.Context(), c.Param("workspaceId"), c.Param("sessionId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, session)
}

// JoinSession godoc
// @Summary      Join a collaborative session
// @Tags         sessions
// @Produce      json
// @Param        workspaceId path string true "Workspace ID (UUID)"
// @Param        sessionId path string true "Session ID"
// @Success      200 {object} response.SuccessResponse{data=domain.CollaborativeSession}
// @Failure      404 {object} response.ErrorResponse
// @Router       /workspaces/{workspaceId}/sessions/{sessionId}/join [post]
func (h *SessionHandler) JoinSession(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	session, err := h.sessionService.JoinSession(c.Request.Context(), c.Param("workspaceId"), c.Param("sessionId"), caller)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, session)
}

// EndSession godoc
// @Summary      End a collaborative session (host only)
// @Tags         sessions
// @Produce      json
// @Param        workspaceId path string true "Workspace ID (UUID)"
// @Param        sessionId path string true "Session ID"
// @Success      200 {object} response.SuccessResponse{data=domain.CollaborativeSession}
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /workspaces/{workspaceId}/sessions/{sessionId}/end [post]
func (h *SessionHandler) EndSession(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	session, err := h.sessionService.EndSession(c.Request.Context(), c.Param("workspaceId"), c.Param("sessionId"), caller)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, session)
}
