package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ins72/mewayz-9913-sub005/internal/dto"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
	"github.com/ins72/mewayz-9913-sub005/internal/service"
)

type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// UpdateDocument godoc
// @Summary      Stamp a document change with the next version and broadcast it
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        workspaceId path string true "Workspace ID (UUID)"
// @Param        documentId path string true "Document ID"
// @Param        request body dto.UpdateDocumentRequest true "Changes"
// @Success      200 {object} response.SuccessResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /workspaces/{workspaceId}/documents/{documentId} [put]
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	payload, err := h.documentService.UpdateDocument(
		c.Request.Context(),
		c.Param("workspaceId"),
		c.Param("documentId"),
		caller,
		req.Changes,
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, payload)
}

// GetVersion returns the current version without bumping it
func (h *DocumentHandler) GetVersion(c *gin.Context) {
	version, err := h.documentService.CurrentVersion(c.Request.Context(), c.Param("documentId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, version)
}
