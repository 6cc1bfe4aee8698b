package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ins72/mewayz-9913-sub005/internal/domain"
	"github.com/ins72/mewayz-9913-sub005/internal/middleware"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
)

// handleServiceError converts service errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		response.SendError(c, mapErrorCodeToHTTPStatus(appErr.Code), appErr.Code, appErr.Message)
		return
	}

	_ = c.Error(err)
	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// callerFrom returns the identity set by the workspace middleware,
// writing a 401 when it is missing
func callerFrom(c *gin.Context) (domain.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Caller not found in context")
	}
	return caller, ok
}
