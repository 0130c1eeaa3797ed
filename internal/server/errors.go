package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	models "github.com/nivschuman/ElectionLifecycle/internal/models"
)

var statusByKind = map[models.ErrorKind]int{
	models.KindValidation:             http.StatusBadRequest,
	models.KindNotFound:               http.StatusNotFound,
	models.KindDuplicatePosition:      http.StatusConflict,
	models.KindDuplicateContact:       http.StatusConflict,
	models.KindInvariantViolation:     http.StatusConflict,
	models.KindInvalidState:           http.StatusConflict,
	models.KindInsufficientCandidates: http.StatusUnprocessableEntity,
	models.KindTransport:              http.StatusServiceUnavailable,
}

func StatusCode(kind models.ErrorKind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	modelErr := models.AsError(err)
	status := StatusCode(modelErr.Kind)

	if modelErr.Retryable() {
		logger.Warningf("|Server| %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}

	c.AbortWithStatusJSON(status, errorResponse{
		Kind:      string(modelErr.Kind),
		Message:   modelErr.Message,
		Field:     modelErr.Field,
		EntityIds: modelErr.EntityIds,
	})
}

func writeBindError(c *gin.Context, err error) {
	writeError(c, models.NewValidationError("", "malformed request body: %v", err))
}
