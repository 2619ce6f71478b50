package handlers

import (
	"net/http"

	"haulhub/internal/domain"
	"haulhub/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps the domain error taxonomy to HTTP responses.
// Retryability is part of the contract: 409s invite a retry after
// re-reading, 502 invites a retry as-is, 4xx otherwise do not.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsInvalidTransition(err):
		respondError(c, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
	case domain.IsPreconditionFailed(err):
		respondError(c, http.StatusUnprocessableEntity, "precondition_failed", err.Error())
	case domain.IsConcurrentModification(err):
		respondError(c, http.StatusConflict, "concurrent_modification", err.Error())
	case domain.IsAuditWriteFailed(err):
		// Status already committed; the client must retry the same request
		// id rather than submit a new transition.
		respondError(c, http.StatusConflict, "audit_write_failed", err.Error())
	case domain.IsStoreUnavailable(err):
		respondError(c, http.StatusBadGateway, "store_unavailable", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "empty body")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "malformed payload: "+err.Error())
		return false
	}
	return true
}
