package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shiftsched/workforce/internal/domain"
)

// statusByKind maps the error taxonomy to HTTP status codes, generalizing
// the teacher's one-off errors.Is chains per handler into a single table
// consulted from WriteError.
var statusByKind = map[domain.ErrorKind]int{
	domain.KindNotFound:        http.StatusNotFound,
	domain.KindInvalidInput:    http.StatusBadRequest,
	domain.KindDatabaseError:   http.StatusInternalServerError,
	domain.KindExternalService: http.StatusInternalServerError,
	domain.KindInternal:        http.StatusInternalServerError,
}

// WriteError maps err to an HTTP status via its domain.ErrorKind and
// writes a JSON body, logging server-side failures (database, internal,
// external service) but not client errors (not found, invalid input).
func WriteError(c *gin.Context, logger *slog.Logger, err error) {
	kind := domain.KindOf(err)
	status := statusByKind[kind]

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), "request failed", "error", err, "kind", kind)
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
