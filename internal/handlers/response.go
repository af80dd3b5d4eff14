package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/dtos"
	"github.com/justsurfingit/job-tracker/internal/logging"
)

// Envelope wraps every JSON answer.
type Envelope struct {
	Success    bool             `json:"success"`
	Data       any              `json:"data,omitempty"`
	Message    string           `json:"message,omitempty"`
	Pagination *dtos.Pagination `json:"pagination,omitempty"`
	Errors     any              `json:"errors,omitempty"`
}

func ok(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

func fail(c *gin.Context, status int, message string, details any) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message, Errors: details})
}

func badJSON(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, "Invalid JSON format: "+err.Error(), nil)
}

// respondError maps a domain error onto its HTTP status. Internal failures
// are logged with their stack and reported without detail.
func respondError(c *gin.Context, log logging.Logger, err error) {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		de = apperrors.Internal("unexpected error", err)
	}

	status := de.Type.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Error(c.Request.Context(), "request failed",
			"type", de.Type,
			"error", err,
			"stack", string(de.StackTrace()),
		)
	}
	message, details := de.Public()
	fail(c, status, message, details)
}
