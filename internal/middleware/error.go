package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/apperror"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Errors string `json:"errors"`
	Field  string `json:"field,omitempty"`
}

// StatusFor maps an error onto its HTTP status. Conflicts are reported as
// bad requests, matching how clients already handle duplicate toggles.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict),
		errors.Is(err, apperror.ErrNotMember):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Internal errors are logged and hidden from the client.
func ErrorHandler(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			log.Errorw("request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			c.JSON(status, ErrorResponse{Errors: "internal server error"})
			return
		}

		c.JSON(status, ErrorResponse{Errors: err.Error(), Field: apperror.FieldOf(err)})
	}
}
