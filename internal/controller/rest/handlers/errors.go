package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"DisputeDesk/internal/domain/negotiation"

	"github.com/gin-gonic/gin"
)

// writeError maps domain errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	var vErr *negotiation.ValidationError
	var aErr *negotiation.AdapterError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": negotiation.ErrValidation.Error(), "errors": vErr.Errors})
	case errors.Is(err, negotiation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, negotiation.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"message": err.Error()})
	case errors.Is(err, negotiation.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.As(err, &aErr):
		c.JSON(http.StatusBadGateway, gin.H{"message": aErr.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "Request failed",
			"path", c.FullPath(),
			slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}
