package handler

import (
	"errors"
	"net/http"

	"miner-pulse/internal/domain"

	"github.com/gin-gonic/gin"
)

// statusForError maps the domain sentinels onto HTTP statuses. Anything
// outside the taxonomy is a 500.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrInsufficientData):
		return http.StatusUnprocessableEntity, "insufficient_data"
	case errors.Is(err, domain.ErrDegenerateInput):
		return http.StatusUnprocessableEntity, "degenerate_input"
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, "upstream_timeout"
	case errors.Is(err, domain.ErrSourceUnavailable):
		return http.StatusBadGateway, "source_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(c *gin.Context, err error) {
	status, kind := statusForError(err)
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}
