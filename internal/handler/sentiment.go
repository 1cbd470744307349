package handler

import (
	"net/http"

	"miner-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetSentiment godoc
// @Summary      Aggregate sentiment for a ticker
// @Description  Classifies recent news and social posts, blends the result with a price trend score
// @Tags         sentiment
// @Produce      json
// @Param        ticker  query  string  true  "Stock ticker (e.g., MARA)"
// @Success      200  {object}  domain.SentimentResult
// @Failure      400  {object}  map[string]string
// @Router       /api/sentiment [get]
func (h *Handler) GetSentiment(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-sentiment")
	defer span.End()

	ticker := domain.NormalizeSymbol(c.Query("ticker"))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker is required", "kind": "invalid_input"})
		return
	}
	span.SetAttributes(attribute.String("ticker", ticker))

	result, err := h.sentiments.GetSentiment(ctx, ticker)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
