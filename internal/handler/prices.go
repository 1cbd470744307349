package handler

import (
	"net/http"
	"strings"

	"miner-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetMarketPrices godoc
// @Summary      Get current prices for the watchlist
// @Description  Returns merged quotes from the configured source chains, one entry per resolvable symbol
// @Tags         prices
// @Produce      json
// @Param        symbols  query  string  false  "Comma-separated symbols (defaults to the watchlist)"
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Failure      504  {object}  map[string]string
// @Router       /api/market-prices [get]
func (h *Handler) GetMarketPrices(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-market-prices")
	defer span.End()

	var symbols []string
	if raw := c.Query("symbols"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if s := domain.NormalizeSymbol(part); s != "" {
				symbols = append(symbols, s)
			}
		}
	}
	if len(symbols) == 0 {
		symbols = h.quotes.Watchlist()
	}
	span.SetAttributes(attribute.Int("symbol_count", len(symbols)))

	book, err := h.quotes.Book(ctx, symbols)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": book})
}
