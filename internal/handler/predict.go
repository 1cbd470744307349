package handler

import (
	"log"
	"net/http"
	"strconv"

	"miner-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// Predict godoc
// @Summary      Predict a mining stock price at a target BTC price
// @Description  Fits beta and power-law models on aligned daily history and projects both to the target
// @Tags         predict
// @Produce      json
// @Param        ticker            query  string   true   "Stock ticker (e.g., MARA)"
// @Param        target_btc        query  number   true   "Hypothetical BTC price in USD"
// @Param        event_multiplier  query  number   false  "Explicit scenario multiplier applied to both projections"
// @Param        use_sentiment     query  bool     false  "Derive the multiplier from the ticker's composite sentiment"
// @Success      200  {object}  domain.PredictionResult
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      504  {object}  map[string]string
// @Router       /api/predict [get]
func (h *Handler) Predict(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.predict")
	defer span.End()

	ticker := domain.NormalizeSymbol(c.Query("ticker"))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker is required", "kind": "invalid_input"})
		return
	}
	span.SetAttributes(attribute.String("ticker", ticker))

	targetBtc, err := strconv.ParseFloat(c.Query("target_btc"), 64)
	if err != nil || targetBtc <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_btc must be a positive number", "kind": "invalid_input"})
		return
	}

	multiplier := 1.0
	if raw := c.Query("event_multiplier"); raw != "" {
		multiplier, err = strconv.ParseFloat(raw, 64)
		if err != nil || multiplier <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event_multiplier must be a positive number", "kind": "invalid_input"})
			return
		}
	} else if c.Query("use_sentiment") == "true" {
		sentiment, serr := h.sentiments.GetSentiment(ctx, ticker)
		if serr != nil {
			log.Printf("sentiment lookup for %s failed, keeping neutral multiplier: %v", ticker, serr)
		} else {
			multiplier = domain.MultiplierForScore(sentiment.CompositeScore)
		}
	}

	result, err := h.predictor.Predict(ctx, ticker, targetBtc, multiplier)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
