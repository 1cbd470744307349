package handler

import (
	"context"

	"miner-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type QuoteReader interface {
	Watchlist() []string
	Book(ctx context.Context, symbols []string) (domain.PriceBook, error)
}

type Predictor interface {
	Predict(ctx context.Context, ticker string, targetBtc, multiplier float64) (*domain.PredictionResult, error)
}

type SentimentReader interface {
	GetSentiment(ctx context.Context, ticker string) (*domain.SentimentResult, error)
}

type Handler struct {
	tracer     trace.Tracer
	quotes     QuoteReader
	predictor  Predictor
	sentiments SentimentReader
}

func New(tracer trace.Tracer, quotes QuoteReader, predictor Predictor, sentiments SentimentReader) *Handler {
	return &Handler{
		tracer:     tracer,
		quotes:     quotes,
		predictor:  predictor,
		sentiments: sentiments,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(apiKey))
	api.GET("/market-prices", h.GetMarketPrices)
	api.GET("/predict", h.Predict)
	api.GET("/sentiment", h.GetSentiment)
}
