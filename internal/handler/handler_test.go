package handler

import (
	"context"

	"miner-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type stubQuotes struct {
	watchlist []string
	book      domain.PriceBook
	err       error
	last      []string
}

func (s *stubQuotes) Watchlist() []string { return s.watchlist }

func (s *stubQuotes) Book(ctx context.Context, symbols []string) (domain.PriceBook, error) {
	s.last = append([]string(nil), symbols...)
	if s.err != nil {
		return nil, s.err
	}
	return s.book, nil
}

type stubPredictor struct {
	result         *domain.PredictionResult
	err            error
	lastTicker     string
	lastTarget     float64
	lastMultiplier float64
	calls          int
}

func (s *stubPredictor) Predict(ctx context.Context, ticker string, targetBtc, multiplier float64) (*domain.PredictionResult, error) {
	s.calls++
	s.lastTicker = ticker
	s.lastTarget = targetBtc
	s.lastMultiplier = multiplier
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubSentiments struct {
	result     *domain.SentimentResult
	err        error
	lastTicker string
	calls      int
}

func (s *stubSentiments) GetSentiment(ctx context.Context, ticker string) (*domain.SentimentResult, error) {
	s.calls++
	s.lastTicker = ticker
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestRouter(quotes QuoteReader, predictor Predictor, sentiments SentimentReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(trace.NewNoopTracerProvider().Tracer("test"), quotes, predictor, sentiments)
	h.RegisterRoutes(r, "")
	return r
}
