package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"miner-pulse/internal/domain"
	"miner-pulse/internal/marketdata"
	"miner-pulse/internal/quant"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Stage names the steps of one prediction run. A request moves through
// them in order; an error freezes it at the stage that failed.
type Stage string

const (
	StageIdle            Stage = "idle"
	StageFetchingPrices  Stage = "fetching-prices"
	StageFetchingHistory Stage = "fetching-history"
	StageFitting         Stage = "fitting"
	StageProjecting      Stage = "projecting"
	StageDone            Stage = "done"
)

// StageError reports which stage a prediction failed in while keeping
// the underlying taxonomy error reachable through errors.Is.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// QuoteReader is the current-price surface the prediction service uses.
type QuoteReader interface {
	Book(ctx context.Context, symbols []string) (domain.PriceBook, error)
}

// HistoryReader is the aligned-history surface.
type HistoryReader interface {
	Aligned(ctx context.Context, symbolA, symbolB string, days int, prefs marketdata.Preferences) (marketdata.AlignedSeries, error)
}

const DefaultHistoryWindowDays = 365

// PredictionService orchestrates one prediction: current prices, then
// aligned history, then fit, then projection. There is no retry loop
// here; source fallback lives inside the aggregator, and model errors
// surface to the caller as-is.
type PredictionService struct {
	tracer     trace.Tracer
	quotes     QuoteReader
	history    HistoryReader
	prefs      marketdata.Preferences
	windowDays int
}

func NewPredictionService(
	tracer trace.Tracer,
	quotes QuoteReader,
	history HistoryReader,
	prefs marketdata.Preferences,
	windowDays int,
) *PredictionService {
	if windowDays <= 0 {
		windowDays = DefaultHistoryWindowDays
	}
	return &PredictionService{
		tracer:     tracer,
		quotes:     quotes,
		history:    history,
		prefs:      prefs,
		windowDays: windowDays,
	}
}

// Predict computes the beta-model and power-law price targets for
// ticker at a hypothetical BTC price, scaled by multiplier. Every
// result is computed fresh; nothing is kept between calls.
func (s *PredictionService) Predict(ctx context.Context, ticker string, targetBtc, multiplier float64) (*domain.PredictionResult, error) {
	ctx, span := s.tracer.Start(ctx, "prediction-service.predict")
	defer span.End()

	ticker = domain.NormalizeSymbol(ticker)
	span.SetAttributes(attribute.String("ticker", ticker), attribute.Float64("target_btc", targetBtc))

	if strings.TrimSpace(ticker) == "" {
		return nil, &StageError{Stage: StageIdle, Err: fmt.Errorf("ticker is required: %w", domain.ErrInvalidInput)}
	}
	if ticker == domain.BTCSymbol {
		return nil, &StageError{Stage: StageIdle, Err: fmt.Errorf("cannot predict %s against itself: %w", ticker, domain.ErrInvalidInput)}
	}
	if targetBtc <= 0 {
		return nil, &StageError{Stage: StageIdle, Err: fmt.Errorf("target btc price %.2f must be positive: %w", targetBtc, domain.ErrInvalidInput)}
	}
	if multiplier <= 0 {
		return nil, &StageError{Stage: StageIdle, Err: fmt.Errorf("multiplier %.2f must be positive: %w", multiplier, domain.ErrInvalidInput)}
	}

	started := time.Now()

	book, err := s.quotes.Book(ctx, []string{domain.BTCSymbol, ticker})
	if err != nil {
		return nil, &StageError{Stage: StageFetchingPrices, Err: err}
	}
	curBtc := book[domain.BTCSymbol].Price
	curStock := book[ticker].Price

	aligned, err := s.history.Aligned(ctx, domain.BTCSymbol, ticker, s.windowDays, s.prefs)
	if err != nil {
		return nil, &StageError{Stage: StageFetchingHistory, Err: err}
	}

	// A symbol missing from the book (a closed market, a source outage
	// the other symbol survived) falls back to its last daily close.
	if curBtc <= 0 {
		curBtc = aligned.BTC[aligned.Points-1]
	}
	if curStock <= 0 {
		curStock = aligned.Stock[aligned.Points-1]
	}

	reg, err := quant.Fit(aligned.BTC, aligned.Stock)
	if err != nil {
		return nil, &StageError{Stage: StageFitting, Err: err}
	}

	betaPrice, powerLawPrice, err := quant.Project(reg, curBtc, curStock, targetBtc, multiplier)
	if err != nil {
		return nil, &StageError{Stage: StageProjecting, Err: err}
	}

	span.SetAttributes(attribute.Int64("duration_ms", time.Since(started).Milliseconds()))

	return &domain.PredictionResult{
		Ticker:                      ticker,
		CurrentBTCPrice:             curBtc,
		CurrentStockPrice:           curStock,
		TargetBTCPrice:              targetBtc,
		PredictedStockPriceBeta:     betaPrice,
		PredictedStockPricePowerLaw: powerLawPrice,
		Beta:                        reg.Beta,
		Correlation:                 reg.Correlation,
		PowerLawExponent:            reg.PowerLawExponent,
		SampleSize:                  reg.SampleSize,
		Multiplier:                  multiplier,
	}, nil
}
