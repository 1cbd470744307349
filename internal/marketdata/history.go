package marketdata

import (
	"context"
	"fmt"
	"log"
	"time"

	"miner-pulse/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMinAlignedPoints is the smallest overlap of trading days two
// series need before a regression on them means anything.
const DefaultMinAlignedPoints = 30

// AlignedSeries is the paired history for one BTC/stock regression:
// closes matched on UTC calendar day, ascending, both sides positive.
type AlignedSeries struct {
	BTC    []float64
	Stock  []float64
	Points int
}

// HistoryProvider fetches daily close series through the per-asset
// source chains and aligns them on common dates.
type HistoryProvider struct {
	registry  *Registry
	timeout   time.Duration
	minPoints int
	tracer    trace.Tracer
}

func NewHistoryProvider(registry *Registry, timeout time.Duration, minPoints int, tracer trace.Tracer) *HistoryProvider {
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	if minPoints <= 0 {
		minPoints = DefaultMinAlignedPoints
	}
	return &HistoryProvider{registry: registry, timeout: timeout, minPoints: minPoints, tracer: tracer}
}

// DailyCloses walks the symbol's history chain in priority order and
// returns the first usable series.
func (h *HistoryProvider) DailyCloses(ctx context.Context, symbol string, days int, prefs Preferences) (domain.PriceSeries, error) {
	ctx, span := h.tracer.Start(ctx, "marketdata.daily-closes")
	defer span.End()

	symbol = domain.NormalizeSymbol(symbol)
	span.SetAttributes(attribute.String("symbol", symbol), attribute.Int("days", days))

	chain := h.registry.SeriesChain(symbol, prefs.For(symbol))
	if len(chain) == 0 {
		return domain.PriceSeries{}, fmt.Errorf("no history source for %s: %w", symbol, domain.ErrSourceUnavailable)
	}

	var lastErr error
	for _, src := range chain {
		series, err := h.fetchSeries(ctx, src, symbol, days)
		if err != nil {
			log.Printf("history source %s failed for %s: %v", src.Name(), symbol, err)
			lastErr = err
			continue
		}
		if series.Len() == 0 {
			lastErr = fmt.Errorf("%s returned empty series for %s", src.Name(), symbol)
			continue
		}
		return series, nil
	}
	return domain.PriceSeries{}, fmt.Errorf("every history source failed for %s: %w (last: %v)",
		symbol, domain.ErrSourceUnavailable, lastErr)
}

func (h *HistoryProvider) fetchSeries(ctx context.Context, src SeriesSource, symbol string, days int) (domain.PriceSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return src.DailyCloses(ctx, symbol, days)
}

// Aligned fetches both series concurrently and intersects them by
// calendar day. Fewer than the configured minimum of aligned points is
// ErrInsufficientData.
func (h *HistoryProvider) Aligned(ctx context.Context, symbolA, symbolB string, days int, prefs Preferences) (AlignedSeries, error) {
	ctx, span := h.tracer.Start(ctx, "marketdata.aligned-series")
	defer span.End()

	type fetch struct {
		series domain.PriceSeries
		err    error
	}
	chA := make(chan fetch, 1)
	chB := make(chan fetch, 1)
	go func() {
		s, err := h.DailyCloses(ctx, symbolA, days, prefs)
		chA <- fetch{s, err}
	}()
	go func() {
		s, err := h.DailyCloses(ctx, symbolB, days, prefs)
		chB <- fetch{s, err}
	}()

	resA, resB := <-chA, <-chB
	if resA.err != nil {
		return AlignedSeries{}, fmt.Errorf("history for %s: %w", symbolA, resA.err)
	}
	if resB.err != nil {
		return AlignedSeries{}, fmt.Errorf("history for %s: %w", symbolB, resB.err)
	}

	as, bs := domain.AlignDaily(resA.series, resB.series)
	if len(as) < h.minPoints {
		return AlignedSeries{}, fmt.Errorf("%d aligned points for %s/%s, need %d: %w",
			len(as), symbolA, symbolB, h.minPoints, domain.ErrInsufficientData)
	}
	return AlignedSeries{BTC: as, Stock: bs, Points: len(as)}, nil
}
