package marketdata

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"miner-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type stubSource struct {
	name     string
	prices   map[string]float64
	err      error
	delay    time.Duration
	onlyEq   bool
	callsLog chan string
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Supports(symbol string) bool {
	if s.onlyEq {
		return !domain.IsCrypto(symbol)
	}
	return true
}

func (s *stubSource) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if s.callsLog != nil {
		s.callsLog <- s.name + ":" + symbol
	}
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	price, ok := s.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("%s has no price for %s", s.name, symbol)
	}
	return &domain.Quote{Symbol: symbol, Price: price, Source: s.name, AsOf: time.Now().UTC()}, nil
}

type stubExtSource struct {
	stubSource
	ext map[string]*domain.ExtendedQuote
}

func (s *stubExtSource) ExtendedQuote(_ context.Context, symbol string) (*domain.ExtendedQuote, error) {
	eq, ok := s.ext[symbol]
	if !ok {
		return nil, fmt.Errorf("no extended quote for %s", symbol)
	}
	return eq, nil
}

func registryWith(sources ...QuoteSource) *Registry {
	r := NewRegistry()
	for _, s := range sources {
		r.RegisterQuotes(s)
	}
	return r
}

func TestSnapshotPriorityWinsOverArrivalOrder(t *testing.T) {
	t.Parallel()

	// The preferred source is slow, the fallback answers first. The
	// preferred price must still win the merge.
	slow := &stubSource{name: "finnhub", prices: map[string]float64{"IREN": 12.5}, delay: 30 * time.Millisecond, onlyEq: true}
	fast := &stubSource{name: "yahoo", prices: map[string]float64{"IREN": 11.9}}
	agg := NewAggregator(registryWith(slow, fast), time.Second, testTracer)

	book, err := agg.Snapshot(context.Background(), []string{"IREN"}, Preferences{Equity: []string{"finnhub", "yahoo"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := book["IREN"].Price; got != 12.5 {
		t.Fatalf("expected preferred source price 12.5, got %v", got)
	}
}

func TestSnapshotDeterministicMerge(t *testing.T) {
	t.Parallel()

	broken := &stubSource{name: "finnhub", err: errors.New("upstream 500"), onlyEq: true}
	good := &stubSource{name: "yahoo", prices: map[string]float64{"IREN": 11.9, "MARA": 19.2, "BTC-USD": 97000}}
	agg := NewAggregator(registryWith(broken, good), time.Second, testTracer)
	prefs := Preferences{Crypto: []string{"yahoo"}, Equity: []string{"finnhub", "yahoo"}}
	symbols := []string{"BTC-USD", "IREN", "MARA"}

	first, err := agg.Snapshot(context.Background(), symbols, prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := agg.Snapshot(context.Background(), symbols, prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same outcomes produced different books: %+v vs %+v", first, second)
	}
	if len(first) != 3 {
		t.Fatalf("expected all symbols priced, got %+v", first)
	}
}

func TestSnapshotPartialFailureIsNotAnError(t *testing.T) {
	t.Parallel()

	good := &stubSource{name: "yahoo", prices: map[string]float64{"IREN": 11.9}}
	agg := NewAggregator(registryWith(good), time.Second, testTracer)

	book, err := agg.Snapshot(context.Background(), []string{"IREN", "ZZZZ"},
		Preferences{Equity: []string{"yahoo"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := book["IREN"]; !ok {
		t.Fatal("expected IREN priced")
	}
	if _, ok := book["ZZZZ"]; ok {
		t.Fatal("expected unknown symbol reported missing, not invented")
	}
}

func TestSnapshotMockFillsWhenAllRealSourcesFail(t *testing.T) {
	t.Parallel()

	broken := &stubSource{name: "yahoo", err: errors.New("down")}
	mock := &stubSource{name: "mock", prices: map[string]float64{"IREN": 25}}
	agg := NewAggregator(registryWith(broken, mock), time.Second, testTracer)

	book, err := agg.Snapshot(context.Background(), []string{"IREN"},
		Preferences{Equity: []string{"yahoo", "mock"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := book["IREN"].Price; got != 25 {
		t.Fatalf("expected mock price, got %v", got)
	}
}

func TestSnapshotMockNotUsedWhenRealSourceAnswers(t *testing.T) {
	t.Parallel()

	real := &stubSource{name: "yahoo", prices: map[string]float64{"IREN": 11.9}}
	mockCalls := make(chan string, 8)
	mock := &stubSource{name: "mock", prices: map[string]float64{"IREN": 25}, callsLog: mockCalls}
	agg := NewAggregator(registryWith(real, mock), time.Second, testTracer)

	book, err := agg.Snapshot(context.Background(), []string{"IREN"},
		Preferences{Equity: []string{"yahoo", "mock"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := book["IREN"].Price; got != 11.9 {
		t.Fatalf("expected real price, got %v", got)
	}
	if len(mockCalls) != 0 {
		t.Fatal("mock source consulted despite a real answer")
	}
}

func TestSnapshotTotalTimeout(t *testing.T) {
	t.Parallel()

	slow := &stubSource{name: "yahoo", prices: map[string]float64{"IREN": 11.9}, delay: 200 * time.Millisecond}
	agg := NewAggregator(registryWith(slow), 10*time.Millisecond, testTracer)

	_, err := agg.Snapshot(context.Background(), []string{"IREN"},
		Preferences{Equity: []string{"yahoo"}})
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Fatalf("expected ErrUpstreamTimeout, got %v", err)
	}
}

func TestSnapshotTotalFailure(t *testing.T) {
	t.Parallel()

	broken := &stubSource{name: "yahoo", err: errors.New("down")}
	agg := NewAggregator(registryWith(broken), time.Second, testTracer)

	_, err := agg.Snapshot(context.Background(), []string{"IREN"},
		Preferences{Equity: []string{"yahoo"}})
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestSnapshotEquityExtendedQuote(t *testing.T) {
	t.Parallel()

	src := &stubExtSource{
		stubSource: stubSource{name: "yahoo", prices: map[string]float64{"IREN": 11.9}},
		ext: map[string]*domain.ExtendedQuote{
			"IREN": {
				Quote:           domain.Quote{Symbol: "IREN", Price: 11.9, Source: "yahoo"},
				MarketState:     domain.MarketPost,
				PostMarketPrice: 12.1,
				ChangePct:       1.3,
			},
		},
	}
	agg := NewAggregator(registryWith(src), time.Second, testTracer)

	book, err := agg.Snapshot(context.Background(), []string{"IREN"},
		Preferences{Equity: []string{"yahoo"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry := book["IREN"]
	if entry.Extended == nil {
		t.Fatal("expected extended entry for equity")
	}
	if entry.Extended.MarketState != domain.MarketPost || entry.Extended.PostMarketPrice != 12.1 {
		t.Fatalf("unexpected extended quote: %+v", entry.Extended)
	}
}

func TestQuoteChainSkipsUnknownAndUnsupported(t *testing.T) {
	t.Parallel()

	eqOnly := &stubSource{name: "finnhub", onlyEq: true}
	all := &stubSource{name: "yahoo"}
	r := registryWith(eqOnly, all)

	chain := r.QuoteChain("BTC-USD", []string{"finnhub", "nosuch", "yahoo"})
	if len(chain) != 1 || chain[0].Name() != "yahoo" {
		t.Fatalf("unexpected chain: %+v", chain)
	}
}

func TestPreferencesFingerprintDistinguishesOrders(t *testing.T) {
	t.Parallel()

	a := Preferences{Crypto: []string{"binance", "yahoo"}, Equity: []string{"finnhub"}}
	b := Preferences{Crypto: []string{"yahoo", "binance"}, Equity: []string{"finnhub"}}
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("different priority orders must not share a fingerprint")
	}
	if a.Fingerprint() != a.Fingerprint() {
		t.Fatal("fingerprint not stable")
	}
}
