package marketdata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"miner-pulse/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// mockSourceName marks the synthetic source of last resort. It is kept
// out of the concurrent fan-out and consulted only for symbols every
// real source failed to price.
const mockSourceName = "mock"

// DefaultSourceTimeout bounds each individual source fetch. The
// aggregator imposes no further deadline of its own.
const DefaultSourceTimeout = 5 * time.Second

// Aggregator fans quote fetches out to every configured source
// concurrently and merges the results by priority. A late or failed
// source contributes nothing; a higher-priority success always wins.
type Aggregator struct {
	registry *Registry
	timeout  time.Duration
	tracer   trace.Tracer
}

func NewAggregator(registry *Registry, timeout time.Duration, tracer trace.Tracer) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	return &Aggregator{registry: registry, timeout: timeout, tracer: tracer}
}

type fetchResult struct {
	symbol   string
	priority int
	entry    domain.BookEntry
	err      error
	timedOut bool
}

// Snapshot prices the requested symbols through the preference chains.
// Partial failure is normal: a symbol nobody could price is simply
// absent from the book. The call errors only when every symbol is
// missing, carrying ErrUpstreamTimeout if timeouts alone caused it.
func (a *Aggregator) Snapshot(ctx context.Context, symbols []string, prefs Preferences) (domain.PriceBook, error) {
	ctx, span := a.tracer.Start(ctx, "marketdata.snapshot")
	defer span.End()
	span.SetAttributes(attribute.Int("symbols", len(symbols)))

	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols requested: %w", domain.ErrInvalidInput)
	}

	var wg sync.WaitGroup
	results := make(chan fetchResult, len(symbols)*8)

	for _, raw := range symbols {
		symbol := domain.NormalizeSymbol(raw)
		for priority, src := range a.registry.QuoteChain(symbol, prefs.For(symbol)) {
			if src.Name() == mockSourceName {
				continue
			}
			wg.Add(1)
			go func(symbol string, priority int, src QuoteSource) {
				defer wg.Done()
				results <- a.fetchOne(ctx, symbol, priority, src)
			}(symbol, priority, src)
		}
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	best := make(map[string]fetchResult, len(symbols))
	failures := 0
	timeouts := 0
	for res := range results {
		if res.err != nil {
			failures++
			if res.timedOut {
				timeouts++
			}
			log.Printf("price source #%d failed for %s: %v", res.priority, res.symbol, res.err)
			continue
		}
		cur, ok := best[res.symbol]
		if !ok || res.priority < cur.priority {
			best[res.symbol] = res
		}
	}

	book := make(domain.PriceBook, len(symbols))
	for _, res := range best {
		book[res.symbol] = res.entry
	}

	// Mock is the source of last resort: it fills exactly the symbols
	// no real source could price, and only when the chain names it.
	for _, raw := range symbols {
		symbol := domain.NormalizeSymbol(raw)
		if _, ok := book[symbol]; ok {
			continue
		}
		if entry, ok := a.mockEntry(ctx, symbol, prefs); ok {
			book[symbol] = entry
		}
	}

	if len(book) == 0 {
		if timeouts > 0 && timeouts == failures {
			return nil, fmt.Errorf("all price sources timed out: %w", domain.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("no price source answered for %v: %w", symbols, domain.ErrSourceUnavailable)
	}
	return book, nil
}

// fetchOne queries a single source under its own timeout. Equity
// sources with session-state support are asked for the extended quote
// first and fall back to the plain one.
func (a *Aggregator) fetchOne(ctx context.Context, symbol string, priority int, src QuoteSource) fetchResult {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if ext, ok := src.(ExtendedQuoteSource); ok && !domain.IsCrypto(symbol) {
		if eq, err := ext.ExtendedQuote(ctx, symbol); err == nil {
			return fetchResult{
				symbol:   symbol,
				priority: priority,
				entry:    domain.BookEntry{Price: eq.Price, Extended: eq},
			}
		}
	}

	q, err := src.Quote(ctx, symbol)
	if err != nil {
		return fetchResult{
			symbol:   symbol,
			priority: priority,
			err:      fmt.Errorf("%s: %w", src.Name(), err),
			timedOut: errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded),
		}
	}
	return fetchResult{symbol: symbol, priority: priority, entry: domain.BookEntry{Price: q.Price}}
}

func (a *Aggregator) mockEntry(ctx context.Context, symbol string, prefs Preferences) (domain.BookEntry, bool) {
	named := false
	for _, name := range prefs.For(symbol) {
		if name == mockSourceName {
			named = true
			break
		}
	}
	if !named {
		return domain.BookEntry{}, false
	}
	src, ok := a.registry.quotes[mockSourceName]
	if !ok {
		return domain.BookEntry{}, false
	}
	q, err := src.Quote(ctx, symbol)
	if err != nil {
		return domain.BookEntry{}, false
	}
	log.Printf("mock price engaged for %s", symbol)
	return domain.BookEntry{Price: q.Price}, true
}
