// Package marketdata merges the individual upstream providers into one
// price surface: a priority-ordered snapshot aggregator and an aligned
// historical series provider.
package marketdata

import (
	"context"
	"log"
	"sort"
	"strings"

	"miner-pulse/internal/domain"
)

// QuoteSource is one upstream capable of a current price. Implemented
// by the provider package; the registry only cares about the contract.
type QuoteSource interface {
	Name() string
	Supports(symbol string) bool
	Quote(ctx context.Context, symbol string) (*domain.Quote, error)
}

// ExtendedQuoteSource is an optional capability: session state and
// pre/post-market prices alongside the plain quote.
type ExtendedQuoteSource interface {
	ExtendedQuote(ctx context.Context, symbol string) (*domain.ExtendedQuote, error)
}

// SeriesSource is one upstream capable of daily close history.
type SeriesSource interface {
	Name() string
	Supports(symbol string) bool
	DailyCloses(ctx context.Context, symbol string, days int) (domain.PriceSeries, error)
}

// Preferences enumerates, per asset class, source names in the order
// they should be tried. Earlier wins on conflict.
type Preferences struct {
	Crypto []string
	Equity []string
}

// For returns the ordered source names for one symbol's asset class.
func (p Preferences) For(symbol string) []string {
	if domain.IsCrypto(symbol) {
		return p.Crypto
	}
	return p.Equity
}

// Fingerprint folds a preference set into a short cache-key component
// so differently-configured callers never share cached entries.
func (p Preferences) Fingerprint() string {
	return strings.Join(p.Crypto, ",") + "|" + strings.Join(p.Equity, ",")
}

// DefaultPreferences mirrors the out-of-the-box chain: direct exchange
// first, keyed broker second, free fallback third, mock last resort.
func DefaultPreferences() Preferences {
	return Preferences{
		Crypto: []string{"binance", "coingecko", "yahoo", "mock"},
		Equity: []string{"finnhub", "yahoo", "mock"},
	}
}

// Registry holds the configured sources by name. Chains are resolved
// from a preference list at call time, never by runtime type checks.
type Registry struct {
	quotes map[string]QuoteSource
	series map[string]SeriesSource
}

func NewRegistry() *Registry {
	return &Registry{
		quotes: make(map[string]QuoteSource),
		series: make(map[string]SeriesSource),
	}
}

// RegisterQuotes adds a quote source under its own name. If the source
// also serves daily closes it is registered for history too.
func (r *Registry) RegisterQuotes(src QuoteSource) {
	r.quotes[src.Name()] = src
	if s, ok := src.(SeriesSource); ok {
		r.series[s.Name()] = s
	}
}

// RegisterSeries adds a history-only source.
func (r *Registry) RegisterSeries(src SeriesSource) {
	r.series[src.Name()] = src
}

// QuoteChain resolves a preference list to the registered sources that
// support symbol, preserving priority order. Unknown names are logged
// once per call and skipped.
func (r *Registry) QuoteChain(symbol string, prefs []string) []QuoteSource {
	chain := make([]QuoteSource, 0, len(prefs))
	for _, name := range prefs {
		src, ok := r.quotes[name]
		if !ok {
			log.Printf("price source %q not registered, skipping", name)
			continue
		}
		if !src.Supports(symbol) {
			continue
		}
		chain = append(chain, src)
	}
	return chain
}

// SeriesChain is QuoteChain for history sources.
func (r *Registry) SeriesChain(symbol string, prefs []string) []SeriesSource {
	chain := make([]SeriesSource, 0, len(prefs))
	for _, name := range prefs {
		src, ok := r.series[name]
		if !ok {
			log.Printf("history source %q not registered, skipping", name)
			continue
		}
		if !src.Supports(symbol) {
			continue
		}
		chain = append(chain, src)
	}
	return chain
}

// SourceNames lists every registered quote source, sorted, for logs
// and config validation.
func (r *Registry) SourceNames() []string {
	names := make([]string, 0, len(r.quotes))
	for name := range r.quotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
