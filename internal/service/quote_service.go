package service

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"time"

	"miner-pulse/internal/domain"
	"miner-pulse/internal/marketdata"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

// DefaultQuoteCacheTTL keeps quotes just long enough to absorb bursts
// of requests without hammering upstream rate limits.
const DefaultQuoteCacheTTL = 30 * time.Second

// Snapshotter is the aggregator surface the quote service needs.
type Snapshotter interface {
	Snapshot(ctx context.Context, symbols []string, prefs marketdata.Preferences) (domain.PriceBook, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// QuoteService is a read-through cache in front of the price
// aggregator. A nil Redis client degrades to direct fetches.
type QuoteService struct {
	tracer    trace.Tracer
	agg       Snapshotter
	redis     RedisClient
	prefs     marketdata.Preferences
	ttl       time.Duration
	watchlist []string
	keyPrefix string
}

func NewQuoteService(
	tracer trace.Tracer,
	agg Snapshotter,
	redisClient RedisClient,
	prefs marketdata.Preferences,
	ttl time.Duration,
	watchlist []string,
) *QuoteService {
	if ttl <= 0 {
		ttl = DefaultQuoteCacheTTL
	}
	if len(watchlist) == 0 {
		watchlist = domain.DefaultWatchlist
	}
	h := fnv.New32a()
	h.Write([]byte(prefs.Fingerprint()))
	return &QuoteService{
		tracer:    tracer,
		agg:       agg,
		redis:     redisClient,
		prefs:     prefs,
		ttl:       ttl,
		watchlist: watchlist,
		// Keys carry the preference-set fingerprint so two deployments
		// with different chains never read each other's entries.
		keyPrefix: fmt.Sprintf("quote:%08x:", h.Sum32()),
	}
}

// Watchlist returns the symbols refreshed by default.
func (s *QuoteService) Watchlist() []string {
	out := make([]string, len(s.watchlist))
	copy(out, s.watchlist)
	return out
}

// Book prices the requested symbols, serving from cache where fresh
// and fetching the rest in one aggregator call.
func (s *QuoteService) Book(ctx context.Context, symbols []string) (domain.PriceBook, error) {
	ctx, span := s.tracer.Start(ctx, "quote-service.book")
	defer span.End()

	if len(symbols) == 0 {
		symbols = s.watchlist
	}

	book := make(domain.PriceBook, len(symbols))
	var missing []string
	for _, raw := range symbols {
		symbol := domain.NormalizeSymbol(raw)
		if entry, ok := s.cachedEntry(ctx, symbol); ok {
			book[symbol] = entry
			continue
		}
		missing = append(missing, symbol)
	}

	if len(missing) > 0 {
		fetched, err := s.agg.Snapshot(ctx, missing, s.prefs)
		if err != nil && len(book) == 0 {
			return nil, err
		}
		if err != nil {
			log.Printf("quote fetch degraded to cached entries only: %v", err)
		}
		for symbol, entry := range fetched {
			book[symbol] = entry
			s.cacheEntry(ctx, symbol, entry)
		}
	}

	if len(book) == 0 {
		return nil, fmt.Errorf("no quotes for %v: %w", symbols, domain.ErrSourceUnavailable)
	}
	return book, nil
}

// Quote prices one symbol through the same read-through path.
func (s *QuoteService) Quote(ctx context.Context, symbol string) (domain.BookEntry, error) {
	symbol = domain.NormalizeSymbol(symbol)
	book, err := s.Book(ctx, []string{symbol})
	if err != nil {
		return domain.BookEntry{}, err
	}
	entry, ok := book[symbol]
	if !ok {
		return domain.BookEntry{}, fmt.Errorf("no quote for %s: %w", symbol, domain.ErrSourceUnavailable)
	}
	return entry, nil
}

// Refresh fetches the whole watchlist and rewrites the cache. Used by
// the background poller to keep reads warm.
func (s *QuoteService) Refresh(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "quote-service.refresh")
	defer span.End()

	book, err := s.agg.Snapshot(ctx, s.watchlist, s.prefs)
	if err != nil {
		return err
	}
	for symbol, entry := range book {
		s.cacheEntry(ctx, symbol, entry)
	}
	log.Printf("Refreshed quotes for %d of %d watchlist symbols", len(book), len(s.watchlist))
	return nil
}

func (s *QuoteService) cachedEntry(ctx context.Context, symbol string) (domain.BookEntry, bool) {
	if s.redis == nil {
		return domain.BookEntry{}, false
	}
	data, err := s.redis.Get(ctx, s.keyPrefix+symbol).Bytes()
	if err == redis.Nil {
		return domain.BookEntry{}, false
	}
	if err != nil {
		log.Printf("redis cache read error: %v", err)
		return domain.BookEntry{}, false
	}
	var entry domain.BookEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("corrupt cached quote for %s: %v", symbol, err)
		return domain.BookEntry{}, false
	}
	return entry, true
}

func (s *QuoteService) cacheEntry(ctx context.Context, symbol string, entry domain.BookEntry) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, s.keyPrefix+symbol, data, s.ttl).Err(); err != nil {
		log.Printf("redis cache write error for %s: %v", symbol, err)
	}
}
