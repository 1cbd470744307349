package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// QuoteRefresher warms the quote cache for the configured watchlist.
type QuoteRefresher interface {
	Refresh(ctx context.Context) error
}

// PricePoller keeps the watchlist quote cache warm so dashboard reads
// rarely hit the upstream sources.
type PricePoller struct {
	tracer       trace.Tracer
	quotes       QuoteRefresher
	pollInterval time.Duration
}

func NewPricePoller(tracer trace.Tracer, quotes QuoteRefresher, pollIntervalSecs int) *PricePoller {
	return &PricePoller{
		tracer:       tracer,
		quotes:       quotes,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start launches the polling goroutine. Blocks until ctx is cancelled.
func (p *PricePoller) Start(ctx context.Context) {
	log.Println("Price poller starting...")

	go p.pollLoop(ctx, "watchlist-quotes", p.pollInterval, func(ctx context.Context) error {
		return p.quotes.Refresh(ctx)
	})

	<-ctx.Done()
	log.Println("Price poller stopped")
}

func (p *PricePoller) pollLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	// Run immediately on start
	if err := fn(ctx); err != nil {
		log.Printf("poller %s initial run error: %v", name, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				log.Printf("poller %s error: %v", name, err)
			}
		}
	}
}
