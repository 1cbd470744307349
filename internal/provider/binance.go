package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"miner-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const binanceBaseURL = "https://api.binance.com"

// BinanceProvider fetches spot prices from the Binance public API. No
// key required; crypto symbols only.
type BinanceProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewBinanceProvider(tracer trace.Tracer) *BinanceProvider {
	return &BinanceProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: binanceBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(20, 100*time.Millisecond),
	}
}

func (p *BinanceProvider) Name() string { return "binance" }

func (p *BinanceProvider) Supports(symbol string) bool {
	_, ok := domain.BinanceSymbol[domain.NormalizeSymbol(symbol)]
	return ok
}

// Quote fetches the latest spot price for a crypto symbol.
func (p *BinanceProvider) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	_, span := p.tracer.Start(ctx, "binance.quote")
	defer span.End()

	pair, ok := domain.BinanceSymbol[domain.NormalizeSymbol(symbol)]
	if !ok {
		return nil, fmt.Errorf("binance has no pair for %s: %w", symbol, domain.ErrInvalidInput)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := strings.TrimRight(p.baseURL, "/") + "/api/v3/ticker/price?symbol=" + pair
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("binance API error %d: %s", resp.StatusCode, string(body))
	}

	// Response shape: {"symbol":"BTCUSDT","price":"97123.45000000"}
	var payload struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode binance response: %w", err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(payload.Price), 64)
	if err != nil {
		return nil, fmt.Errorf("parse binance price: %w", err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("binance returned non-positive price %v for %s", price, pair)
	}

	return &domain.Quote{
		Symbol: domain.NormalizeSymbol(symbol),
		Price:  price,
		Source: p.Name(),
		AsOf:   time.Now().UTC(),
	}, nil
}
