package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"miner-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches crypto prices and daily history from the
// CoinGecko free API.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a new provider with built-in rate limiting.
// Rate limited to 8 requests per minute (one token every 7.5 seconds).
func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

func (p *CoinGeckoProvider) Name() string { return "coingecko" }

func (p *CoinGeckoProvider) Supports(symbol string) bool {
	_, ok := domain.CoinGeckoID[domain.NormalizeSymbol(symbol)]
	return ok
}

// Quote fetches the current USD price for one crypto symbol.
func (p *CoinGeckoProvider) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	_, span := p.tracer.Start(ctx, "coingecko.quote")
	defer span.End()

	sym := domain.NormalizeSymbol(symbol)
	cgID, ok := domain.CoinGeckoID[sym]
	if !ok {
		return nil, fmt.Errorf("coingecko has no id for %s: %w", symbol, domain.ErrInvalidInput)
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", p.baseURL, cgID)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch price: %w", err)
	}

	// Response shape: {"bitcoin": {"usd": 97000}}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	price := raw[cgID]["usd"]
	if price <= 0 {
		return nil, fmt.Errorf("coingecko returned no usd price for %s", cgID)
	}

	return &domain.Quote{
		Symbol: sym,
		Price:  price,
		Source: p.Name(),
		AsOf:   time.Now().UTC(),
	}, nil
}

// DailyCloses fetches up to days of daily close prices for a crypto
// symbol from the market_chart endpoint.
func (p *CoinGeckoProvider) DailyCloses(ctx context.Context, symbol string, days int) (domain.PriceSeries, error) {
	_, span := p.tracer.Start(ctx, "coingecko.daily-closes")
	defer span.End()

	sym := domain.NormalizeSymbol(symbol)
	cgID, ok := domain.CoinGeckoID[sym]
	if !ok {
		return domain.PriceSeries{}, fmt.Errorf("coingecko has no id for %s: %w", symbol, domain.ErrInvalidInput)
	}
	if days <= 0 {
		days = 365
	}

	url := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		p.baseURL, cgID, days)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("fetch market chart for %s: %w", sym, err)
	}

	// Response shape: {"prices": [[ts_ms, price], ...], ...}
	var raw struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.PriceSeries{}, fmt.Errorf("parse market chart for %s: %w", sym, err)
	}

	points := make([]domain.PricePoint, 0, len(raw.Prices))
	for _, pt := range raw.Prices {
		if len(pt) < 2 || pt[1] <= 0 {
			continue
		}
		points = append(points, domain.PricePoint{
			Time:  time.UnixMilli(int64(pt[0])).UTC(),
			Value: pt[1],
		})
	}
	return domain.NewPriceSeries(sym, points), nil
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
