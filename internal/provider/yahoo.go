package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"miner-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	yahooChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooQuoteBaseURL = "https://query1.finance.yahoo.com/v7/finance/quote"
	// Yahoo rejects the default Go user agent.
	yahooUserAgent = "Mozilla/5.0"
)

// YahooProvider fetches quotes, session state and daily history from
// the Yahoo Finance public endpoints. Works for both equities and
// -USD crypto symbols, no key required.
type YahooProvider struct {
	client       *http.Client
	chartBaseURL string
	quoteBaseURL string
	tracer       trace.Tracer
	limiter      *RateLimiter
}

func NewYahooProvider(tracer trace.Tracer) *YahooProvider {
	return &YahooProvider{
		client:       &http.Client{Timeout: 30 * time.Second},
		chartBaseURL: yahooChartBaseURL,
		quoteBaseURL: yahooQuoteBaseURL,
		tracer:       tracer,
		limiter:      NewRateLimiter(10, 500*time.Millisecond),
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func (p *YahooProvider) Supports(string) bool { return true }

type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote fetches the latest regular-session price from the chart meta.
func (p *YahooProvider) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	_, span := p.tracer.Start(ctx, "yahoo.quote")
	defer span.End()

	sym := domain.NormalizeSymbol(symbol)
	chart, err := p.fetchChart(ctx, sym, "1d")
	if err != nil {
		return nil, err
	}
	price := chart.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return nil, fmt.Errorf("yahoo has no price for %s", sym)
	}
	return &domain.Quote{
		Symbol: sym,
		Price:  price,
		Source: p.Name(),
		AsOf:   time.Now().UTC(),
	}, nil
}

// ExtendedQuote fetches price plus session state and off-hours prices
// from the quote endpoint.
func (p *YahooProvider) ExtendedQuote(ctx context.Context, symbol string) (*domain.ExtendedQuote, error) {
	_, span := p.tracer.Start(ctx, "yahoo.extended-quote")
	defer span.End()

	sym := domain.NormalizeSymbol(symbol)
	u := fmt.Sprintf("%s?symbols=%s", p.quoteBaseURL, url.QueryEscape(sym))
	body, err := p.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", sym, err)
	}

	var payload struct {
		QuoteResponse struct {
			Result []struct {
				Symbol                     string  `json:"symbol"`
				MarketState                string  `json:"marketState"`
				RegularMarketPrice         float64 `json:"regularMarketPrice"`
				RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
				PreMarketPrice             float64 `json:"preMarketPrice"`
				PostMarketPrice            float64 `json:"postMarketPrice"`
			} `json:"result"`
		} `json:"quoteResponse"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode quote for %s: %w", sym, err)
	}
	if len(payload.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("yahoo has no quote for %s", sym)
	}
	row := payload.QuoteResponse.Result[0]
	if row.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("yahoo returned non-positive price for %s", sym)
	}

	return &domain.ExtendedQuote{
		Quote: domain.Quote{
			Symbol: sym,
			Price:  row.RegularMarketPrice,
			Source: p.Name(),
			AsOf:   time.Now().UTC(),
		},
		MarketState:     domain.NormalizeMarketState(row.MarketState, nil),
		PreMarketPrice:  row.PreMarketPrice,
		PostMarketPrice: row.PostMarketPrice,
		ChangePct:       row.RegularMarketChangePercent,
	}, nil
}

// DailyCloses fetches up to days of daily closes. Null bars (holidays,
// halts) are skipped.
func (p *YahooProvider) DailyCloses(ctx context.Context, symbol string, days int) (domain.PriceSeries, error) {
	_, span := p.tracer.Start(ctx, "yahoo.daily-closes")
	defer span.End()

	sym := domain.NormalizeSymbol(symbol)
	if days <= 0 {
		days = 365
	}
	chart, err := p.fetchChart(ctx, sym, yahooRange(days))
	if err != nil {
		return domain.PriceSeries{}, err
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return domain.PriceSeries{}, fmt.Errorf("yahoo chart for %s has no quote block", sym)
	}
	closes := result.Indicators.Quote[0].Close
	points := make([]domain.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		points = append(points, domain.PricePoint{
			Time:  time.Unix(ts, 0).UTC(),
			Value: *closes[i],
		})
	}
	if len(points) > days {
		points = points[len(points)-days:]
	}
	return domain.NewPriceSeries(sym, points), nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=%s", p.chartBaseURL, url.PathEscape(symbol), rng)
	body, err := p.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w", symbol, err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("decode chart for %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo API error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart for %s is empty", symbol)
	}
	return &chart, nil
}

func (p *YahooProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("yahoo API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// yahooRange buckets a day count into the closest Yahoo range param.
func yahooRange(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}
