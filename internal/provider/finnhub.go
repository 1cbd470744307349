package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"miner-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubProvider fetches equity quotes from the Finnhub REST API.
// Requires an API key; without one the provider reports no support for
// any symbol so the chain skips it.
type FinnhubProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
}

func NewFinnhubProvider(apiKey string, tracer trace.Tracer) *FinnhubProvider {
	return &FinnhubProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: finnhubBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
	}
}

func (p *FinnhubProvider) Name() string { return "finnhub" }

func (p *FinnhubProvider) Supports(symbol string) bool {
	return p.apiKey != "" && !domain.IsCrypto(symbol)
}

// Quote fetches the latest quote for an equity.
func (p *FinnhubProvider) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	_, span := p.tracer.Start(ctx, "finnhub.quote")
	defer span.End()

	if p.apiKey == "" {
		return nil, fmt.Errorf("finnhub api key not configured: %w", domain.ErrSourceUnavailable)
	}
	sym := domain.NormalizeSymbol(symbol)

	u := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		strings.TrimRight(p.baseURL, "/"), url.QueryEscape(sym), url.QueryEscape(p.apiKey))
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
		return nil, fmt.Errorf("finnhub API error %d: %s", resp.StatusCode, string(body))
	}

	// Response shape: {"c":31.2,"d":0.5,"dp":1.64,"h":31.8,"l":30.4,"o":30.9,"pc":30.7,"t":1700000000}
	var payload struct {
		Current float64 `json:"c"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode finnhub response: %w", err)
	}
	// Finnhub answers unknown symbols with zeroes instead of an error.
	if payload.Current <= 0 {
		return nil, fmt.Errorf("finnhub has no quote for %s", sym)
	}

	return &domain.Quote{
		Symbol: sym,
		Price:  payload.Current,
		Source: p.Name(),
		AsOf:   time.Now().UTC(),
	}, nil
}
