package provider

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"miner-pulse/internal/domain"
)

// MockProvider serves deterministic synthetic prices so the pipeline
// keeps working when no real source is reachable or configured. The
// same symbol, day and window always produce the same values.
type MockProvider struct{}

func NewMockProvider() *MockProvider { return &MockProvider{} }

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) Supports(string) bool { return true }

var mockBasePrice = map[string]float64{
	"BTC-USD": 65000,
	"ETH-USD": 3200,
	"IREN":    12.40,
	"APLD":    8.15,
	"HUT":     18.60,
	"MARA":    19.75,
	"CLSK":    16.30,
	"COIN":    245.00,
	"MSTR":    1450.00,
}

const mockDefaultBase = 25.0

// mockPhase derives a stable per-symbol phase so different symbols ride
// the same cycle with an offset, which keeps their mock series
// correlated but not identical.
func mockPhase(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return float64(h.Sum32()%360) * math.Pi / 180
}

func mockValue(symbol string, day int64) float64 {
	base, ok := mockBasePrice[domain.NormalizeSymbol(symbol)]
	if !ok {
		base = mockDefaultBase
	}
	cycle := math.Sin(2*math.Pi*float64(day)/28 + mockPhase(symbol))
	return base * (1 + 0.08*cycle)
}

func (p *MockProvider) Quote(_ context.Context, symbol string) (*domain.Quote, error) {
	now := time.Now().UTC()
	return &domain.Quote{
		Symbol: domain.NormalizeSymbol(symbol),
		Price:  mockValue(symbol, now.Unix()/86400),
		Source: p.Name(),
		AsOf:   now,
	}, nil
}

func (p *MockProvider) DailyCloses(_ context.Context, symbol string, days int) (domain.PriceSeries, error) {
	if days <= 0 {
		days = 365
	}
	sym := domain.NormalizeSymbol(symbol)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	points := make([]domain.PricePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		t := today.AddDate(0, 0, -i)
		points = append(points, domain.PricePoint{
			Time:  t,
			Value: mockValue(sym, t.Unix()/86400),
		})
	}
	return domain.NewPriceSeries(sym, points), nil
}

var mockPostTexts = []string{
	"%s breakout continues, longs adding into strength. Big rally ahead.",
	"Loaded up more %s today, this growth story is just getting started.",
	"%s volume drying up, could go either way from here.",
	"Cutting my %s position, chart looks weak and momentum is fading fast.",
	"Watching %s around these levels, no strong conviction yet.",
}

// MockSocialPosts returns deterministic canned posts about a query,
// used when the social source is unreachable or unconfigured.
func MockSocialPosts(query string, limit int) []ContentItem {
	if limit <= 0 {
		limit = 10
	}
	now := time.Now().UTC()
	items := make([]ContentItem, 0, limit)
	for i := 0; i < limit; i++ {
		text := fmt.Sprintf(mockPostTexts[i%len(mockPostTexts)], query)
		items = append(items, ContentItem{
			Source:       "mock",
			SourceItemID: fmt.Sprintf("mock-%s-%d", query, i),
			Title:        "",
			URL:          "",
			Excerpt:      text,
			Author:       fmt.Sprintf("user_%d", i),
			PublishedAt:  now.Add(-time.Duration(i) * time.Hour),
			Engagement:   24 * (i%len(mockPostTexts) + 1),
		})
	}
	return items
}
