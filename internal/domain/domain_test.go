package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewPriceSeriesSortsAndDedups(t *testing.T) {
	t.Parallel()
	s := NewPriceSeries("IREN", []PricePoint{
		{Time: day("2025-01-03"), Value: 12},
		{Time: day("2025-01-01"), Value: 10},
		{Time: day("2025-01-01"), Value: 10.5},
		{Time: day("2025-01-02"), Value: 11},
	})
	if s.Len() != 3 {
		t.Fatalf("expected 3 points after dedup, got %d", s.Len())
	}
	if s.Points[0].Value != 10.5 {
		t.Errorf("dedup should keep the last value for a timestamp, got %v", s.Points[0].Value)
	}
	if !s.Points[0].Time.Before(s.Points[1].Time) || !s.Points[1].Time.Before(s.Points[2].Time) {
		t.Errorf("points not ascending: %+v", s.Points)
	}
}

func TestLogReturnsSkipsNonPositive(t *testing.T) {
	t.Parallel()
	rets := LogReturns([]float64{100, 110, 0, 121})
	if len(rets) != 1 {
		t.Fatalf("expected 1 return across the gap, got %d: %v", len(rets), rets)
	}
	want := math.Log(110.0 / 100.0)
	if math.Abs(rets[0]-want) > 1e-12 {
		t.Errorf("return = %v, want %v", rets[0], want)
	}
}

func TestAlignDailyIntersects(t *testing.T) {
	t.Parallel()
	btc := NewPriceSeries("BTC-USD", []PricePoint{
		{Time: day("2025-01-01"), Value: 50000},
		{Time: day("2025-01-02"), Value: 55000},
		{Time: day("2025-01-04"), Value: 60000},
	})
	stock := NewPriceSeries("IREN", []PricePoint{
		{Time: day("2025-01-01"), Value: 10},
		{Time: day("2025-01-02"), Value: 0}, // missing bar
		{Time: day("2025-01-03"), Value: 11},
		{Time: day("2025-01-04"), Value: 12},
	})
	bs, ss := AlignDaily(btc, stock)
	if len(bs) != 2 || len(ss) != 2 {
		t.Fatalf("expected 2 aligned pairs, got %d/%d", len(bs), len(ss))
	}
	if bs[0] != 50000 || ss[0] != 10 || bs[1] != 60000 || ss[1] != 12 {
		t.Errorf("aligned pairs wrong: %v %v", bs, ss)
	}
}

func TestBookEntryMarshalScalar(t *testing.T) {
	t.Parallel()
	b, err := json.Marshal(PriceBook{"BTC-USD": {Price: 64250.5}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"BTC-USD":64250.5}` {
		t.Errorf("plain entries must serialize as bare numbers, got %s", b)
	}
}

func TestBookEntryMarshalExtended(t *testing.T) {
	t.Parallel()
	entry := BookEntry{
		Price: 31.2,
		Extended: &ExtendedQuote{
			Quote:           Quote{Symbol: "IREN", Price: 31.2},
			MarketState:     MarketPost,
			PostMarketPrice: 31.9,
			ChangePct:       2.4,
		},
	}
	b, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"price":31.2`, `"market_state":"POST"`, `"post_market_price":31.9`, `"change_pct":2.4`} {
		if !strings.Contains(s, want) {
			t.Errorf("extended entry missing %s in %s", want, s)
		}
	}
	if strings.Contains(s, "pre_market_price") {
		t.Errorf("zero pre-market price should be omitted: %s", s)
	}

	var back BookEntry
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Extended == nil || back.Extended.MarketState != MarketPost {
		t.Errorf("round trip lost session data: %+v", back)
	}
}

func TestNormalizeMarketState(t *testing.T) {
	t.Parallel()
	cases := map[string]MarketState{
		"REGULAR":  MarketOpen,
		"PRE":      MarketPre,
		"POSTPOST": MarketPost,
		"CLOSED":   MarketClosed,
		"HALTED":   MarketClosed, // unknown upstream value
	}
	for in, want := range cases {
		if got := NormalizeMarketState(in, nil); got != want {
			t.Errorf("NormalizeMarketState(%q) = %q, want %q", in, got, want)
		}
	}
	override := map[string]MarketState{"HALTED": MarketClosed, "AUCTION": MarketOpen}
	if got := NormalizeMarketState("AUCTION", override); got != MarketOpen {
		t.Errorf("override table ignored, got %q", got)
	}
}

func TestLabelForScoreBoundaries(t *testing.T) {
	t.Parallel()
	if got := LabelForScore(0.2, 0.2); got != SentimentBullish {
		t.Errorf("score at +threshold must be Bullish, got %q", got)
	}
	if got := LabelForScore(-0.2, 0.2); got != SentimentBearish {
		t.Errorf("score at -threshold must be Bearish, got %q", got)
	}
	if got := LabelForScore(0.19, 0.2); got != SentimentNeutral {
		t.Errorf("score inside the band must be Neutral, got %q", got)
	}
	if got := LabelForScore(-0.19, 0.2); got != SentimentNeutral {
		t.Errorf("score inside the band must be Neutral, got %q", got)
	}
}

func TestMultiplierBands(t *testing.T) {
	t.Parallel()
	cases := []struct {
		score float64
		want  float64
	}{
		{0.75, 1.30},
		{0.5, 1.30},
		{0.3, 1.15},
		{0.1, 1.00},
		{-0.1, 1.00},
		{-0.2, 0.85},
		{-0.5, 0.70},
		{-0.9, 0.70},
	}
	for _, c := range cases {
		if got := MultiplierForScore(c.score); got != c.want {
			t.Errorf("MultiplierForScore(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}

func TestNormalizeSymbol(t *testing.T) {
	t.Parallel()
	if got := NormalizeSymbol(" btc "); got != "BTC-USD" {
		t.Errorf("NormalizeSymbol(btc) = %q", got)
	}
	if got := NormalizeSymbol("iren"); got != "IREN" {
		t.Errorf("NormalizeSymbol(iren) = %q", got)
	}
	if !IsCrypto("BTC-USD") || IsCrypto("MARA") {
		t.Errorf("IsCrypto misclassifies")
	}
}
