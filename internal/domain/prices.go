package domain

import (
	"math"
	"sort"
	"time"
)

// PricePoint is one observation in a daily close series. A zero or
// negative Value marks a missing observation and is skipped by the
// series helpers.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// PriceSeries is a symbol's daily close history, ascending in time with
// unique timestamps. Build one with NewPriceSeries to get that guarantee.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// NewPriceSeries sorts points ascending and drops duplicate timestamps,
// keeping the last value seen for a given instant.
func NewPriceSeries(symbol string, points []PricePoint) PriceSeries {
	sorted := make([]PricePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	out := sorted[:0]
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Time.Equal(p.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return PriceSeries{Symbol: symbol, Points: out}
}

// Closes returns the positive close values in order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Value > 0 {
			out = append(out, p.Value)
		}
	}
	return out
}

// Len reports the number of points, missing ones included.
func (s PriceSeries) Len() int { return len(s.Points) }

// Last returns the most recent positive close, or false when the series
// holds none.
func (s PriceSeries) Last() (float64, bool) {
	for i := len(s.Points) - 1; i >= 0; i-- {
		if s.Points[i].Value > 0 {
			return s.Points[i].Value, true
		}
	}
	return 0, false
}

// LogReturns computes ln(p_t / p_{t-1}) over consecutive positive closes.
func LogReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		out = append(out, math.Log(closes[i]/closes[i-1]))
	}
	return out
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// AlignDaily intersects two series on UTC calendar day and returns the
// paired positive closes in ascending date order. Days missing from
// either side, or with a non-positive value on either side, are dropped.
func AlignDaily(a, b PriceSeries) (as, bs []float64) {
	byDay := make(map[string]float64, len(b.Points))
	for _, p := range b.Points {
		if p.Value > 0 {
			byDay[dayKey(p.Time)] = p.Value
		}
	}
	for _, p := range a.Points {
		if p.Value <= 0 {
			continue
		}
		if v, ok := byDay[dayKey(p.Time)]; ok {
			as = append(as, p.Value)
			bs = append(bs, v)
		}
	}
	return as, bs
}
