package sentiment

import (
	"sort"

	"miner-pulse/internal/domain"
)

// AggregateConfig carries the tunable parts of the aggregation rule.
// Zero values take the documented defaults.
type AggregateConfig struct {
	// LabelThreshold buckets aggregate scores: above it Bullish, below
	// its negation Bearish. Default 0.2.
	LabelThreshold float64
	// TrendWeight is the share of the composite taken by the technical
	// trend score; the text score gets the rest. Nil takes the default
	// 0.5 (an assumed split, not a confirmed requirement); an explicit
	// 0 composes from the text score alone.
	TrendWeight *float64
	// DisplayCount caps the item list returned for display. Default 10.
	// Items beyond the cap still count toward the score.
	DisplayCount int
}

const (
	defaultLabelThreshold = 0.2
	defaultTrendWeight    = 0.5
	defaultDisplayCount   = 10
)

func (c AggregateConfig) withDefaults() AggregateConfig {
	if c.LabelThreshold <= 0 {
		c.LabelThreshold = defaultLabelThreshold
	}
	if c.TrendWeight == nil || *c.TrendWeight < 0 || *c.TrendWeight > 1 {
		w := defaultTrendWeight
		c.TrendWeight = &w
	}
	if c.DisplayCount <= 0 {
		c.DisplayCount = defaultDisplayCount
	}
	return c
}

// Aggregate folds scored items and a trend score into one result. The
// text score is an engagement-weighted mean with weight 1 + e/maxE, so
// zero-engagement items still count fully and no weight exceeds 2.
func Aggregate(ticker string, items []domain.SentimentItem, trendScore float64, cfg AggregateConfig) domain.SentimentResult {
	cfg = cfg.withDefaults()

	raw := weightedMean(items)
	trend := clamp(trendScore, -1, 1)
	tw := *cfg.TrendWeight
	composite := clamp(tw*trend+(1-tw)*raw, -1, 1)

	display := make([]domain.SentimentItem, len(items))
	copy(display, items)
	sort.SliceStable(display, func(i, j int) bool {
		return display[i].PublishedAt.After(display[j].PublishedAt)
	})
	if len(display) > cfg.DisplayCount {
		display = display[:cfg.DisplayCount]
	}

	return domain.SentimentResult{
		Ticker:         ticker,
		Score:          raw,
		Label:          domain.LabelForScore(raw, cfg.LabelThreshold),
		TrendScore:     trend,
		TrendLabel:     domain.LabelForScore(trend, cfg.LabelThreshold),
		CompositeScore: composite,
		CompositeLabel: domain.LabelForScore(composite, cfg.LabelThreshold),
		ItemCount:      len(items),
		Items:          display,
	}
}

func weightedMean(items []domain.SentimentItem) float64 {
	if len(items) == 0 {
		return 0
	}

	maxEngagement := 0
	for _, item := range items {
		if item.Engagement > maxEngagement {
			maxEngagement = item.Engagement
		}
	}

	var sum, weightSum float64
	for _, item := range items {
		weight := 1.0
		if maxEngagement > 0 && item.Engagement > 0 {
			weight += float64(item.Engagement) / float64(maxEngagement)
		}
		sum += weight * clamp(item.Score, -1, 1)
		weightSum += weight
	}
	if weightSum == 0 {
		return 0
	}
	return clamp(sum/weightSum, -1, 1)
}
