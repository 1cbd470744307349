// Package sentiment turns raw news and social text into scored items
// and blends them with a price-trend signal into one composite market
// read.
package sentiment

import (
	"context"
	"math"

	"miner-pulse/internal/domain"
)

// itemLabelThreshold buckets a single item's score into a label. This
// is the conventional lexicon cutoff, separate from the configurable
// aggregate-level threshold.
const itemLabelThreshold = 0.05

// Classifier fills Label and Score on skeleton sentiment items. The
// input order is preserved. Implementations never fail: an item that
// cannot be scored comes back Neutral with score 0.
type Classifier interface {
	Classify(ctx context.Context, items []domain.SentimentItem) []domain.SentimentItem
}

func itemLabel(score float64) domain.SentimentLabel {
	return domain.LabelForScore(score, itemLabelThreshold)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
