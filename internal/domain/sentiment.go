package domain

import "time"

// SentimentLabel is the qualitative bucket for a score in [-1, 1].
type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "Bullish"
	SentimentBearish SentimentLabel = "Bearish"
	SentimentNeutral SentimentLabel = "Neutral"
)

// LabelForScore buckets a score using a symmetric threshold. The
// boundaries belong to the directional labels: a score of exactly
// +threshold is Bullish and exactly -threshold is Bearish, matching
// the inclusive ±0.2 and ±0.5 outlook bands.
func LabelForScore(score, threshold float64) SentimentLabel {
	switch {
	case score >= threshold:
		return SentimentBullish
	case score <= -threshold:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

const (
	ItemKindNews   = "news"
	ItemKindSocial = "social"
)

// SentimentItem is one scored piece of text about a ticker. News items
// carry Title/Provider, social items carry Content/Author.
type SentimentItem struct {
	Kind        string         `json:"type"`
	Title       string         `json:"title,omitempty"`
	Content     string         `json:"content,omitempty"`
	Provider    string         `json:"provider,omitempty"`
	Author      string         `json:"author,omitempty"`
	URL         string         `json:"url,omitempty"`
	Engagement  int            `json:"engagement"`
	PublishedAt time.Time      `json:"created_at"`
	Label       SentimentLabel `json:"sentiment"`
	Score       float64        `json:"score"`
}

// Text returns whichever of Title or Content the item carries, for
// feeding the classifier.
func (it SentimentItem) Text() string {
	if it.Title != "" {
		return it.Title
	}
	return it.Content
}

// SentimentResult is the aggregated signal for one ticker. Items holds
// only the display subset; Score is computed over every collected item.
type SentimentResult struct {
	Ticker         string          `json:"ticker"`
	Score          float64         `json:"score"`
	Label          SentimentLabel  `json:"label"`
	TrendScore     float64         `json:"trend_score"`
	TrendLabel     SentimentLabel  `json:"trend_label"`
	CompositeScore float64         `json:"composite_score"`
	CompositeLabel SentimentLabel  `json:"composite_label"`
	ItemCount      int             `json:"item_count"`
	Items          []SentimentItem `json:"items"`
}

// Outlook grades a composite score into the five bands the prediction
// multiplier is keyed on.
type Outlook string

const (
	OutlookVeryBearish Outlook = "Very Bearish"
	OutlookBearish     Outlook = "Bearish"
	OutlookNeutral     Outlook = "Neutral"
	OutlookBullish     Outlook = "Bullish"
	OutlookVeryBullish Outlook = "Very Bullish"
)

// ImpactMultiplier scales predictions by outlook band.
var ImpactMultiplier = map[Outlook]float64{
	OutlookVeryBearish: 0.70,
	OutlookBearish:     0.85,
	OutlookNeutral:     1.00,
	OutlookBullish:     1.15,
	OutlookVeryBullish: 1.30,
}

// OutlookForScore bands a composite score at ±0.2 and ±0.5.
func OutlookForScore(score float64) Outlook {
	switch {
	case score >= 0.5:
		return OutlookVeryBullish
	case score >= 0.2:
		return OutlookBullish
	case score <= -0.5:
		return OutlookVeryBearish
	case score <= -0.2:
		return OutlookBearish
	default:
		return OutlookNeutral
	}
}

// MultiplierForScore resolves the prediction multiplier for a composite
// sentiment score.
func MultiplierForScore(score float64) float64 {
	return ImpactMultiplier[OutlookForScore(score)]
}
