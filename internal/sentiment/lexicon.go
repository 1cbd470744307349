package sentiment

import (
	"context"
	"math"
	"strings"

	"miner-pulse/internal/domain"
)

// valence maps market vocabulary to a signed strength. Positive means
// bullish. Values follow the usual lexicon convention of roughly
// [-4, 4] before normalization.
var valence = map[string]float64{
	"bull":         2.4,
	"bullish":      2.8,
	"breakout":     2.2,
	"surge":        2.4,
	"surges":       2.4,
	"soar":         2.6,
	"soars":        2.6,
	"rally":        2.2,
	"rallies":      2.2,
	"moon":         2.0,
	"gain":         1.6,
	"gains":        1.6,
	"growth":       1.5,
	"profit":       1.6,
	"profits":      1.6,
	"beat":         1.8,
	"beats":        1.8,
	"upgrade":      2.0,
	"upgraded":     2.0,
	"buy":          1.4,
	"buying":       1.4,
	"long":         1.0,
	"longs":        1.0,
	"adoption":     1.6,
	"uptrend":      2.0,
	"recover":      1.5,
	"recovers":     1.5,
	"recovery":     1.5,
	"record":       1.4,
	"strong":       1.4,
	"strength":     1.4,
	"accumulate":   1.2,
	"undervalued":  1.6,
	"outperform":   1.8,
	"bear":         -2.4,
	"bearish":      -2.8,
	"dump":         -2.4,
	"dumps":        -2.4,
	"crash":        -3.0,
	"crashes":      -3.0,
	"plunge":       -2.8,
	"plunges":      -2.8,
	"sell":         -1.4,
	"selling":      -1.4,
	"selloff":      -2.2,
	"short":        -1.0,
	"shorts":       -1.0,
	"loss":         -1.6,
	"losses":       -1.6,
	"miss":         -1.8,
	"misses":       -1.8,
	"downgrade":    -2.0,
	"downgraded":   -2.0,
	"lawsuit":      -1.8,
	"hack":         -2.4,
	"hacked":       -2.4,
	"ban":          -2.0,
	"banned":       -2.0,
	"bankruptcy":   -3.2,
	"dilution":     -1.8,
	"downtrend":    -2.0,
	"decline":      -1.6,
	"declines":     -1.6,
	"weak":         -1.4,
	"weakness":     -1.4,
	"liquidation":  -2.2,
	"liquidations": -2.2,
	"overvalued":   -1.6,
	"fear":         -1.2,
	"risk":         -0.8,
	"warning":      -1.4,
	"fraud":        -2.8,
}

// negators flip the sign of the next sentiment-bearing token.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "isnt": {}, "wasnt": {}, "dont": {},
	"doesnt": {}, "wont": {}, "cant": {}, "without": {},
}

// boosters scale the next sentiment-bearing token.
var boosters = map[string]float64{
	"very": 1.3, "huge": 1.3, "massive": 1.4, "big": 1.2,
	"slightly": 0.7, "somewhat": 0.8, "barely": 0.6,
}

// lexiconNormalizer is the damping constant in score = s/sqrt(s²+a),
// mapping an unbounded valence sum into (-1, 1).
const lexiconNormalizer = 15.0

// LexiconClassifier scores text deterministically from the valence
// table. It is the fallback when no model is configured and the
// baseline the model classifier starts from.
type LexiconClassifier struct{}

func NewLexiconClassifier() *LexiconClassifier { return &LexiconClassifier{} }

func (c *LexiconClassifier) Classify(_ context.Context, items []domain.SentimentItem) []domain.SentimentItem {
	out := make([]domain.SentimentItem, len(items))
	for i, item := range items {
		score := ScoreText(item.Text())
		item.Score = score
		item.Label = itemLabel(score)
		out[i] = item
	}
	return out
}

// ScoreText scores one piece of text in [-1, 1]. Empty or unscorable
// text is 0.
func ScoreText(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	negWindow := 0 // tokens left in which a negator still flips
	boost := 1.0
	for _, tok := range tokens {
		if _, ok := negators[tok]; ok {
			negWindow = 3
			continue
		}
		if b, ok := boosters[tok]; ok {
			boost *= b
			continue
		}
		v, ok := valence[tok]
		if !ok {
			if negWindow > 0 {
				negWindow--
			}
			boost = 1.0
			continue
		}
		v *= boost
		if negWindow > 0 {
			v = -v
			negWindow = 0
		}
		sum += v
		boost = 1.0
	}
	if sum == 0 {
		return 0
	}
	return clamp(sum/math.Sqrt(sum*sum+lexiconNormalizer), -1, 1)
}

func tokenize(text string) []string {
	text = strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '\'':
			// drop apostrophes so "isn't" folds to "isnt"
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}
