package sentiment

import (
	"math"

	"miner-pulse/internal/ta"
)

const (
	fastEMAPeriod = 10
	slowEMAPeriod = 30
	rsiPeriod     = 14

	// trendSpreadGain scales the relative EMA spread before squashing:
	// a ~8% spread between the fast and slow EMA saturates the signal.
	trendSpreadGain = 12.0

	rsiOverbought = 70.0
	rsiOversold   = 30.0
)

// TrendScore reads a technical trend signal in [-1, 1] off daily
// closes: the 10/30 EMA crossover spread squashed with tanh, damped by
// half when RSI(14) says the move is already stretched. Too little
// history scores 0 (neutral), never an error.
func TrendScore(closes []float64) float64 {
	if len(closes) <= slowEMAPeriod {
		return 0
	}

	fast := ta.EMASeries(closes, fastEMAPeriod)
	slow := ta.EMASeries(closes, slowEMAPeriod)
	last := len(closes) - 1
	if slow[last] <= 0 {
		return 0
	}

	spread := (fast[last] - slow[last]) / slow[last]
	score := math.Tanh(spread * trendSpreadGain)

	if rsi := ta.RSISeries(closes, rsiPeriod); rsi != nil {
		latest := rsi[len(rsi)-1]
		if !math.IsNaN(latest) {
			if score > 0 && latest >= rsiOverbought {
				score *= 0.5
			}
			if score < 0 && latest <= rsiOversold {
				score *= 0.5
			}
		}
	}
	return clamp(score, -1, 1)
}
