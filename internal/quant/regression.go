// Package quant fits the two co-movement models that drive price
// projections: a beta on log returns and a log-log power law.
package quant

import (
	"fmt"
	"math"

	"miner-pulse/internal/domain"

	"gonum.org/v1/gonum/stat"
)

// varianceEpsilon is the floor below which BTC return variance counts
// as zero and the beta denominator is considered degenerate.
const varianceEpsilon = 1e-12

// Regression holds the fitted co-movement parameters for one
// BTC/stock pair.
type Regression struct {
	Beta              float64 `json:"beta"`
	Correlation       float64 `json:"correlation"`
	PowerLawExponent  float64 `json:"power_law_exponent"`
	PowerLawIntercept float64 `json:"power_law_intercept"`
	SampleSize        int     `json:"sample_size"`
}

// Fit computes beta, Pearson correlation and the power-law parameters
// from two date-aligned close slices. btc[i] and stock[i] must be the
// same trading day; non-positive pairs are excluded from the power law.
func Fit(btc, stock []float64) (Regression, error) {
	if len(btc) != len(stock) {
		return Regression{}, fmt.Errorf("series lengths differ (%d vs %d): %w",
			len(btc), len(stock), domain.ErrInvalidInput)
	}
	if len(btc) < 2 {
		return Regression{}, fmt.Errorf("%d aligned points, need at least 2: %w",
			len(btc), domain.ErrInsufficientData)
	}

	btcRet := domain.LogReturns(btc)
	stockRet := domain.LogReturns(stock)
	if len(btcRet) < 2 || len(btcRet) != len(stockRet) {
		return Regression{}, fmt.Errorf("%d usable return pairs: %w",
			len(btcRet), domain.ErrInsufficientData)
	}

	btcVar := stat.Variance(btcRet, nil)
	if btcVar < varianceEpsilon {
		return Regression{}, fmt.Errorf("btc return variance %.3e: %w",
			btcVar, domain.ErrDegenerateInput)
	}

	beta := stat.Covariance(stockRet, btcRet, nil) / btcVar
	corr := clamp(stat.Correlation(stockRet, btcRet, nil), -1, 1)

	logBtc := make([]float64, 0, len(btc))
	logStock := make([]float64, 0, len(stock))
	for i := range btc {
		if btc[i] <= 0 || stock[i] <= 0 {
			continue
		}
		logBtc = append(logBtc, math.Log(btc[i]))
		logStock = append(logStock, math.Log(stock[i]))
	}
	if len(logBtc) < 2 {
		return Regression{}, fmt.Errorf("%d positive price pairs for power law: %w",
			len(logBtc), domain.ErrInsufficientData)
	}
	intercept, exponent := stat.LinearRegression(logBtc, logStock, nil, false)
	if math.IsNaN(intercept) || math.IsNaN(exponent) {
		return Regression{}, fmt.Errorf("power law fit collapsed: %w", domain.ErrDegenerateInput)
	}

	return Regression{
		Beta:              beta,
		Correlation:       corr,
		PowerLawExponent:  exponent,
		PowerLawIntercept: intercept,
		SampleSize:        len(btc),
	}, nil
}

// Project derives the two price targets for a hypothetical BTC price.
// Pure function: identical inputs always yield identical outputs.
//
//	beta model:      curStock * (1 + beta*(targetBtc/curBtc - 1))
//	power-law model: exp(intercept) * targetBtc^exponent
//
// Both are scaled by multiplier (1.0 = no event adjustment).
func Project(reg Regression, curBtc, curStock, targetBtc, multiplier float64) (betaPrice, powerLawPrice float64, err error) {
	switch {
	case targetBtc <= 0:
		return 0, 0, fmt.Errorf("target btc price %.2f must be positive: %w", targetBtc, domain.ErrInvalidInput)
	case curBtc <= 0:
		return 0, 0, fmt.Errorf("current btc price %.2f must be positive: %w", curBtc, domain.ErrInvalidInput)
	case curStock <= 0:
		return 0, 0, fmt.Errorf("current stock price %.2f must be positive: %w", curStock, domain.ErrInvalidInput)
	case multiplier <= 0:
		return 0, 0, fmt.Errorf("multiplier %.2f must be positive: %w", multiplier, domain.ErrInvalidInput)
	}

	betaPrice = curStock * (1 + reg.Beta*(targetBtc/curBtc-1)) * multiplier
	powerLawPrice = math.Exp(reg.PowerLawIntercept) * math.Pow(targetBtc, reg.PowerLawExponent) * multiplier
	return betaPrice, powerLawPrice, nil
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
