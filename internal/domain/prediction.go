package domain

// PredictionResult is the full output of one prediction run. Nothing in
// it is stored; every request recomputes from fresh data.
type PredictionResult struct {
	Ticker                      string  `json:"ticker"`
	CurrentBTCPrice             float64 `json:"current_btc_price"`
	CurrentStockPrice           float64 `json:"current_stock_price"`
	TargetBTCPrice              float64 `json:"target_btc_price"`
	PredictedStockPriceBeta     float64 `json:"predicted_stock_price_beta"`
	PredictedStockPricePowerLaw float64 `json:"predicted_stock_price_power_law"`
	Beta                        float64 `json:"beta"`
	Correlation                 float64 `json:"correlation"`
	PowerLawExponent            float64 `json:"power_law_exponent"`
	SampleSize                  int     `json:"sample_size"`
	Multiplier                  float64 `json:"multiplier"`
}
