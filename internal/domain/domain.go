package domain

import (
	"encoding/json"
	"time"
)

// MarketState is the canonical trading-session state for an equity.
type MarketState string

const (
	MarketOpen   MarketState = "OPEN"
	MarketPre    MarketState = "PRE"
	MarketPost   MarketState = "POST"
	MarketClosed MarketState = "CLOSED"
)

// DefaultMarketStateMap translates upstream session names (Yahoo vocabulary)
// to canonical states. Deployments can override it via config.
var DefaultMarketStateMap = map[string]MarketState{
	"REGULAR":  MarketOpen,
	"PRE":      MarketPre,
	"PREPRE":   MarketPre,
	"POST":     MarketPost,
	"POSTPOST": MarketPost,
	"CLOSED":   MarketClosed,
}

// NormalizeMarketState maps an upstream session string through table,
// falling back to DefaultMarketStateMap and then CLOSED for unknown values.
func NormalizeMarketState(upstream string, table map[string]MarketState) MarketState {
	if table != nil {
		if s, ok := table[upstream]; ok {
			return s
		}
	}
	if s, ok := DefaultMarketStateMap[upstream]; ok {
		return s
	}
	return MarketClosed
}

// Quote is the latest known price for one symbol from one source.
type Quote struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Source string    `json:"source"`
	AsOf   time.Time `json:"as_of"`
}

// ExtendedQuote carries session state and off-hours prices when the
// source provides them. Zero pre/post prices mean "not available".
type ExtendedQuote struct {
	Quote
	MarketState     MarketState `json:"market_state"`
	PreMarketPrice  float64     `json:"pre_market_price,omitempty"`
	PostMarketPrice float64     `json:"post_market_price,omitempty"`
	ChangePct       float64     `json:"change_pct"`
}

// BookEntry is one symbol's slot in a PriceBook. Entries without session
// data serialize as a bare number so simple consumers keep working.
type BookEntry struct {
	Price    float64
	Extended *ExtendedQuote
}

type extendedEntryJSON struct {
	Price           float64     `json:"price"`
	MarketState     MarketState `json:"market_state"`
	PreMarketPrice  float64     `json:"pre_market_price,omitempty"`
	PostMarketPrice float64     `json:"post_market_price,omitempty"`
	ChangePct       float64     `json:"change_pct"`
}

func (e BookEntry) MarshalJSON() ([]byte, error) {
	if e.Extended == nil {
		return json.Marshal(e.Price)
	}
	return json.Marshal(extendedEntryJSON{
		Price:           e.Price,
		MarketState:     e.Extended.MarketState,
		PreMarketPrice:  e.Extended.PreMarketPrice,
		PostMarketPrice: e.Extended.PostMarketPrice,
		ChangePct:       e.Extended.ChangePct,
	})
}

func (e *BookEntry) UnmarshalJSON(data []byte) error {
	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		e.Price = scalar
		e.Extended = nil
		return nil
	}
	var ext extendedEntryJSON
	if err := json.Unmarshal(data, &ext); err != nil {
		return err
	}
	e.Price = ext.Price
	e.Extended = &ExtendedQuote{
		Quote:           Quote{Price: ext.Price},
		MarketState:     ext.MarketState,
		PreMarketPrice:  ext.PreMarketPrice,
		PostMarketPrice: ext.PostMarketPrice,
		ChangePct:       ext.ChangePct,
	}
	return nil
}

// PriceBook is the per-symbol snapshot served by /market-prices and cached
// between poller runs.
type PriceBook map[string]BookEntry
