package domain

import "strings"

// DefaultWatchlist lists the tickers tracked out of the box: BTC itself
// plus the miners and proxies whose prices ride on it.
var DefaultWatchlist = []string{
	"BTC-USD", "IREN", "APLD", "HUT", "MARA", "CLSK", "COIN", "MSTR",
}

// CompanyName maps tickers to the names used in news and social queries.
var CompanyName = map[string]string{
	"IREN": "Iris Energy",
	"APLD": "Applied Digital",
	"HUT":  "Hut 8",
	"MARA": "Marathon Digital",
	"CLSK": "CleanSpark",
	"COIN": "Coinbase",
	"MSTR": "MicroStrategy",
}

// CoinGeckoID maps crypto symbols to CoinGecko API identifiers.
var CoinGeckoID = map[string]string{
	"BTC-USD": "bitcoin",
	"BTC":     "bitcoin",
	"ETH-USD": "ethereum",
	"ETH":     "ethereum",
}

// BinanceSymbol maps crypto symbols to Binance spot pairs.
var BinanceSymbol = map[string]string{
	"BTC-USD": "BTCUSDT",
	"BTC":     "BTCUSDT",
	"ETH-USD": "ETHUSDT",
	"ETH":     "ETHUSDT",
}

// BTCSymbol is the canonical form used for the driving asset everywhere
// in the service.
const BTCSymbol = "BTC-USD"

// NormalizeSymbol upper-cases a user-supplied ticker and folds bare
// crypto bases to their -USD form.
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	switch s {
	case "BTC", "BTCUSD":
		return "BTC-USD"
	case "ETH", "ETHUSD":
		return "ETH-USD"
	}
	return s
}

// IsCrypto reports whether a symbol routes through the crypto source
// chain rather than the equity one.
func IsCrypto(symbol string) bool {
	_, ok := CoinGeckoID[NormalizeSymbol(symbol)]
	return ok
}
