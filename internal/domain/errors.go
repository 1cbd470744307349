package domain

import "errors"

// Failure classes shared across providers, models and handlers. Wrap
// them with fmt.Errorf("...: %w", ...) and test with errors.Is.
var (
	// ErrInvalidInput marks caller mistakes: unknown tickers,
	// non-positive prices or multipliers.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData means fewer aligned observations than the
	// configured minimum were available.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateInput means the regression inputs carry no usable
	// variance (constant BTC returns).
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrSourceUnavailable means every source in a symbol's chain
	// failed. Single-source failures are absorbed by the fallback
	// chain and never carry this.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrUpstreamTimeout means every source in a chain timed out
	// rather than answering at all.
	ErrUpstreamTimeout = errors.New("upstream timeout")
)
