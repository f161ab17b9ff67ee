package capgains

import "errors"

var (
	// ErrInvalidInput reports a document that cannot be decoded into trades.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientPosition reports a sell larger than the held quantity.
	ErrInsufficientPosition = errors.New("insufficient position")
	// ErrCurrencyMismatch reports a trade priced in another currency than the
	// portfolio.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrInvalidOperation reports a batch aborted by a trade the portfolio
	// rejected. It wraps the portfolio error.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrOutputEncoding reports taxes that could not be serialized.
	ErrOutputEncoding = errors.New("invalid tax conversion")
)
