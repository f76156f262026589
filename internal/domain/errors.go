package domain

import "errors"

var (
	// ErrInvalidUnit indicates an unrecognized weight unit.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrCurrencyNotFound indicates that the requested currency is absent from the price table.
	ErrCurrencyNotFound = errors.New("currency not found")

	// ErrBelowNisab indicates that a single declaration does not meet the Nisab of its own kind.
	ErrBelowNisab = errors.New("below nisab for asset")

	// ErrUnsupportedCrossCurrency indicates cash declared in a currency other than the display currency.
	ErrUnsupportedCrossCurrency = errors.New("unsupported cross-currency input")

	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrKindUnitMismatch  = errors.New("unit does not match asset kind")
	ErrInvalidPriceTable = errors.New("invalid price table")
	ErrFeedUnavailable   = errors.New("price feed unavailable")
)
