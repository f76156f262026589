package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
)

// BelowNisabError reports a declaration rejected because its value is under the
// Nisab threshold of its own kind.
type BelowNisabError struct {
	Kind      domain.Kind
	Currency  domain.CurrencyCode
	Value     decimal.Decimal
	Threshold decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *BelowNisabError) Error() string {
	return fmt.Sprintf("%s worth %s %s is below nisab %s %s (short by %s)",
		e.Kind,
		domain.RoundMoney(e.Value), e.Currency,
		domain.RoundMoney(e.Threshold), e.Currency,
		domain.RoundMoney(e.Shortfall))
}

// Unwrap lets errors.Is match domain.ErrBelowNisab.
func (e *BelowNisabError) Unwrap() error {
	return domain.ErrBelowNisab
}
