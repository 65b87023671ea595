package values

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidCurrency   = errors.New("unknown currency code")
	ErrMissingChargeInfo = errors.New("missing charge information")
)

// supportedCurrencies are the ISO 4217 codes the billers we route to accept.
var supportedCurrencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "CAD": {}, "AUD": {}, "JPY": {}, "CHF": {},
}

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsZero() {
		return Money{}, ErrInvalidAmount
	}
	m := Money{Amount: amount, Currency: currency}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

func MoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return NewMoney(d, currency)
}

// Validate checks an amount decoded straight off the wire. Zero is allowed
// here: a zero initial amount is a free sale.
func (m Money) Validate() error {
	if m.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if _, ok := supportedCurrencies[m.Currency]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, m.Currency)
	}
	return nil
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// String renders the amount the way biller gateways expect it: two
// decimal places, no thousands separator.
func (m Money) String() string {
	return m.Amount.StringFixed(2)
}

// ChargeInformation is the monetary portion of a charge command: the
// initial amount plus an optional recurring schedule.
type ChargeInformation struct {
	Amount Money
	Rebill *RebillSchedule
}

func (c ChargeInformation) Validate() error {
	if c.Amount.Currency == "" {
		return ErrMissingChargeInfo
	}
	if err := c.Amount.Validate(); err != nil {
		return err
	}
	if c.Rebill != nil {
		return c.Rebill.Validate()
	}
	return nil
}
