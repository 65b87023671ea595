package values

import (
	"errors"
	"strings"
)

var ErrInvalidCreditCardInformation = errors.New("invalid credit card information")

// PaymentType discriminates the payment instrument behind a charge.
type PaymentType string

const (
	PaymentTypeCreditCard PaymentType = "cc"
	PaymentTypeCheck      PaymentType = "checks"
	PaymentTypeCrypto     PaymentType = "crypto"
	PaymentTypeLegacy     PaymentType = "legacy"
)

// CreditCardInfo is always held obfuscated: first six and last four digits
// only. The full PAN and CVV exist transiently inside the adapter that
// builds the wire request and are never part of the aggregate or any
// recorded interaction.
type CreditCardInfo struct {
	First6          string
	Last4           string
	ExpirationMonth int
	ExpirationYear  int
	CardHash        string
}

// ObfuscateCard reduces a full card number to its storable form.
func ObfuscateCard(number string, expMonth, expYear int) (CreditCardInfo, error) {
	digits := strings.TrimSpace(number)
	if len(digits) < 12 || len(digits) > 19 {
		return CreditCardInfo{}, ErrInvalidCreditCardInformation
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return CreditCardInfo{}, ErrInvalidCreditCardInformation
		}
	}
	if expMonth < 1 || expMonth > 12 || expYear < 2000 {
		return CreditCardInfo{}, ErrInvalidCreditCardInformation
	}
	return CreditCardInfo{
		First6:          digits[:6],
		Last4:           digits[len(digits)-4:],
		ExpirationMonth: expMonth,
		ExpirationYear:  expYear,
	}, nil
}

// Obfuscated renders the card the way it appears in interaction payloads.
func (c CreditCardInfo) Obfuscated() string {
	return c.First6 + "XXXXXX" + c.Last4
}

// Bin returns the routing BIN used in BI events.
func (c CreditCardInfo) Bin() string {
	return c.First6
}
