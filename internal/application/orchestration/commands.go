package orchestration

import (
	"errors"
	"fmt"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/values"
)

var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrInvalidCommand = errors.New("invalid command")
)

// CardInput is the raw instrument as submitted by the front-end. It exists
// only inside command handling; the aggregate stores the obfuscated form.
type CardInput struct {
	Number          string
	CVV             string
	ExpirationMonth int
	ExpirationYear  int
	HolderName      string
}

// CrossSale is an additional charge appended after the main one, against
// the same instrument on a different site.
type CrossSale struct {
	SiteID string
	Charge values.ChargeInformation
}

// NewSaleCommand charges a new payment instrument.
type NewSaleCommand struct {
	SiteID      string
	BillerName  string
	PaymentType values.PaymentType
	Charge      values.ChargeInformation
	Settings    values.BillerChargeSettings
	Card        *CardInput
	MemberID    string
	UseThreeDS  bool
	CrossSales  []CrossSale
}

func (c NewSaleCommand) Validate() error {
	if c.SiteID == "" {
		return fmt.Errorf("%w: siteId is required", ErrInvalidCommand)
	}
	if _, err := biller.ParseName(c.BillerName); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	if err := c.Charge.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if c.PaymentType == values.PaymentTypeCreditCard && c.Card == nil {
		return fmt.Errorf("%w: card is required for credit card sales", values.ErrInvalidCreditCardInformation)
	}
	return nil
}

// ExistingCardSaleCommand charges an instrument the biller already holds.
type ExistingCardSaleCommand struct {
	SiteID     string
	BillerName string
	Charge     values.ChargeInformation
	Settings   values.BillerChargeSettings
	CardHash   string
	MemberID   string
	UseThreeDS bool
}

func (c ExistingCardSaleCommand) Validate() error {
	if c.SiteID == "" {
		return fmt.Errorf("%w: siteId is required", ErrInvalidCommand)
	}
	if _, err := biller.ParseName(c.BillerName); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	if c.CardHash == "" {
		return fmt.Errorf("%w: cardHash is required", ErrInvalidCommand)
	}
	return c.Charge.Validate()
}

// RebillUpdateCommand starts, stops, updates, suspends, or cancels a
// recurring schedule anchored to a previous charge.
type RebillUpdateCommand struct {
	SiteID                string
	BillerName            string
	Operation             string
	PreviousTransactionID string
	Settings              values.BillerChargeSettings
	Rebill                *values.RebillSchedule
	MemberID              string
}

func (c RebillUpdateCommand) Validate() error {
	if c.SiteID == "" || c.PreviousTransactionID == "" {
		return fmt.Errorf("%w: siteId and previousTransactionId are required", ErrInvalidCommand)
	}
	if _, err := biller.ParseName(c.BillerName); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	switch c.Operation {
	case "start", "update":
		if c.Rebill == nil {
			return fmt.Errorf("%w: rebill schedule is required for %s", ErrInvalidCommand, c.Operation)
		}
		return c.Rebill.Validate()
	case "stop", "cancel", "suspend":
		return nil
	}
	return fmt.Errorf("%w: unknown rebill operation %q", ErrInvalidCommand, c.Operation)
}

// ThreeDLookupCommand runs the 3DS2 pre-charge authentication lookup.
type ThreeDLookupCommand struct {
	SiteID            string
	BillerName        string
	Charge            values.ChargeInformation
	Settings          values.BillerChargeSettings
	Card              *CardInput
	CardHash          string
	DeviceFingerprint string
	ReturnURL         string
}

func (c ThreeDLookupCommand) Validate() error {
	if c.SiteID == "" {
		return fmt.Errorf("%w: siteId is required", ErrInvalidCommand)
	}
	if _, err := biller.ParseName(c.BillerName); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	if c.Card == nil && c.CardHash == "" {
		return fmt.Errorf("%w: card or cardHash is required", ErrInvalidCommand)
	}
	return c.Charge.Validate()
}

// ThreeDCompleteCommand finalizes a pending 3DS transaction with the token
// the client brought back from the challenge.
type ThreeDCompleteCommand struct {
	TransactionID string
	Pares         string
	MD            string
}

func (c ThreeDCompleteCommand) Validate() error {
	if c.TransactionID == "" {
		return fmt.Errorf("%w: transactionId is required", ErrInvalidCommand)
	}
	if c.Pares == "" && c.MD == "" {
		return fmt.Errorf("%w: pares or md is required", ErrInvalidCommand)
	}
	return nil
}

// AbortCommand finishes a pending transaction whose biller call never
// produced a result.
type AbortCommand struct {
	TransactionID string
}

func (c AbortCommand) Validate() error {
	if c.TransactionID == "" {
		return fmt.Errorf("%w: transactionId is required", ErrInvalidCommand)
	}
	return nil
}
