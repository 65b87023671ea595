package biller

import (
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/values"
)

// CardDetails is the transient, un-obfuscated instrument handed to an
// adapter. It never leaves the adapter boundary: interactions and the
// aggregate only ever see values.CreditCardInfo.
type CardDetails struct {
	Number          string
	CVV             string
	ExpirationMonth int
	ExpirationYear  int
	HolderName      string
}

// ChargeCommand is the canonical charge request every adapter translates
// into its own wire format.
type ChargeCommand struct {
	TransactionID string
	SiteID        string
	PaymentType   values.PaymentType
	Charge        values.ChargeInformation
	Settings      values.BillerChargeSettings
	Card          *CardDetails
	// CardHash routes an existing-card charge; Card is nil in that case.
	CardHash string
	// MemberID identifies the customer on billers that key rebills by member.
	MemberID string
	// UseThreeDS requests authentication on billers that support it.
	UseThreeDS bool
}

// RebillCommand starts, stops, updates, or cancels a recurring schedule
// anchored to a previous charge.
type RebillCommand struct {
	TransactionID         string
	SiteID                string
	PreviousTransactionID string
	BillerTransactionID   string
	Settings              values.BillerChargeSettings
	Rebill                *values.RebillSchedule
	MemberID              string
}

// CompleteThreeDCommand finalizes a pending 3DS charge. Exactly one of
// Pares (v1) or MD (v1 simplified and all of v2) is set.
type CompleteThreeDCommand struct {
	TransactionID       string
	BillerTransactionID string
	Settings            values.BillerChargeSettings
	Pares               string
	MD                  string
}

// LookupCommand is the 3DS2 pre-charge authentication lookup.
type LookupCommand struct {
	TransactionID string
	SiteID        string
	Charge        values.ChargeInformation
	Settings      values.BillerChargeSettings
	Card          *CardDetails
	CardHash      string
	// DeviceFingerprint comes from the client-side collector.
	DeviceFingerprint string
	ReturnURL         string
}
