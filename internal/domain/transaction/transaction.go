package transaction

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/values"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
	StatusAborted  Status = "aborted"
)

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDeclined || s == StatusAborted
}

// Kind discriminates the two transaction variants. Both share one state
// machine; the tag replaces subclassing.
type Kind string

const (
	// KindCharge is the first charge against a payment instrument.
	KindCharge Kind = "charge"
	// KindRebillUpdate is a start/stop/update/cancel of a recurring
	// schedule anchored to a previous charge.
	KindRebillUpdate Kind = "rebill_update"
)

// RebillOperation qualifies a KindRebillUpdate transaction.
type RebillOperation string

const (
	RebillStart   RebillOperation = "start"
	RebillStop    RebillOperation = "stop"
	RebillUpdate  RebillOperation = "update"
	RebillCancel  RebillOperation = "cancel"
	RebillSuspend RebillOperation = "suspend"
)

// Transaction is the aggregate root. Status only changes through Approve,
// Decline, and Abort; Interactions is append-only and ordered oldest first.
type Transaction struct {
	ID                    string
	SiteID                string
	Kind                  Kind
	RebillOperation       RebillOperation
	Status                Status
	PaymentType           values.PaymentType
	BillerName            biller.Name
	Charge                values.ChargeInformation
	Settings              values.BillerChargeSettings
	Card                  *values.CreditCardInfo
	CreatedAt             time.Time
	ThreedsVersion        int
	SecuredWithThreeD     bool
	FreeSale              bool
	PreviousTransactionID string
	BillerTransactionID   string
	Code                  string
	Reason                string
	LastResult            biller.Result
	Interactions          []BillerInteraction
}

func NewCharge(siteID string, name biller.Name, paymentType values.PaymentType, charge values.ChargeInformation, settings values.BillerChargeSettings, card *values.CreditCardInfo) *Transaction {
	return &Transaction{
		ID:          uuid.NewString(),
		SiteID:      siteID,
		Kind:        KindCharge,
		Status:      StatusPending,
		PaymentType: paymentType,
		BillerName:  name,
		Charge:      charge,
		Settings:    settings,
		Card:        card,
		FreeSale:    charge.Amount.IsZero(),
		CreatedAt:   time.Now().UTC(),
	}
}

func NewRebillUpdate(siteID string, name biller.Name, op RebillOperation, previousID string, settings values.BillerChargeSettings, rebill *values.RebillSchedule) *Transaction {
	t := &Transaction{
		ID:                    uuid.NewString(),
		SiteID:                siteID,
		Kind:                  KindRebillUpdate,
		RebillOperation:       op,
		Status:                StatusPending,
		PaymentType:           values.PaymentTypeCreditCard,
		BillerName:            name,
		Settings:              settings,
		PreviousTransactionID: previousID,
		CreatedAt:             time.Now().UTC(),
	}
	if rebill != nil {
		t.Charge = values.ChargeInformation{Amount: rebill.Amount, Rebill: rebill}
	}
	return t
}

// RecordRequest appends the obfuscated outgoing wire payload to the audit
// trail.
func (t *Transaction) RecordRequest(payload json.RawMessage) {
	t.Interactions = append(t.Interactions, newInteraction(InteractionRequest, payload))
}

// ApplyBillerResponse is not itself a state transition: it records the
// response interaction and refreshes projection fields ahead of Approve,
// Decline, or Abort being called.
func (t *Transaction) ApplyBillerResponse(resp biller.Response) {
	if len(resp.Request) > 0 {
		t.RecordRequest(resp.Request)
	}
	if len(resp.RawResponse) > 0 {
		t.Interactions = append(t.Interactions, newInteraction(InteractionResponse, resp.RawResponse))
	}
	if resp.BillerTransactionID != "" {
		t.BillerTransactionID = resp.BillerTransactionID
	}
	t.Code = resp.Code
	t.Reason = resp.Reason
	t.LastResult = resp.Result
	if resp.ThreeDS != nil {
		t.SecuredWithThreeD = true
	}
}

func (t *Transaction) Approve() error {
	if t.Status != StatusPending {
		return ErrIllegalStateTransition
	}
	if t.LastResult != biller.ResultApproved {
		return ErrResponseResultMismatch
	}
	t.Status = StatusApproved
	return nil
}

func (t *Transaction) Decline() error {
	if t.Status != StatusPending {
		return ErrIllegalStateTransition
	}
	if t.LastResult != biller.ResultDeclined {
		return ErrResponseResultMismatch
	}
	t.Status = StatusDeclined
	return nil
}

// Abort marks the transaction terminal without a biller code: the biller
// was unreachable or an infrastructure error interrupted the call.
func (t *Transaction) Abort() error {
	if t.Status != StatusPending {
		return ErrIllegalStateTransition
	}
	t.Status = StatusAborted
	t.LastResult = biller.ResultAborted
	t.Code = ""
	t.Reason = ""
	return nil
}

// SetThreedsVersion persists the detected protocol version. Once set to 1
// or 2 it is never reset; setting the same value again is a no-op.
func (t *Transaction) SetThreedsVersion(v int) error {
	if t.ThreedsVersion != 0 {
		if t.ThreedsVersion == v {
			return nil
		}
		return ErrThreedsVersionImmutable
	}
	if v != 1 && v != 2 {
		return ErrInvalidStatus
	}
	t.ThreedsVersion = v
	t.SecuredWithThreeD = true
	return nil
}
