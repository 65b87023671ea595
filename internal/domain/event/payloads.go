package event

import (
	"time"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/classify"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
)

// TransactionPayload is the fixed key set every BI event carries. It must be
// producible from a Transaction plus an optional BillerResponse; the
// response is nil on the aborted path.
type TransactionPayload struct {
	Timestamp           time.Time                     `json:"timestamp"`
	TransactionID       string                        `json:"transactionId"`
	SiteID              string                        `json:"siteId"`
	BillerTransactionID string                        `json:"billerTransactionId"`
	TransactionState    string                        `json:"transactionState"`
	TransactionType     string                        `json:"transactionType"`
	PaymentType         string                        `json:"paymentType"`
	FreeSale            bool                          `json:"freeSale"`
	BinRouting          string                        `json:"binRouting,omitempty"`
	ErrorClassification *classify.ErrorClassification `json:"errorClassification,omitempty"`
}

// NewTransactionPayload builds the BI payload. resp may be nil.
func NewTransactionPayload(t *transaction.Transaction, resp *biller.Response) TransactionPayload {
	p := TransactionPayload{
		Timestamp:           time.Now().UTC(),
		TransactionID:       t.ID,
		SiteID:              t.SiteID,
		BillerTransactionID: t.DeriveBillerTransactionID(),
		TransactionState:    string(t.Status),
		TransactionType:     string(t.Kind),
		PaymentType:         string(t.PaymentType),
		FreeSale:            t.FreeSale,
	}
	if t.Card != nil {
		p.BinRouting = t.Card.Bin()
	}
	if p.BillerTransactionID == "" && resp != nil {
		p.BillerTransactionID = resp.BillerTransactionID
	}
	if t.Status == transaction.StatusDeclined || t.Status == transaction.StatusAborted {
		c := classify.Classify(string(t.BillerName), t.Code, t.Reason)
		p.ErrorClassification = &c
	}
	return p
}
