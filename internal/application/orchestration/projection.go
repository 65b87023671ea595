package orchestration

import (
	"github.com/rcarvalho-pb/biller_gateway-go/internal/classify"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
)

// ThreeDSFields is the challenge data a client needs to continue an
// authentication flow.
type ThreeDSFields struct {
	Pareq     string `json:"pareq,omitempty"`
	AcsURL    string `json:"acsUrl,omitempty"`
	StepUpURL string `json:"stepUpUrl,omitempty"`
	StepUpJWT string `json:"stepUpJwt,omitempty"`
	MD        string `json:"md,omitempty"`
}

// TransactionDTO is the caller-facing projection of a transaction. The same
// canonical fields come out whether it is built from a freshly processed
// aggregate or from one rehydrated out of its interaction history.
type TransactionDTO struct {
	TransactionID       string                        `json:"transactionId"`
	SiteID              string                        `json:"siteId"`
	Status              string                        `json:"status"`
	Kind                string                        `json:"type"`
	PaymentType         string                        `json:"paymentType"`
	BillerName          string                        `json:"billerName"`
	BillerTransactionID string                        `json:"billerTransactionId,omitempty"`
	Code                string                        `json:"code,omitempty"`
	Reason              string                        `json:"reason,omitempty"`
	ThreedsVersion      int                           `json:"threedsVersion,omitempty"`
	SecuredWithThreeD   bool                          `json:"securedWithThreeD"`
	ThreeDS             *ThreeDSFields                `json:"threeDS,omitempty"`
	Classification      *classify.ErrorClassification `json:"errorClassification,omitempty"`
}

// CreateFromTransaction projects a transaction that was just processed,
// using the live biller response for the challenge fields. resp may be nil
// on the aborted path.
func CreateFromTransaction(t *transaction.Transaction, resp *biller.Response) TransactionDTO {
	dto := baseDTO(t)
	if resp != nil && resp.ThreeDS != nil {
		dto.ThreeDS = &ThreeDSFields{
			Pareq:     resp.ThreeDS.Pareq,
			AcsURL:    resp.ThreeDS.AcsURL,
			StepUpURL: resp.ThreeDS.StepUpURL,
			StepUpJWT: resp.ThreeDS.StepUpJWT,
			MD:        resp.ThreeDS.MD,
		}
	}
	return dto
}

// CreateFromEntity projects a rehydrated transaction, recovering challenge
// fields and derived identifiers from the interaction history.
func CreateFromEntity(t *transaction.Transaction) TransactionDTO {
	dto := baseDTO(t)
	pareq, acsURL, stepUpURL, stepUpJWT, md := t.DeriveThreeDSData()
	if pareq != "" || acsURL != "" || stepUpURL != "" || md != "" {
		dto.ThreeDS = &ThreeDSFields{
			Pareq:     pareq,
			AcsURL:    acsURL,
			StepUpURL: stepUpURL,
			StepUpJWT: stepUpJWT,
			MD:        md,
		}
	}
	return dto
}

func baseDTO(t *transaction.Transaction) TransactionDTO {
	dto := TransactionDTO{
		TransactionID:       t.ID,
		SiteID:              t.SiteID,
		Status:              string(t.Status),
		Kind:                string(t.Kind),
		PaymentType:         string(t.PaymentType),
		BillerName:          string(t.BillerName),
		BillerTransactionID: t.DeriveBillerTransactionID(),
		Code:                t.Code,
		Reason:              t.Reason,
		ThreedsVersion:      t.DeriveThreedsVersion(),
		SecuredWithThreeD:   t.SecuredWithThreeD || t.DeriveThreedsVersion() != 0,
	}
	// Declined and aborted projections always carry a classification, the
	// documented fallback at minimum.
	if t.Status == transaction.StatusDeclined || t.Status == transaction.StatusAborted {
		c := classify.Classify(string(t.BillerName), t.Code, t.Reason)
		dto.Classification = &c
	}
	return dto
}
