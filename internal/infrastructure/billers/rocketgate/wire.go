package rocketgate

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
)

// chargeRequest is the Rocketgate gateway-service payload. CardNo carries
// the full PAN only in the wire copy; the redacted copy recorded on the
// transaction masks it.
type chargeRequest struct {
	MerchantID         string `json:"merchantID"`
	MerchantPassword   string `json:"merchantPassword"`
	MerchantSiteID     string `json:"merchantSiteID,omitempty"`
	MerchantCustomerID string `json:"merchantCustomerID,omitempty"`
	MerchantInvoiceID  string `json:"merchantInvoiceID,omitempty"`
	Amount             string `json:"amount,omitempty"`
	CurrencyCode       string `json:"currency,omitempty"`
	CardNo             string `json:"cardNo,omitempty"`
	ExpireMonth        int    `json:"expireMonth,omitempty"`
	ExpireYear         int    `json:"expireYear,omitempty"`
	CVV2               string `json:"cvv2,omitempty"`
	CardHash           string `json:"cardHash,omitempty"`
	Use3DSecure        bool   `json:"use3DSecure,omitempty"`
	RebillStart        int    `json:"rebillStart,omitempty"`
	RebillFrequency    int    `json:"rebillFrequency,omitempty"`
	RebillAmount       string `json:"rebillAmount,omitempty"`
	RebillSuspend      bool   `json:"rebillSuspend,omitempty"`
	ReferenceGUID      string `json:"referenceGUID,omitempty"`
	PARES              string `json:"PARES,omitempty"`
	ThreeDSecureMD     string `json:"_3DSECURE_DF_REFERENCE_ID,omitempty"`
	PerformLookup      bool   `json:"_3DSECURE_LOOKUP,omitempty"`
	BrowserData        string `json:"_3DSECURE_DEVICE_COLLECTION_JWT,omitempty"`
	ReturnURL          string `json:"_3DSECURE_REDIRECT_URL,omitempty"`
}

func (r chargeRequest) redacted() json.RawMessage {
	c := r
	if c.MerchantPassword != "" {
		c.MerchantPassword = "*******"
	}
	if len(c.CardNo) >= 10 {
		c.CardNo = c.CardNo[:6] + "XXXXXX" + c.CardNo[len(c.CardNo)-4:]
	}
	if c.CVV2 != "" {
		c.CVV2 = "***"
	}
	b, _ := json.Marshal(c)
	return b
}

// chargeResponse mirrors the fields of a gateway-service reply we act on.
type chargeResponse struct {
	ReasonCode       json.Number `json:"reasonCode"`
	ResponseCode     json.Number `json:"responseCode"`
	GUID             string      `json:"guidNo"`
	AuthNo           string      `json:"authNo"`
	CardHash         string      `json:"cardHash"`
	BankResponseCode string      `json:"bankResponseCode"`
	BalanceAmount    string      `json:"balanceAmount"`
	PAREQ            string      `json:"PAREQ"`
	AcsURL           string      `json:"acsURL"`
	StepUpURL        string      `json:"_3DSECURE_STEP_UP_URL"`
	StepUpJWT        string      `json:"_3DSECURE_STEP_UP_JWT"`
	MD               string      `json:"_3DSECURE_DF_REFERENCE_ID"`
}

// Reason-code families the translator distinguishes. Zero is approval; the
// 2xx range is the 3DS sub-flow and keeps the transaction pending.
const (
	reasonApproved          = 0
	reason3DSAuthRequired   = 202
	reason3DS2Frictionless  = 203
	reason3DSBypass         = 223
	reason3DS2StepUp        = 225
	threeDSRangeStart       = 200
	threeDSRangeEnd         = 299
)

func parseResponse(body []byte, request json.RawMessage) (biller.Response, error) {
	var wire chargeResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return biller.Response{}, fmt.Errorf("%w: %v", biller.ErrMalformedResponse, err)
	}

	reason, err := strconv.Atoi(wire.ReasonCode.String())
	if err != nil {
		return biller.Response{}, fmt.Errorf("%w: reasonCode %q", biller.ErrMalformedResponse, wire.ReasonCode)
	}

	resp := biller.Response{
		Code:                wire.ResponseCode.String(),
		Reason:              wire.ReasonCode.String(),
		BillerTransactionID: wire.GUID,
		Request:             request,
		RawResponse:         body,
		Extra: biller.ExtraData{
			BankResponseCode: wire.BankResponseCode,
			ReasonCode:       wire.ReasonCode.String(),
			Balance:          wire.BalanceAmount,
		},
	}

	if wire.PAREQ != "" || wire.AcsURL != "" || wire.StepUpURL != "" || wire.MD != "" {
		resp.ThreeDS = &biller.ThreeDSData{
			Pareq:     wire.PAREQ,
			AcsURL:    wire.AcsURL,
			StepUpURL: wire.StepUpURL,
			StepUpJWT: wire.StepUpJWT,
			MD:        wire.MD,
		}
	}

	switch {
	case reason == reasonApproved:
		resp.Result = biller.ResultApproved
	case reason >= threeDSRangeStart && reason <= threeDSRangeEnd:
		resp.Result = biller.ResultPending
	default:
		resp.Result = biller.ResultDeclined
	}

	return resp, nil
}
