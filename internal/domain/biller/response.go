package biller

import "encoding/json"

// Result is the canonical outcome of one biller call, after the adapter has
// mapped the gateway's own sentinels.
type Result string

const (
	ResultApproved Result = "approved"
	ResultDeclined Result = "declined"
	ResultPending  Result = "pending"
	ResultAborted  Result = "aborted"
)

// ThreeDSData carries the authentication fields a biller may return during a
// 3-D Secure flow. v1 uses Pareq/AcsURL, v2 uses StepUpURL/StepUpJWT/MD.
type ThreeDSData struct {
	Pareq     string `json:"pareq,omitempty"`
	AcsURL    string `json:"acsUrl,omitempty"`
	StepUpURL string `json:"stepUpUrl,omitempty"`
	StepUpJWT string `json:"stepUpJwt,omitempty"`
	MD        string `json:"md,omitempty"`
}

// ExtraData is biller-specific detail that rides along with the canonical
// triple without affecting state decisions.
type ExtraData struct {
	BankResponseCode string `json:"bankResponseCode,omitempty"`
	ReasonCode       string `json:"reasonCode,omitempty"`
	Balance          string `json:"balance,omitempty"`
	Prepaid          bool   `json:"prepaid,omitempty"`
}

// Response is the canonical result of one biller call. The Result/Code/Reason
// triple drives the state machine; everything else is projection data.
type Response struct {
	Result              Result
	Code                string
	Reason              string
	BillerTransactionID string
	Request             json.RawMessage
	RawResponse         json.RawMessage
	ThreeDS             *ThreeDSData
	Extra               ExtraData
}

func (r Response) Approved() bool {
	return r.Result == ResultApproved
}

func (r Response) Declined() bool {
	return r.Result == ResultDeclined
}

func (r Response) Pending() bool {
	return r.Result == ResultPending
}

// HasChallenge reports whether the response asks the cardholder to
// authenticate, in either protocol version.
func (r Response) HasChallenge() bool {
	if r.ThreeDS == nil {
		return false
	}
	return r.ThreeDS.Pareq != "" || r.ThreeDS.StepUpURL != ""
}
