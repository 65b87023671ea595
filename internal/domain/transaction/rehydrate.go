package transaction

import (
	"encoding/json"
	"strconv"
)

// DeriveThreedsVersion is the rehydration fallback for rows persisted before
// the version column existed: it scans recorded response payloads for the
// Rocketgate 3DS reason-code ranges. New writes always persist the version
// explicitly via SetThreedsVersion.
func (t *Transaction) DeriveThreedsVersion() int {
	if t.ThreedsVersion != 0 {
		return t.ThreedsVersion
	}
	for _, in := range t.Interactions {
		if in.Type != InteractionResponse {
			continue
		}
		var body struct {
			ReasonCode string `json:"reasonCode"`
		}
		if err := json.Unmarshal(in.Payload, &body); err != nil {
			continue
		}
		code, err := strconv.Atoi(body.ReasonCode)
		if err != nil {
			continue
		}
		switch {
		case code == 202:
			return 1
		case code >= 203 && code <= 299:
			return 2
		}
	}
	return 0
}

// DeriveThreeDSData recovers the challenge fields from the newest response
// interaction, for transactions rehydrated mid-flow.
func (t *Transaction) DeriveThreeDSData() (pareq, acsURL, stepUpURL, stepUpJWT, md string) {
	for i := len(t.Interactions) - 1; i >= 0; i-- {
		in := t.Interactions[i]
		if in.Type != InteractionResponse {
			continue
		}
		var body struct {
			Pareq     string `json:"PAREQ"`
			AcsURL    string `json:"acsURL"`
			StepUpURL string `json:"_3DSECURE_STEP_UP_URL"`
			StepUpJWT string `json:"_3DSECURE_STEP_UP_JWT"`
			MD        string `json:"_3DSECURE_DF_REFERENCE_ID"`
		}
		if err := json.Unmarshal(in.Payload, &body); err != nil {
			continue
		}
		if body.Pareq != "" || body.AcsURL != "" || body.StepUpURL != "" || body.MD != "" {
			return body.Pareq, body.AcsURL, body.StepUpURL, body.StepUpJWT, body.MD
		}
	}
	return "", "", "", "", ""
}

// DeriveBillerTransactionID recovers the biller's id from the interaction
// log when the projection field is empty on a rehydrated row.
func (t *Transaction) DeriveBillerTransactionID() string {
	if t.BillerTransactionID != "" {
		return t.BillerTransactionID
	}
	// Newest response wins.
	for i := len(t.Interactions) - 1; i >= 0; i-- {
		in := t.Interactions[i]
		if in.Type != InteractionResponse {
			continue
		}
		var body struct {
			GUID          string `json:"guidNo"`
			TransactionID string `json:"transactionId"`
		}
		if err := json.Unmarshal(in.Payload, &body); err != nil {
			continue
		}
		if body.GUID != "" {
			return body.GUID
		}
		if body.TransactionID != "" {
			return body.TransactionID
		}
	}
	return ""
}
