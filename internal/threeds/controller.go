// Package threeds owns the 3-D Secure authentication sub-flow: version
// detection, lookup handling, and completion validation for both protocol
// versions. It applies to credit-card charges only.
package threeds

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
)

var (
	ErrParesNotAllowed = errors.New("pares is not accepted for a 3ds2 transaction")
	ErrMissingToken    = errors.New("either pares or md is required")
)

// Reason codes in the Rocketgate 3DS family the controller branches on.
const (
	ReasonAuthRequired    = "202" // v1 challenge issued
	ReasonFrictionless    = "203" // v2, no challenge needed
	ReasonBypass          = "223" // v2, authentication bypassed by the gateway
	ReasonStepUpRequired  = "225" // v2 challenge with step-up redirect
	reasonNSFDecline      = "117"
	reasonGenericDecline  = "123"
	reasonAuthFailure     = "325"
)

// Outcome tells the orchestrator what a lookup/charge response means for
// the authentication flow.
type Outcome string

const (
	OutcomeFrictionless Outcome = "frictionless"
	OutcomeChallenge    Outcome = "challenge"
	OutcomeBypass       Outcome = "bypass"
	OutcomeNone         Outcome = "none"
)

type Controller struct{}

// DetectVersion derives the protocol version from which fields the biller's
// response carries. Zero means the response is not part of a 3DS flow.
func DetectVersion(resp biller.Response) int {
	if resp.ThreeDS != nil {
		if resp.ThreeDS.StepUpURL != "" || resp.ThreeDS.StepUpJWT != "" {
			return 2
		}
		if resp.ThreeDS.Pareq != "" || resp.ThreeDS.AcsURL != "" {
			return 1
		}
	}
	code, err := strconv.Atoi(resp.Extra.ReasonCode)
	if err != nil {
		return 0
	}
	switch {
	case code == 202:
		return 1
	case code >= 203 && code <= 299:
		return 2
	}
	return 0
}

// Classify maps a pending 3DS response onto its flow outcome.
func (c *Controller) Classify(resp biller.Response) Outcome {
	switch resp.Extra.ReasonCode {
	case ReasonFrictionless:
		return OutcomeFrictionless
	case ReasonBypass:
		return OutcomeBypass
	case ReasonAuthRequired, ReasonStepUpRequired:
		return OutcomeChallenge
	}
	if resp.HasChallenge() {
		return OutcomeChallenge
	}
	return OutcomeNone
}

// Apply records a lookup/charge response on the transaction and persists the
// detected version. A challenge keeps the transaction pending; frictionless
// and bypass responses carry the final result and the caller finishes the
// transition.
func (c *Controller) Apply(t *transaction.Transaction, resp biller.Response) error {
	t.ApplyBillerResponse(resp)

	if v := DetectVersion(resp); v != 0 {
		if err := t.SetThreedsVersion(v); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCompletion checks a completion token against the stored pending
// transaction before the biller is re-invoked.
func (c *Controller) ValidateCompletion(t *transaction.Transaction, pares, md string) error {
	if t.Status.Terminal() {
		return transaction.ErrInvalidStatus
	}
	if pares == "" && md == "" {
		return ErrMissingToken
	}
	// v2 completions identify the authentication by MD only.
	if t.DeriveThreedsVersion() == 2 && pares != "" {
		return ErrParesNotAllowed
	}
	return nil
}

// ValidPares reports whether a PARES token looks like a deflated,
// base64-encoded authentication response. A token failing this check
// declines the transaction without a biller round trip.
func ValidPares(pares string) bool {
	if len(pares) < 16 {
		return false
	}
	return strings.HasPrefix(pares, "eJ")
}

// DeclineCodes selects which decline branch follows a failed bypass or
// challenge: billers that support NSF report insufficient funds, the rest a
// generic decline.
func DeclineCodes(nsfSupported bool) (code, reason string) {
	if nsfSupported {
		return "1", reasonNSFDecline
	}
	return "1", reasonGenericDecline
}

// AuthFailureCodes is the decline pair recorded when the authentication
// token itself is rejected before reaching the biller.
func AuthFailureCodes() (code, reason string) {
	return "1", reasonAuthFailure
}
