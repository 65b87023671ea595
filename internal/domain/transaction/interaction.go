package transaction

import (
	"encoding/json"
	"time"
)

type InteractionType string

const (
	InteractionRequest  InteractionType = "request"
	InteractionResponse InteractionType = "response"
)

// BillerInteraction is one recorded request or response exchanged with a
// biller. Entries are immutable once appended and form the transaction's
// audit trail; payloads are stored already obfuscated.
type BillerInteraction struct {
	Type      InteractionType
	Payload   json.RawMessage
	CreatedAt time.Time
}

func newInteraction(t InteractionType, payload json.RawMessage) BillerInteraction {
	// Copy so later mutation of the caller's buffer cannot reach the log.
	p := make(json.RawMessage, len(payload))
	copy(p, payload)
	return BillerInteraction{Type: t, Payload: p, CreatedAt: time.Now().UTC()}
}
