package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/event"
)

type Recorder struct {
	Repo Repository
}

func (r *Recorder) Record(evt event.Event) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return err
	}

	return r.Repo.Save(OutboxEvent{
		ID:        uuid.NewString(),
		Type:      evt.Type,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	})
}
