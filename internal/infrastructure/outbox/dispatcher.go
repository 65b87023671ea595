package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/event"
)

type EventPublisher interface {
	Publish(event.Event) error
}

// Dispatcher drains the outbox into the event bus. Publication is
// best-effort: events that fail to publish stay unmarked and are retried on
// the next poll.
type Dispatcher struct {
	Repo         Repository
	EventBus     EventPublisher
	PollInterval time.Duration
	BatchSize    int
}

func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DispatchOnce()
		}
	}
}

func (d *Dispatcher) DispatchOnce() {
	events, err := d.Repo.FindUnpublished(d.BatchSize)
	if err != nil {
		return
	}

	for _, evt := range events {
		var payload event.TransactionPayload
		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			continue
		}

		domainEvent := event.Event{
			Type:    evt.Type,
			Payload: payload,
		}

		if err := d.EventBus.Publish(domainEvent); err != nil {
			continue
		}

		_ = d.Repo.MarkPublished(evt.ID)
	}
}
