package outbox

import (
	"database/sql"
	"time"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/event"
)

type OutboxEvent struct {
	ID        string
	Type      event.Type
	Payload   []byte
	Published bool
	CreatedAt time.Time
}

// DBTX lets the repository run on either a *sql.DB or a *sql.Tx so the
// recorder can write inside the unit of work while the dispatcher polls
// outside it.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
}

type Repository interface {
	Save(OutboxEvent) error
	FindUnpublished(int) ([]OutboxEvent, error)
	MarkPublished(string) error
}
