package contracts

import (
	"context"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
)

type EventRecorder interface {
	Record(event.Event) error
}

// TxContext is what a handler sees inside one persistence transaction:
// repositories and the outbox recorder bound to the same scope.
type TxContext interface {
	Transactions() transaction.Repository
	Events() EventRecorder
}

// UnitOfWork runs a handler inside one persistence transaction. The
// transaction commits only when fn returns nil; any error rolls back every
// aggregate mutation and recorded event as one unit.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx TxContext) error) error
}
