package inmemory

import (
	"context"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/application/contracts"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
)

// UnitOfWork runs handlers against the in-memory repository. There is no
// real rollback: recorded events are buffered and dropped when the handler
// errors, which is enough for tests and single-node development runs.
type UnitOfWork struct {
	Repo     *TransactionRepository
	Recorder contracts.EventRecorder
}

type txContext struct {
	repo   transaction.Repository
	buffer []event.Event
}

func (c *txContext) Transactions() transaction.Repository {
	return c.repo
}

func (c *txContext) Events() contracts.EventRecorder {
	return (*bufferRecorder)(c)
}

type bufferRecorder txContext

func (b *bufferRecorder) Record(evt event.Event) error {
	b.buffer = append(b.buffer, evt)
	return nil
}

func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(tx contracts.TxContext) error) error {
	txc := &txContext{repo: u.Repo}

	if err := fn(txc); err != nil {
		return err
	}

	if u.Recorder != nil {
		for _, evt := range txc.buffer {
			if err := u.Recorder.Record(evt); err != nil {
				return err
			}
		}
	}
	return nil
}
