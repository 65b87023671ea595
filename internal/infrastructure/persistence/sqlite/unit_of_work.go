package sqlite

import (
	"context"
	"database/sql"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/application/contracts"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/outbox"
)

// UnitOfWork binds the transaction repository and the outbox recorder to
// one sql transaction: the handler's mutations and its recorded events
// commit or roll back as a single unit.
type UnitOfWork struct {
	DB *sql.DB
}

func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{DB: db}
}

type txContext struct {
	transactions *TransactionRepository
	events       *outbox.Recorder
}

func (c *txContext) Transactions() transaction.Repository {
	return c.transactions
}

func (c *txContext) Events() contracts.EventRecorder {
	return c.events
}

func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(tx contracts.TxContext) error) error {
	dbTx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	txc := &txContext{
		transactions: NewTransactionRepository(dbTx),
		events:       &outbox.Recorder{Repo: outbox.NewSQLiteRepository(dbTx)},
	}

	if err := fn(txc); err != nil {
		_ = dbTx.Rollback()
		return err
	}

	return dbTx.Commit()
}
