package inmemory

import (
	"maps"
	"sync"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
)

type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*transaction.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]*transaction.Transaction),
	}
}

func (r *TransactionRepository) Add(t *transaction.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactions[t.ID] = t
	return nil
}

func (r *TransactionRepository) FindByID(id string) (*transaction.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transactions[id]
	if !ok {
		return nil, transaction.ErrNotFound
	}

	return t, nil
}

func (r *TransactionRepository) Update(t *transaction.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transactions[t.ID]; !ok {
		return transaction.ErrNotFound
	}

	r.transactions[t.ID] = t
	return nil
}

func (r *TransactionRepository) Transactions() map[string]*transaction.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Clone(r.transactions)
}
