package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/values"
	"github.com/shopspring/decimal"
)

// DBTX lets the repository run on either a *sql.DB or a *sql.Tx so the
// unit of work can bind it to one transaction scope.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type TransactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Add(t *transaction.Transaction) error {
	settings, err := json.Marshal(t.Settings)
	if err != nil {
		return err
	}

	var rebillAmount string
	var rebillStart, rebillFrequency int
	if t.Charge.Rebill != nil {
		rebillAmount = t.Charge.Rebill.Amount.String()
		rebillStart = t.Charge.Rebill.Start
		rebillFrequency = t.Charge.Rebill.Frequency
	}

	var first6, last4 string
	var expMonth, expYear int
	if t.Card != nil {
		first6 = t.Card.First6
		last4 = t.Card.Last4
		expMonth = t.Card.ExpirationMonth
		expYear = t.Card.ExpirationYear
	}

	_, err = r.db.Exec(
		`INSERT INTO transactions
		 (id, site_id, kind, rebill_operation, status, payment_type, biller_name,
		  amount, currency, rebill_amount, rebill_start, rebill_frequency, settings,
		  card_first6, card_last4, card_exp_month, card_exp_year, created_at,
		  threeds_version, secured_threed, free_sale, previous_transaction_id,
		  biller_transaction_id, code, reason, last_result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.SiteID,
		string(t.Kind),
		string(t.RebillOperation),
		string(t.Status),
		string(t.PaymentType),
		string(t.BillerName),
		t.Charge.Amount.Amount.String(),
		t.Charge.Amount.Currency,
		rebillAmount,
		rebillStart,
		rebillFrequency,
		string(settings),
		first6,
		last4,
		expMonth,
		expYear,
		t.CreatedAt,
		t.ThreedsVersion,
		boolToInt(t.SecuredWithThreeD),
		boolToInt(t.FreeSale),
		t.PreviousTransactionID,
		t.BillerTransactionID,
		t.Code,
		t.Reason,
		string(t.LastResult),
	)
	if err != nil {
		return err
	}

	return r.insertInteractions(t.ID, t.Interactions)
}

func (r *TransactionRepository) Update(t *transaction.Transaction) error {
	res, err := r.db.Exec(
		`UPDATE transactions
		 SET status = ?, threeds_version = ?, secured_threed = ?,
		     biller_transaction_id = ?, code = ?, reason = ?, last_result = ?
		 WHERE id = ?`,
		string(t.Status),
		t.ThreedsVersion,
		boolToInt(t.SecuredWithThreeD),
		t.BillerTransactionID,
		t.Code,
		t.Reason,
		string(t.LastResult),
		t.ID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return transaction.ErrNotFound
	}

	// Interactions are append-only: persist only the entries past what was
	// already stored.
	var stored int
	if err := r.db.QueryRow(
		`SELECT COUNT(*) FROM biller_interactions WHERE transaction_id = ?`,
		t.ID,
	).Scan(&stored); err != nil {
		return err
	}
	if stored < len(t.Interactions) {
		return r.insertInteractions(t.ID, t.Interactions[stored:])
	}
	return nil
}

func (r *TransactionRepository) insertInteractions(transactionID string, interactions []transaction.BillerInteraction) error {
	for _, in := range interactions {
		_, err := r.db.Exec(
			`INSERT INTO biller_interactions (transaction_id, type, payload, created_at)
			 VALUES (?, ?, ?, ?)`,
			transactionID,
			string(in.Type),
			[]byte(in.Payload),
			in.CreatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *TransactionRepository) FindByID(id string) (*transaction.Transaction, error) {
	row := r.db.QueryRow(
		`SELECT id, site_id, kind, rebill_operation, status, payment_type, biller_name,
		        amount, currency, rebill_amount, rebill_start, rebill_frequency, settings,
		        card_first6, card_last4, card_exp_month, card_exp_year, created_at,
		        threeds_version, secured_threed, free_sale, previous_transaction_id,
		        biller_transaction_id, code, reason, last_result
		 FROM transactions
		 WHERE id = ?`,
		id,
	)

	var t transaction.Transaction
	var kind, rebillOp, status, paymentType, billerName, lastResult string
	var amount, currency, rebillAmount, settingsJSON string
	var rebillStart, rebillFrequency, securedThreed, freeSale int
	var first6, last4 string
	var expMonth, expYear int
	var createdAt time.Time

	err := row.Scan(
		&t.ID,
		&t.SiteID,
		&kind,
		&rebillOp,
		&status,
		&paymentType,
		&billerName,
		&amount,
		&currency,
		&rebillAmount,
		&rebillStart,
		&rebillFrequency,
		&settingsJSON,
		&first6,
		&last4,
		&expMonth,
		&expYear,
		&createdAt,
		&t.ThreedsVersion,
		&securedThreed,
		&freeSale,
		&t.PreviousTransactionID,
		&t.BillerTransactionID,
		&t.Code,
		&t.Reason,
		&lastResult,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}
		return nil, err
	}

	t.Kind = transaction.Kind(kind)
	t.RebillOperation = transaction.RebillOperation(rebillOp)
	t.Status = transaction.Status(status)
	t.PaymentType = values.PaymentType(paymentType)
	t.BillerName = biller.Name(billerName)
	t.LastResult = biller.Result(lastResult)
	t.CreatedAt = createdAt
	t.SecuredWithThreeD = securedThreed == 1
	t.FreeSale = freeSale == 1

	if err := json.Unmarshal([]byte(settingsJSON), &t.Settings); err != nil {
		return nil, err
	}

	if currency != "" {
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		t.Charge.Amount = values.Money{Amount: amt, Currency: currency}
	}
	if rebillAmount != "" {
		amt, err := decimal.NewFromString(rebillAmount)
		if err != nil {
			return nil, err
		}
		t.Charge.Rebill = &values.RebillSchedule{
			Amount:    values.Money{Amount: amt, Currency: currency},
			Start:     rebillStart,
			Frequency: rebillFrequency,
		}
	}
	if first6 != "" {
		t.Card = &values.CreditCardInfo{
			First6:          first6,
			Last4:           last4,
			ExpirationMonth: expMonth,
			ExpirationYear:  expYear,
		}
	}

	interactions, err := r.findInteractions(t.ID)
	if err != nil {
		return nil, err
	}
	t.Interactions = interactions

	return &t, nil
}

func (r *TransactionRepository) findInteractions(transactionID string) ([]transaction.BillerInteraction, error) {
	rows, err := r.db.Query(
		`SELECT type, payload, created_at
		 FROM biller_interactions
		 WHERE transaction_id = ?
		 ORDER BY id`,
		transactionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interactions []transaction.BillerInteraction
	for rows.Next() {
		var in transaction.BillerInteraction
		var typ string
		var payload []byte

		if err := rows.Scan(&typ, &payload, &in.CreatedAt); err != nil {
			return nil, err
		}
		in.Type = transaction.InteractionType(typ)
		in.Payload = payload
		interactions = append(interactions, in)
	}
	return interactions, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
