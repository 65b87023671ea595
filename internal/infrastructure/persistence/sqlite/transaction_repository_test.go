package sqlite_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/application/contracts"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/values"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/outbox"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/persistence/sqlite"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/resilience"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.RunMigrations(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func testTransaction(t *testing.T) *transaction.Transaction {
	t.Helper()

	money, err := values.NewMoney(decimal.NewFromFloat(29.95), "USD")
	require.NoError(t, err)

	card, err := values.ObfuscateCard("4111111111111111", 6, 2028)
	require.NoError(t, err)

	return transaction.NewCharge(
		"site-1",
		biller.Rocketgate,
		values.PaymentTypeCreditCard,
		values.ChargeInformation{
			Amount: money,
			Rebill: &values.RebillSchedule{Amount: money, Start: 30, Frequency: 30},
		},
		values.BillerChargeSettings{MerchantID: "m-1", MerchantPassword: "s3cret", IsNSFSupported: true},
		&card,
	)
}

func TestTransactionRepository_AddAndFindByID_ShouldRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewTransactionRepository(db)

	tx := testTransaction(t)
	tx.ApplyBillerResponse(biller.Response{
		Result:              biller.ResultPending,
		Code:                "2",
		Reason:              "225",
		BillerTransactionID: "guid-1",
		Request:             json.RawMessage(`{"amount":"29.95"}`),
		RawResponse:         json.RawMessage(`{"reasonCode":"225"}`),
	})
	require.NoError(t, tx.SetThreedsVersion(2))

	require.NoError(t, repo.Add(tx))

	got, err := repo.FindByID(tx.ID)
	require.NoError(t, err)

	require.Equal(t, tx.ID, got.ID)
	require.Equal(t, transaction.StatusPending, got.Status)
	require.Equal(t, transaction.KindCharge, got.Kind)
	require.Equal(t, biller.Rocketgate, got.BillerName)
	require.Equal(t, "29.95", got.Charge.Amount.String())
	require.Equal(t, "USD", got.Charge.Amount.Currency)
	require.NotNil(t, got.Charge.Rebill)
	require.Equal(t, 30, got.Charge.Rebill.Frequency)
	require.Equal(t, "m-1", got.Settings.MerchantID)
	require.True(t, got.Settings.IsNSFSupported)
	require.NotNil(t, got.Card)
	require.Equal(t, "411111", got.Card.First6)
	require.Equal(t, "1111", got.Card.Last4)
	require.Equal(t, 2, got.ThreedsVersion)
	require.True(t, got.SecuredWithThreeD)
	require.Equal(t, "guid-1", got.BillerTransactionID)
	require.Equal(t, biller.ResultPending, got.LastResult)

	require.Len(t, got.Interactions, 2)
	require.Equal(t, transaction.InteractionRequest, got.Interactions[0].Type)
	require.Equal(t, transaction.InteractionResponse, got.Interactions[1].Type)
}

func TestTransactionRepository_FindByID_WhenMissing_ShouldReturnNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewTransactionRepository(db)

	_, err := repo.FindByID("missing")
	require.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestTransactionRepository_Update_ShouldAppendOnlyNewInteractions(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewTransactionRepository(db)

	tx := testTransaction(t)
	tx.ApplyBillerResponse(biller.Response{
		Result:      biller.ResultPending,
		RawResponse: json.RawMessage(`{"reasonCode":"202"}`),
	})
	require.NoError(t, repo.Add(tx))

	// A later response settles the charge and adds one more interaction.
	tx.ApplyBillerResponse(biller.Response{
		Result:      biller.ResultApproved,
		RawResponse: json.RawMessage(`{"reasonCode":"0","guidNo":"guid-2"}`),
	})
	require.NoError(t, tx.Approve())
	require.NoError(t, repo.Update(tx))

	got, err := repo.FindByID(tx.ID)
	require.NoError(t, err)
	require.Equal(t, transaction.StatusApproved, got.Status)
	require.Len(t, got.Interactions, 2)

	// A second identical update must not duplicate history.
	require.NoError(t, repo.Update(tx))
	got, err = repo.FindByID(tx.ID)
	require.NoError(t, err)
	require.Len(t, got.Interactions, 2)
}

func TestTransactionRepository_Update_WhenMissing_ShouldReturnNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewTransactionRepository(db)

	tx := testTransaction(t)
	err := repo.Update(tx)
	require.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestUnitOfWork_WhenHandlerSucceeds_ShouldCommitTransactionAndEvents(t *testing.T) {
	db := setupTestDB(t)
	uow := sqlite.NewUnitOfWork(db)

	var id string
	err := uow.WithinTx(context.Background(), func(tx contracts.TxContext) error {
		tr := testTransaction(t)
		id = tr.ID
		if err := tx.Transactions().Add(tr); err != nil {
			return err
		}
		return tx.Events().Record(event.Event{
			Type:    event.ChargeTransactionCreated,
			Payload: event.NewTransactionPayload(tr, nil),
		})
	})
	require.NoError(t, err)

	repo := sqlite.NewTransactionRepository(db)
	_, err = repo.FindByID(id)
	require.NoError(t, err)

	events, err := outbox.NewSQLiteRepository(db).FindUnpublished(10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, event.ChargeTransactionCreated, events[0].Type)
}

func TestUnitOfWork_WhenHandlerFails_ShouldRollBackEverything(t *testing.T) {
	db := setupTestDB(t)
	uow := sqlite.NewUnitOfWork(db)

	boom := errors.New("handler failed")
	var id string
	err := uow.WithinTx(context.Background(), func(tx contracts.TxContext) error {
		tr := testTransaction(t)
		id = tr.ID
		if err := tx.Transactions().Add(tr); err != nil {
			return err
		}
		if err := tx.Events().Record(event.Event{
			Type:    event.ChargeTransactionCreated,
			Payload: event.NewTransactionPayload(tr, nil),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	repo := sqlite.NewTransactionRepository(db)
	_, err = repo.FindByID(id)
	require.ErrorIs(t, err, transaction.ErrNotFound)

	events, err := outbox.NewSQLiteRepository(db).FindUnpublished(10)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestBreakerStore_ShouldUpsertAndListStates(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewBreakerStore(db)

	// Unknown keys read as closed.
	st, err := store.Get("rocketgate:charge_new")
	require.NoError(t, err)
	require.Equal(t, resilience.StatusClosed, st.Status)

	require.NoError(t, store.Set("rocketgate:charge_new", resilience.State{
		Status:   resilience.StatusClosed,
		Failures: 2,
	}))
	require.NoError(t, store.Set("rocketgate:charge_new", resilience.State{
		Status:   resilience.StatusClosed,
		Failures: 3,
	}))

	st, err = store.Get("rocketgate:charge_new")
	require.NoError(t, err)
	require.Equal(t, 3, st.Failures)

	require.NoError(t, store.Set("netbilling:charge_new", resilience.State{
		Status: resilience.StatusOpen,
	}))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, resilience.StatusOpen, all["netbilling:charge_new"].Status)
}
