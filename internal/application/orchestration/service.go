// Package orchestration owns the command surface of the transaction core:
// every mutating command runs through the idempotent unit-of-work, delegates
// to the matching biller adapter, and settles the transaction into exactly
// one terminal state.
package orchestration

import (
	"context"
	"errors"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/application/contracts"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/values"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infra/logging"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/threeds"
)

// AdapterFactory selects the biller adapter at call time, keyed on biller
// name.
type AdapterFactory interface {
	Adapter(name biller.Name) (biller.Adapter, error)
	Lookuper(name biller.Name) (biller.Lookuper, error)
}

type Service struct {
	UoW     contracts.UnitOfWork
	Billers AdapterFactory
	ThreeDS *threeds.Controller
	Logger  logging.Logger
	Metrics *metrics.Counters
}

// NewSale charges a new payment instrument. Cross-sales are appended
// sequentially after the main charge, each as its own transaction, and a
// cross-sale failure never unwinds an already-settled main charge's result
// within the response.
func (s *Service) NewSale(ctx context.Context, cmd NewSaleCommand) ([]TransactionDTO, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	name, _ := biller.ParseName(cmd.BillerName)

	var dtos []TransactionDTO
	err := s.UoW.WithinTx(ctx, func(tx contracts.TxContext) error {
		dto, err := s.chargeOne(ctx, tx, name, cmd.SiteID, cmd.PaymentType, cmd.Charge, cmd)
		if err != nil {
			return err
		}
		dtos = append(dtos, dto)

		for _, cs := range cmd.CrossSales {
			dto, err := s.chargeOne(ctx, tx, name, cs.SiteID, cmd.PaymentType, cs.Charge, cmd)
			if err != nil {
				return err
			}
			dtos = append(dtos, dto)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dtos, nil
}

func (s *Service) chargeOne(ctx context.Context, tx contracts.TxContext, name biller.Name, siteID string, paymentType values.PaymentType, charge values.ChargeInformation, cmd NewSaleCommand) (TransactionDTO, error) {
	var card *values.CreditCardInfo
	var details *biller.CardDetails
	if cmd.Card != nil {
		obf, err := values.ObfuscateCard(cmd.Card.Number, cmd.Card.ExpirationMonth, cmd.Card.ExpirationYear)
		if err != nil {
			return TransactionDTO{}, err
		}
		card = &obf
		details = &biller.CardDetails{
			Number:          cmd.Card.Number,
			CVV:             cmd.Card.CVV,
			ExpirationMonth: cmd.Card.ExpirationMonth,
			ExpirationYear:  cmd.Card.ExpirationYear,
			HolderName:      cmd.Card.HolderName,
		}
	}

	t := transaction.NewCharge(siteID, name, paymentType, charge, cmd.Settings, card)
	if err := tx.Transactions().Add(t); err != nil {
		return TransactionDTO{}, err
	}
	s.record(tx, event.ChargeTransactionCreated, t, nil)

	adapter, err := s.Billers.Adapter(name)
	if err != nil {
		return TransactionDTO{}, err
	}

	return s.settle(tx, t, func() (biller.Response, error) {
		s.Metrics.IncBillerCalls()
		return adapter.ChargeNew(ctx, biller.ChargeCommand{
			TransactionID: t.ID,
			SiteID:        siteID,
			PaymentType:   paymentType,
			Charge:        charge,
			Settings:      cmd.Settings,
			Card:          details,
			MemberID:      cmd.MemberID,
			UseThreeDS:    cmd.UseThreeDS,
		})
	})
}

// ExistingCardSale charges an instrument the biller already holds, keyed by
// card hash.
func (s *Service) ExistingCardSale(ctx context.Context, cmd ExistingCardSaleCommand) (TransactionDTO, error) {
	if err := cmd.Validate(); err != nil {
		return TransactionDTO{}, err
	}
	name, _ := biller.ParseName(cmd.BillerName)

	var dto TransactionDTO
	err := s.UoW.WithinTx(ctx, func(tx contracts.TxContext) error {
		t := transaction.NewCharge(cmd.SiteID, name, values.PaymentTypeCreditCard, cmd.Charge, cmd.Settings, nil)
		if err := tx.Transactions().Add(t); err != nil {
			return err
		}
		s.record(tx, event.ChargeTransactionCreated, t, nil)

		adapter, err := s.Billers.Adapter(name)
		if err != nil {
			return err
		}

		dto, err = s.settle(tx, t, func() (biller.Response, error) {
			s.Metrics.IncBillerCalls()
			return adapter.ChargeExisting(ctx, biller.ChargeCommand{
				TransactionID: t.ID,
				SiteID:        cmd.SiteID,
				PaymentType:   values.PaymentTypeCreditCard,
				Charge:        cmd.Charge,
				Settings:      cmd.Settings,
				CardHash:      cmd.CardHash,
				MemberID:      cmd.MemberID,
				UseThreeDS:    cmd.UseThreeDS,
			})
		})
		return err
	})
	if err != nil {
		return TransactionDTO{}, err
	}
	return dto, nil
}

// RebillUpdate starts, stops, updates, suspends, or cancels a recurring
// schedule anchored to a previous charge.
func (s *Service) RebillUpdate(ctx context.Context, cmd RebillUpdateCommand) (TransactionDTO, error) {
	if err := cmd.Validate(); err != nil {
		return TransactionDTO{}, err
	}
	name, _ := biller.ParseName(cmd.BillerName)

	var dto TransactionDTO
	err := s.UoW.WithinTx(ctx, func(tx contracts.TxContext) error {
		prev, err := tx.Transactions().FindByID(cmd.PreviousTransactionID)
		if err != nil {
			if errors.Is(err, transaction.ErrNotFound) {
				return transaction.ErrPreviousNotFound
			}
			return err
		}
		if prev.Kind != transaction.KindCharge || prev.DeriveBillerTransactionID() == "" {
			return transaction.ErrPreviousCorruptedData
		}

		t := transaction.NewRebillUpdate(cmd.SiteID, name, transaction.RebillOperation(cmd.Operation), prev.ID, cmd.Settings, cmd.Rebill)
		if err := tx.Transactions().Add(t); err != nil {
			return err
		}
		s.record(tx, event.RebillUpdateTransactionCreated, t, nil)

		adapter, err := s.Billers.Adapter(name)
		if err != nil {
			return err
		}

		rebillCmd := biller.RebillCommand{
			TransactionID:         t.ID,
			SiteID:                cmd.SiteID,
			PreviousTransactionID: prev.ID,
			BillerTransactionID:   prev.DeriveBillerTransactionID(),
			Settings:              cmd.Settings,
			Rebill:                cmd.Rebill,
			MemberID:              cmd.MemberID,
		}

		dto, err = s.settle(tx, t, func() (biller.Response, error) {
			s.Metrics.IncBillerCalls()
			switch transaction.RebillOperation(cmd.Operation) {
			case transaction.RebillStart, transaction.RebillUpdate:
				return adapter.UpdateRebill(ctx, rebillCmd)
			default:
				return adapter.SuspendRebill(ctx, rebillCmd)
			}
		})
		return err
	})
	if err != nil {
		return TransactionDTO{}, err
	}
	return dto, nil
}

// Abort finishes a pending transaction whose biller call never produced a
// result. A second abort for the same id surfaces ErrAlreadyProcessed, the
// duplicate-postback defense.
func (s *Service) Abort(ctx context.Context, cmd AbortCommand) (TransactionDTO, error) {
	if err := cmd.Validate(); err != nil {
		return TransactionDTO{}, err
	}

	var dto TransactionDTO
	err := s.UoW.WithinTx(ctx, func(tx contracts.TxContext) error {
		t, err := tx.Transactions().FindByID(cmd.TransactionID)
		if err != nil {
			return err
		}
		if t.Status.Terminal() {
			return transaction.ErrAlreadyProcessed
		}
		if err := t.Abort(); err != nil {
			return err
		}
		if err := tx.Transactions().Update(t); err != nil {
			return err
		}
		s.record(tx, event.TransactionUpdated, t, nil)
		s.Metrics.IncAborted()
		dto = CreateFromEntity(t)
		return nil
	})
	if err != nil {
		return TransactionDTO{}, err
	}
	return dto, nil
}

// Retrieve projects a stored transaction. Read-only; no unit of work.
func (s *Service) Retrieve(ctx context.Context, id string) (TransactionDTO, error) {
	var dto TransactionDTO
	err := s.UoW.WithinTx(ctx, func(tx contracts.TxContext) error {
		t, err := tx.Transactions().FindByID(id)
		if err != nil {
			return err
		}
		dto = CreateFromEntity(t)
		return nil
	})
	if err != nil {
		return TransactionDTO{}, err
	}
	return dto, nil
}

// settle runs the biller call and drives the transaction to its state. An
// unreachable biller aborts; a pending 3DS response leaves the transaction
// pending with the challenge data projected for the client.
func (s *Service) settle(tx contracts.TxContext, t *transaction.Transaction, call func() (biller.Response, error)) (TransactionDTO, error) {
	s.Metrics.IncProcessed()

	resp, err := call()
	if err != nil {
		if errors.Is(err, biller.ErrUnavailable) || errors.Is(err, biller.ErrMalformedResponse) {
			return s.abortOn(tx, t, err)
		}
		return TransactionDTO{}, err
	}

	if err := s.ThreeDS.Apply(t, resp); err != nil {
		return TransactionDTO{}, err
	}

	switch resp.Result {
	case biller.ResultApproved:
		if err := t.Approve(); err != nil {
			return TransactionDTO{}, err
		}
		s.Metrics.IncApproved()
	case biller.ResultDeclined:
		s.applyNSFBranch(t, resp)
		if err := t.Decline(); err != nil {
			return TransactionDTO{}, err
		}
		s.Metrics.IncDeclined()
	case biller.ResultPending:
		// 3DS challenge: stays pending until completion.
		s.Logger.Info("transaction pending authentication", map[string]any{
			"transaction-id": t.ID,
			"threeds":        t.ThreedsVersion,
		})
	case biller.ResultAborted:
		return s.abortOn(tx, t, nil)
	}

	if err := tx.Transactions().Update(t); err != nil {
		return TransactionDTO{}, err
	}
	s.record(tx, event.TransactionUpdated, t, &resp)

	s.Logger.Info("transaction settled", map[string]any{
		"transaction-id": t.ID,
		"biller":         string(t.BillerName),
		"status":         string(t.Status),
		"code":           t.Code,
	})

	return CreateFromTransaction(t, &resp), nil
}

// applyNSFBranch selects the decline pair after a failed 3DS bypass or
// challenge on billers without a bank code: NSF-capable billers report
// insufficient funds, the rest a generic decline.
func (s *Service) applyNSFBranch(t *transaction.Transaction, resp biller.Response) {
	if t.ThreedsVersion == 0 || resp.Extra.BankResponseCode != "" {
		return
	}
	t.Code, t.Reason = threeds.DeclineCodes(t.Settings.IsNSFSupported)
}

func (s *Service) abortOn(tx contracts.TxContext, t *transaction.Transaction, cause error) (TransactionDTO, error) {
	if err := t.Abort(); err != nil {
		return TransactionDTO{}, err
	}
	if err := tx.Transactions().Update(t); err != nil {
		return TransactionDTO{}, err
	}
	s.record(tx, event.TransactionUpdated, t, nil)
	s.Metrics.IncAborted()

	s.Logger.Error("transaction aborted", map[string]any{
		"transaction-id": t.ID,
		"biller":         string(t.BillerName),
		"cause":          causeString(cause),
	})

	return CreateFromTransaction(t, nil), nil
}

func causeString(err error) string {
	if err == nil {
		return "biller reported abort"
	}
	return err.Error()
}

func (s *Service) record(tx contracts.TxContext, typ event.Type, t *transaction.Transaction, resp *biller.Response) {
	// Event publication is fire-and-forget: a recorder failure is logged,
	// never surfaced to the caller.
	evt := event.Event{Type: typ, Payload: event.NewTransactionPayload(t, resp)}
	if err := tx.Events().Record(evt); err != nil {
		s.Logger.Error("failed to record event", map[string]any{
			"event":          string(typ),
			"transaction-id": t.ID,
			"error":          err.Error(),
		})
	}
}
