package orchestration

import (
	"context"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/application/contracts"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/values"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/threeds"
)

// ThreeDLookup runs the 3DS2 pre-charge authentication lookup. Frictionless
// and bypass cards proceed straight to the charge; challenge-required cards
// stay pending with the step-up fields projected for client redirection.
func (s *Service) ThreeDLookup(ctx context.Context, cmd ThreeDLookupCommand) (TransactionDTO, error) {
	if err := cmd.Validate(); err != nil {
		return TransactionDTO{}, err
	}
	name, _ := biller.ParseName(cmd.BillerName)

	var dto TransactionDTO
	err := s.UoW.WithinTx(ctx, func(tx contracts.TxContext) error {
		var card *values.CreditCardInfo
		var details *biller.CardDetails
		if cmd.Card != nil {
			obf, err := values.ObfuscateCard(cmd.Card.Number, cmd.Card.ExpirationMonth, cmd.Card.ExpirationYear)
			if err != nil {
				return err
			}
			card = &obf
			details = &biller.CardDetails{
				Number:          cmd.Card.Number,
				CVV:             cmd.Card.CVV,
				ExpirationMonth: cmd.Card.ExpirationMonth,
				ExpirationYear:  cmd.Card.ExpirationYear,
			}
		}

		t := transaction.NewCharge(cmd.SiteID, name, values.PaymentTypeCreditCard, cmd.Charge, cmd.Settings, card)
		if err := tx.Transactions().Add(t); err != nil {
			return err
		}
		s.record(tx, event.ChargeTransactionCreated, t, nil)

		lookuper, err := s.Billers.Lookuper(name)
		if err != nil {
			return err
		}

		s.Metrics.IncBillerCalls()
		resp, err := lookuper.Lookup(ctx, biller.LookupCommand{
			TransactionID:     t.ID,
			SiteID:            cmd.SiteID,
			Charge:            cmd.Charge,
			Settings:          cmd.Settings,
			Card:              details,
			CardHash:          cmd.CardHash,
			DeviceFingerprint: cmd.DeviceFingerprint,
			ReturnURL:         cmd.ReturnURL,
		})
		if err != nil {
			dto, err = s.abortOn(tx, t, err)
			return err
		}

		if err := s.ThreeDS.Apply(t, resp); err != nil {
			return err
		}

		switch s.ThreeDS.Classify(resp) {
		case threeds.OutcomeChallenge:
			if err := tx.Transactions().Update(t); err != nil {
				return err
			}
			s.record(tx, event.TransactionUpdated, t, &resp)
			dto = CreateFromTransaction(t, &resp)
			return nil
		case threeds.OutcomeFrictionless, threeds.OutcomeBypass:
			// Authentication needs no challenge: charge immediately.
			adapter, err := s.Billers.Adapter(name)
			if err != nil {
				return err
			}
			dto, err = s.settle(tx, t, func() (biller.Response, error) {
				s.Metrics.IncBillerCalls()
				chargeCmd := biller.ChargeCommand{
					TransactionID: t.ID,
					SiteID:        cmd.SiteID,
					PaymentType:   values.PaymentTypeCreditCard,
					Charge:        cmd.Charge,
					Settings:      cmd.Settings,
					Card:          details,
					CardHash:      cmd.CardHash,
					UseThreeDS:    true,
				}
				if details != nil {
					return adapter.ChargeNew(ctx, chargeCmd)
				}
				return adapter.ChargeExisting(ctx, chargeCmd)
			})
			return err
		}

		// A lookup that is neither challenge nor frictionless already
		// carries the final result.
		dto, err = s.settle(tx, t, func() (biller.Response, error) {
			return resp, nil
		})
		return err
	})
	if err != nil {
		return TransactionDTO{}, err
	}
	return dto, nil
}

// ThreeDComplete finalizes a pending 3DS transaction with the PARES or MD
// token brought back from the challenge. A malformed PARES declines the
// transaction without a biller round trip, preserving the transaction id.
func (s *Service) ThreeDComplete(ctx context.Context, cmd ThreeDCompleteCommand) (TransactionDTO, error) {
	if err := cmd.Validate(); err != nil {
		return TransactionDTO{}, err
	}

	var dto TransactionDTO
	err := s.UoW.WithinTx(ctx, func(tx contracts.TxContext) error {
		t, err := tx.Transactions().FindByID(cmd.TransactionID)
		if err != nil {
			return err
		}
		if t.Kind != transaction.KindCharge {
			return transaction.ErrNotFound
		}
		if err := s.ThreeDS.ValidateCompletion(t, cmd.Pares, cmd.MD); err != nil {
			return err
		}

		if cmd.Pares != "" && !threeds.ValidPares(cmd.Pares) {
			t.Code, t.Reason = threeds.AuthFailureCodes()
			t.LastResult = biller.ResultDeclined
			if err := t.Decline(); err != nil {
				return err
			}
			if err := tx.Transactions().Update(t); err != nil {
				return err
			}
			s.record(tx, event.TransactionUpdated, t, nil)
			s.Metrics.IncDeclined()
			dto = CreateFromEntity(t)
			return nil
		}

		adapter, err := s.Billers.Adapter(t.BillerName)
		if err != nil {
			return err
		}

		dto, err = s.settle(tx, t, func() (biller.Response, error) {
			s.Metrics.IncBillerCalls()
			return adapter.CompleteThreeD(ctx, biller.CompleteThreeDCommand{
				TransactionID:       t.ID,
				BillerTransactionID: t.DeriveBillerTransactionID(),
				Settings:            t.Settings,
				Pares:               cmd.Pares,
				MD:                  cmd.MD,
			})
		})
		return err
	})
	if err != nil {
		return TransactionDTO{}, err
	}
	return dto, nil
}
