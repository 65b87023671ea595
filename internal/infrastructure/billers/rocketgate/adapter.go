// Package rocketgate translates canonical commands into Rocketgate
// gateway-service calls and replies back into canonical responses.
package rocketgate

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/transport"
)

type Adapter struct {
	Sender   transport.Sender
	Endpoint string
}

func New(sender transport.Sender, endpoint string) *Adapter {
	return &Adapter{Sender: sender, Endpoint: endpoint}
}

func (a *Adapter) send(ctx context.Context, operation string, req chargeRequest) (biller.Response, error) {
	wireBody, err := json.Marshal(req)
	if err != nil {
		return biller.Response{}, err
	}

	body, err := a.Sender.Send(ctx, transport.Request{
		Operation:   operation,
		Method:      http.MethodPost,
		URL:         a.Endpoint,
		ContentType: "application/json",
		Body:        wireBody,
	})
	if err != nil {
		return biller.Response{}, err
	}

	return parseResponse(body, req.redacted())
}

func (a *Adapter) ChargeNew(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	if cmd.Card == nil {
		return biller.Response{}, biller.ErrMalformedResponse
	}
	req := chargeRequest{
		MerchantID:         cmd.Settings.MerchantID,
		MerchantPassword:   cmd.Settings.MerchantPassword,
		MerchantSiteID:     cmd.Settings.MerchantSiteID,
		MerchantCustomerID: cmd.MemberID,
		MerchantInvoiceID:  cmd.TransactionID,
		Amount:             cmd.Charge.Amount.String(),
		CurrencyCode:       cmd.Charge.Amount.Currency,
		CardNo:             cmd.Card.Number,
		ExpireMonth:        cmd.Card.ExpirationMonth,
		ExpireYear:         cmd.Card.ExpirationYear,
		CVV2:               cmd.Card.CVV,
		Use3DSecure:        cmd.UseThreeDS,
	}
	if cmd.Charge.Rebill != nil {
		req.RebillStart = cmd.Charge.Rebill.Start
		req.RebillFrequency = cmd.Charge.Rebill.Frequency
		req.RebillAmount = cmd.Charge.Rebill.Amount.String()
	}
	return a.send(ctx, "charge_new", req)
}

func (a *Adapter) ChargeExisting(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	req := chargeRequest{
		MerchantID:         cmd.Settings.MerchantID,
		MerchantPassword:   cmd.Settings.MerchantPassword,
		MerchantSiteID:     cmd.Settings.MerchantSiteID,
		MerchantCustomerID: cmd.MemberID,
		MerchantInvoiceID:  cmd.TransactionID,
		Amount:             cmd.Charge.Amount.String(),
		CurrencyCode:       cmd.Charge.Amount.Currency,
		CardHash:           cmd.CardHash,
		Use3DSecure:        cmd.UseThreeDS,
	}
	if cmd.Charge.Rebill != nil {
		req.RebillStart = cmd.Charge.Rebill.Start
		req.RebillFrequency = cmd.Charge.Rebill.Frequency
		req.RebillAmount = cmd.Charge.Rebill.Amount.String()
	}
	return a.send(ctx, "charge_existing", req)
}

func (a *Adapter) CompleteThreeD(ctx context.Context, cmd biller.CompleteThreeDCommand) (biller.Response, error) {
	req := chargeRequest{
		MerchantID:       cmd.Settings.MerchantID,
		MerchantPassword: cmd.Settings.MerchantPassword,
		ReferenceGUID:    cmd.BillerTransactionID,
		PARES:            cmd.Pares,
		ThreeDSecureMD:   cmd.MD,
	}
	return a.send(ctx, "complete_threed", req)
}

// Lookup is the 3DS2 pre-charge authentication call.
func (a *Adapter) Lookup(ctx context.Context, cmd biller.LookupCommand) (biller.Response, error) {
	req := chargeRequest{
		MerchantID:        cmd.Settings.MerchantID,
		MerchantPassword:  cmd.Settings.MerchantPassword,
		MerchantSiteID:    cmd.Settings.MerchantSiteID,
		MerchantInvoiceID: cmd.TransactionID,
		Amount:            cmd.Charge.Amount.String(),
		CurrencyCode:      cmd.Charge.Amount.Currency,
		CardHash:          cmd.CardHash,
		PerformLookup:     true,
		BrowserData:       cmd.DeviceFingerprint,
		ReturnURL:         cmd.ReturnURL,
	}
	if cmd.Card != nil {
		req.CardNo = cmd.Card.Number
		req.ExpireMonth = cmd.Card.ExpirationMonth
		req.ExpireYear = cmd.Card.ExpirationYear
	}
	return a.send(ctx, "lookup", req)
}

func (a *Adapter) SuspendRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	req := chargeRequest{
		MerchantID:         cmd.Settings.MerchantID,
		MerchantPassword:   cmd.Settings.MerchantPassword,
		MerchantCustomerID: cmd.MemberID,
		ReferenceGUID:      cmd.BillerTransactionID,
		RebillSuspend:      true,
	}
	return a.send(ctx, "suspend_rebill", req)
}

func (a *Adapter) UpdateRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	req := chargeRequest{
		MerchantID:         cmd.Settings.MerchantID,
		MerchantPassword:   cmd.Settings.MerchantPassword,
		MerchantCustomerID: cmd.MemberID,
		ReferenceGUID:      cmd.BillerTransactionID,
	}
	if cmd.Rebill != nil {
		req.RebillStart = cmd.Rebill.Start
		req.RebillFrequency = cmd.Rebill.Frequency
		req.RebillAmount = cmd.Rebill.Amount.String()
	}
	return a.send(ctx, "update_rebill", req)
}
