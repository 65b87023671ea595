// Package pumapay translates canonical commands into the PumaPay crypto
// gateway's JSON API. Card-only operations are not supported here.
package pumapay

import (
	"context"
	"encoding/json"
	"fmt"
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

type wireRequest struct {
	APIKey        string `json:"apiKey"`
	BusinessID    string `json:"businessId"`
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
	PullPaymentID string `json:"pullPaymentId,omitempty"`
	Action        string `json:"action,omitempty"`
}

type wireResponse struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}

func (r wireRequest) redacted() json.RawMessage {
	c := r
	if c.APIKey != "" {
		c.APIKey = "*******"
	}
	b, _ := json.Marshal(c)
	return b
}

func (a *Adapter) send(ctx context.Context, operation, path string, req wireRequest) (biller.Response, error) {
	wireBody, err := json.Marshal(req)
	if err != nil {
		return biller.Response{}, err
	}

	body, err := a.Sender.Send(ctx, transport.Request{
		Operation:   operation,
		Method:      http.MethodPost,
		URL:         a.Endpoint + path,
		ContentType: "application/json",
		Body:        wireBody,
	})
	if err != nil {
		return biller.Response{}, err
	}

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return biller.Response{}, fmt.Errorf("%w: %v", biller.ErrMalformedResponse, err)
	}

	resp := biller.Response{
		Code:                wire.Status,
		Reason:              wire.Message,
		BillerTransactionID: wire.TransactionID,
		Request:             req.redacted(),
		RawResponse:         body,
	}

	// Crypto payments confirm asynchronously: the gateway accepts the
	// charge and the postback settles it later.
	switch {
	case wire.Success && wire.Status == "pending":
		resp.Result = biller.ResultPending
	case wire.Success:
		resp.Result = biller.ResultApproved
	default:
		resp.Result = biller.ResultDeclined
	}

	return resp, nil
}

func (a *Adapter) ChargeNew(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	return a.send(ctx, "charge_new", "/payments", wireRequest{
		APIKey:        cmd.Settings.APIKey,
		BusinessID:    cmd.Settings.MerchantID,
		TransactionID: cmd.TransactionID,
		Amount:        cmd.Charge.Amount.String(),
		Currency:      cmd.Charge.Amount.Currency,
	})
}

// ChargeExisting re-pulls from an established pull-payment contract.
func (a *Adapter) ChargeExisting(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	return a.send(ctx, "charge_existing", "/payments/pull", wireRequest{
		APIKey:        cmd.Settings.APIKey,
		BusinessID:    cmd.Settings.MerchantID,
		TransactionID: cmd.TransactionID,
		Amount:        cmd.Charge.Amount.String(),
		Currency:      cmd.Charge.Amount.Currency,
		PullPaymentID: cmd.CardHash,
	})
}

func (a *Adapter) CompleteThreeD(ctx context.Context, cmd biller.CompleteThreeDCommand) (biller.Response, error) {
	return biller.Response{}, biller.ErrOperationNotSupported
}

func (a *Adapter) SuspendRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	return a.send(ctx, "suspend_rebill", "/pull-payments/cancel", wireRequest{
		APIKey:        cmd.Settings.APIKey,
		BusinessID:    cmd.Settings.MerchantID,
		TransactionID: cmd.TransactionID,
		PullPaymentID: cmd.BillerTransactionID,
		Action:        "cancel",
	})
}

func (a *Adapter) UpdateRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	return biller.Response{}, biller.ErrOperationNotSupported
}
