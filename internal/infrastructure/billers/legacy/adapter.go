// Package legacy routes charges through the legacy aggregator's JSON API.
// The aggregator fronts many downstream processors and replies with a
// normalized envelope, which makes this the thinnest translator of the set.
package legacy

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
	ClientID      string `json:"clientId"`
	ClientSecret  string `json:"clientSecret"`
	Operation     string `json:"operation"`
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
	MemberID      string `json:"memberId,omitempty"`
	SubscriptionID string `json:"subscriptionId,omitempty"`
}

type wireResponse struct {
	Status        string `json:"status"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}

func (r wireRequest) redacted() json.RawMessage {
	c := r
	if c.ClientSecret != "" {
		c.ClientSecret = "*******"
	}
	b, _ := json.Marshal(c)
	return b
}

func (a *Adapter) send(ctx context.Context, operation string, req wireRequest) (biller.Response, error) {
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

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return biller.Response{}, fmt.Errorf("%w: %v", biller.ErrMalformedResponse, err)
	}

	resp := biller.Response{
		Code:                wire.Code,
		Reason:              wire.Message,
		BillerTransactionID: wire.TransactionID,
		Request:             req.redacted(),
		RawResponse:         body,
	}

	switch wire.Status {
	case "approved":
		resp.Result = biller.ResultApproved
	case "pending":
		resp.Result = biller.ResultPending
	default:
		resp.Result = biller.ResultDeclined
	}

	return resp, nil
}

func (a *Adapter) ChargeNew(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	return a.send(ctx, "charge_new", wireRequest{
		ClientID:      cmd.Settings.ClientID,
		ClientSecret:  cmd.Settings.ClientSecret,
		Operation:     "charge",
		TransactionID: cmd.TransactionID,
		Amount:        cmd.Charge.Amount.String(),
		Currency:      cmd.Charge.Amount.Currency,
		MemberID:      cmd.MemberID,
	})
}

func (a *Adapter) ChargeExisting(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	return a.send(ctx, "charge_existing", wireRequest{
		ClientID:      cmd.Settings.ClientID,
		ClientSecret:  cmd.Settings.ClientSecret,
		Operation:     "charge_member",
		TransactionID: cmd.TransactionID,
		Amount:        cmd.Charge.Amount.String(),
		Currency:      cmd.Charge.Amount.Currency,
		MemberID:      cmd.MemberID,
	})
}

func (a *Adapter) CompleteThreeD(ctx context.Context, cmd biller.CompleteThreeDCommand) (biller.Response, error) {
	return biller.Response{}, biller.ErrOperationNotSupported
}

func (a *Adapter) SuspendRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	return a.send(ctx, "suspend_rebill", wireRequest{
		ClientID:       cmd.Settings.ClientID,
		ClientSecret:   cmd.Settings.ClientSecret,
		Operation:      "cancel_subscription",
		TransactionID:  cmd.TransactionID,
		MemberID:       cmd.MemberID,
		SubscriptionID: cmd.BillerTransactionID,
	})
}

func (a *Adapter) UpdateRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	req := wireRequest{
		ClientID:       cmd.Settings.ClientID,
		ClientSecret:   cmd.Settings.ClientSecret,
		Operation:      "update_subscription",
		TransactionID:  cmd.TransactionID,
		MemberID:       cmd.MemberID,
		SubscriptionID: cmd.BillerTransactionID,
	}
	if cmd.Rebill != nil {
		req.Amount = cmd.Rebill.Amount.String()
		req.Currency = cmd.Rebill.Amount.Currency
	}
	return a.send(ctx, "update_rebill", req)
}
