// Package epoch translates canonical commands into Epoch's form-encoded
// member-billing API.
package epoch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

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

func (a *Adapter) send(ctx context.Context, operation string, form url.Values) (biller.Response, error) {
	redacted := redactForm(form)

	body, err := a.Sender.Send(ctx, transport.Request{
		Operation:   operation,
		Method:      http.MethodPost,
		URL:         a.Endpoint,
		ContentType: "application/x-www-form-urlencoded",
		Body:        []byte(form.Encode()),
	})
	if err != nil {
		return biller.Response{}, err
	}

	return parseResponse(body, redacted)
}

func redactForm(form url.Values) json.RawMessage {
	entry := make(map[string]string, len(form))
	for k := range form {
		v := form.Get(k)
		switch k {
		case "password", "epoch_key":
			v = "*******"
		case "card_number":
			if len(v) >= 10 {
				v = v[:6] + "XXXXXX" + v[len(v)-4:]
			}
		case "cvv":
			v = "***"
		}
		entry[k] = v
	}
	b, _ := json.Marshal(entry)
	return b
}

func parseResponse(body []byte, request json.RawMessage) (biller.Response, error) {
	fields, err := url.ParseQuery(string(body))
	if err != nil {
		return biller.Response{}, fmt.Errorf("%w: %v", biller.ErrMalformedResponse, err)
	}

	ans := fields.Get("ans")
	if ans == "" {
		return biller.Response{}, fmt.Errorf("%w: missing ans", biller.ErrMalformedResponse)
	}

	raw, _ := json.Marshal(map[string]string{
		"ans":            ans,
		"answer_detail":  fields.Get("answer_detail"),
		"transaction_id": fields.Get("transaction_id"),
		"member_id":      fields.Get("member_id"),
	})

	resp := biller.Response{
		Code:                ans,
		Reason:              fields.Get("answer_detail"),
		BillerTransactionID: fields.Get("transaction_id"),
		Request:             request,
		RawResponse:         raw,
	}

	if ans == "Y" {
		resp.Result = biller.ResultApproved
	} else {
		resp.Result = biller.ResultDeclined
	}

	return resp, nil
}

func (a *Adapter) baseForm(settings billerFields) url.Values {
	form := url.Values{}
	form.Set("product_id", settings.ProductID)
	form.Set("epoch_key", settings.Key)
	return form
}

type billerFields struct {
	ProductID string
	Key       string
}

func (a *Adapter) ChargeNew(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	if cmd.Card == nil {
		return biller.Response{}, biller.ErrMalformedResponse
	}
	form := a.baseForm(billerFields{ProductID: cmd.Settings.MerchantID, Key: cmd.Settings.APIKey})
	form.Set("action", "sale")
	form.Set("amount", cmd.Charge.Amount.String())
	form.Set("currency", cmd.Charge.Amount.Currency)
	form.Set("card_number", cmd.Card.Number)
	form.Set("card_expire", fmt.Sprintf("%02d%02d", cmd.Card.ExpirationMonth, cmd.Card.ExpirationYear%100))
	form.Set("cvv", cmd.Card.CVV)
	form.Set("reference", cmd.TransactionID)
	return a.send(ctx, "charge_new", form)
}

func (a *Adapter) ChargeExisting(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	form := a.baseForm(billerFields{ProductID: cmd.Settings.MerchantID, Key: cmd.Settings.APIKey})
	form.Set("action", "sale")
	form.Set("amount", cmd.Charge.Amount.String())
	form.Set("currency", cmd.Charge.Amount.Currency)
	form.Set("member_id", cmd.MemberID)
	form.Set("reference", cmd.TransactionID)
	return a.send(ctx, "charge_existing", form)
}

func (a *Adapter) CompleteThreeD(ctx context.Context, cmd biller.CompleteThreeDCommand) (biller.Response, error) {
	return biller.Response{}, biller.ErrOperationNotSupported
}

func (a *Adapter) SuspendRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	form := a.baseForm(billerFields{ProductID: cmd.Settings.MerchantID, Key: cmd.Settings.APIKey})
	form.Set("action", "cancelmember")
	form.Set("member_id", cmd.MemberID)
	form.Set("reference", cmd.TransactionID)
	return a.send(ctx, "suspend_rebill", form)
}

func (a *Adapter) UpdateRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	return biller.Response{}, biller.ErrOperationNotSupported
}
