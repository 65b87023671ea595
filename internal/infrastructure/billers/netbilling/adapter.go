// Package netbilling translates canonical commands into Netbilling's
// form-encoded direct-mode protocol.
package netbilling

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

// redactForm renders the outgoing form as JSON for the interaction log with
// secret fields masked.
func redactForm(form url.Values) json.RawMessage {
	entry := make(map[string]string, len(form))
	for k := range form {
		v := form.Get(k)
		switch k {
		case "account_password", "crypt":
			v = "*******"
		case "card_number":
			if len(v) >= 10 {
				v = v[:6] + "XXXXXX" + v[len(v)-4:]
			}
		case "card_cvv2":
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

	status := fields.Get("status_code")
	if status == "" {
		return biller.Response{}, fmt.Errorf("%w: missing status_code", biller.ErrMalformedResponse)
	}

	raw, _ := json.Marshal(map[string]string{
		"status_code":  status,
		"auth_msg":     fields.Get("auth_msg"),
		"trans_id":     fields.Get("trans_id"),
		"auth_code":    fields.Get("auth_code"),
		"reason_code2": fields.Get("reason_code2"),
	})

	resp := biller.Response{
		Code:                status,
		Reason:              fields.Get("auth_msg"),
		BillerTransactionID: fields.Get("trans_id"),
		Request:             request,
		RawResponse:         raw,
		Extra: biller.ExtraData{
			BankResponseCode: fields.Get("reason_code2"),
		},
	}

	// "1" is an approved live charge, "T" an approved test charge.
	switch status {
	case "1", "T":
		resp.Result = biller.ResultApproved
	default:
		resp.Result = biller.ResultDeclined
	}

	return resp, nil
}

func (a *Adapter) baseForm(settings billerSettings) url.Values {
	form := url.Values{}
	form.Set("account_id", settings.AccountID)
	form.Set("site_tag", settings.SiteTag)
	form.Set("account_password", settings.MerchantPassword)
	return form
}

type billerSettings struct {
	AccountID        string
	SiteTag          string
	MerchantPassword string
}

func settingsOf(cmd biller.ChargeCommand) billerSettings {
	return billerSettings{
		AccountID:        cmd.Settings.AccountID,
		SiteTag:          cmd.Settings.SiteTag,
		MerchantPassword: cmd.Settings.MerchantPassword,
	}
}

func (a *Adapter) ChargeNew(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	if cmd.Card == nil {
		return biller.Response{}, biller.ErrMalformedResponse
	}
	form := a.baseForm(settingsOf(cmd))
	form.Set("pay_type", "C")
	form.Set("tran_type", "S")
	form.Set("amount", cmd.Charge.Amount.String())
	form.Set("card_number", cmd.Card.Number)
	form.Set("card_expire", fmt.Sprintf("%02d%02d", cmd.Card.ExpirationMonth, cmd.Card.ExpirationYear%100))
	form.Set("card_cvv2", cmd.Card.CVV)
	form.Set("description", cmd.TransactionID)
	if cmd.Charge.Rebill != nil {
		form.Set("member_id", cmd.MemberID)
		form.Set("recurring_period", fmt.Sprintf("%d", cmd.Charge.Rebill.Frequency))
		form.Set("recurring_amount", cmd.Charge.Rebill.Amount.String())
	}
	return a.send(ctx, "charge_new", form)
}

func (a *Adapter) ChargeExisting(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	form := a.baseForm(settingsOf(cmd))
	form.Set("pay_type", "C")
	form.Set("tran_type", "S")
	form.Set("amount", cmd.Charge.Amount.String())
	form.Set("card_number", "CS:"+cmd.CardHash)
	form.Set("description", cmd.TransactionID)
	return a.send(ctx, "charge_existing", form)
}

// CompleteThreeD is unsupported: Netbilling charges are never routed
// through a 3DS flow on this gateway.
func (a *Adapter) CompleteThreeD(ctx context.Context, cmd biller.CompleteThreeDCommand) (biller.Response, error) {
	return biller.Response{}, biller.ErrOperationNotSupported
}

func (a *Adapter) SuspendRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	form := url.Values{}
	form.Set("account_id", cmd.Settings.AccountID)
	form.Set("site_tag", cmd.Settings.SiteTag)
	form.Set("account_password", cmd.Settings.MerchantPassword)
	form.Set("member_id", cmd.MemberID)
	form.Set("do_member_update", "SUSPEND")
	return a.send(ctx, "suspend_rebill", form)
}

func (a *Adapter) UpdateRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	form := url.Values{}
	form.Set("account_id", cmd.Settings.AccountID)
	form.Set("site_tag", cmd.Settings.SiteTag)
	form.Set("account_password", cmd.Settings.MerchantPassword)
	form.Set("member_id", cmd.MemberID)
	form.Set("do_member_update", "UPDATE")
	if cmd.Rebill != nil {
		form.Set("recurring_period", fmt.Sprintf("%d", cmd.Rebill.Frequency))
		form.Set("recurring_amount", cmd.Rebill.Amount.String())
		form.Set("recurring_next", fmt.Sprintf("%d", cmd.Rebill.Start))
	}
	return a.send(ctx, "update_rebill", form)
}
