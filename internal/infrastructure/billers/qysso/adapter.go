// Package qysso translates canonical commands into Qysso's signed
// form-encoded protocol. Every request carries an MD5 signature over the
// amount, currency, and the merchant's personal hash key.
package qysso

import (
	"context"
	"crypto/md5"
	"encoding/hex"
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

func signature(hashKey, amount, currency, transID string) string {
	sum := md5.Sum([]byte(hashKey + amount + currency + transID))
	return hex.EncodeToString(sum[:])
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
		case "signature", "PersonalHashKey":
			v = "*******"
		case "CardNum":
			if len(v) >= 10 {
				v = v[:6] + "XXXXXX" + v[len(v)-4:]
			}
		case "CVV":
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

	reply := fields.Get("Reply")
	if reply == "" {
		return biller.Response{}, fmt.Errorf("%w: missing Reply", biller.ErrMalformedResponse)
	}

	raw, _ := json.Marshal(map[string]string{
		"Reply":     reply,
		"ReplyDesc": fields.Get("ReplyDesc"),
		"TransID":   fields.Get("TransID"),
	})

	resp := biller.Response{
		Code:                reply,
		Reason:              fields.Get("ReplyDesc"),
		BillerTransactionID: fields.Get("TransID"),
		Request:             request,
		RawResponse:         raw,
	}

	// "000" is the only approval code; "001" means redirect-pending.
	switch reply {
	case "000":
		resp.Result = biller.ResultApproved
	case "001":
		resp.Result = biller.ResultPending
	default:
		resp.Result = biller.ResultDeclined
	}

	return resp, nil
}

func (a *Adapter) ChargeNew(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	if cmd.Card == nil {
		return biller.Response{}, biller.ErrMalformedResponse
	}
	amount := cmd.Charge.Amount.String()
	form := url.Values{}
	form.Set("CompanyNum", cmd.Settings.MerchantNumber)
	form.Set("TransType", "0")
	form.Set("Amount", amount)
	form.Set("Currency", cmd.Charge.Amount.Currency)
	form.Set("CardNum", cmd.Card.Number)
	form.Set("ExpMonth", fmt.Sprintf("%02d", cmd.Card.ExpirationMonth))
	form.Set("ExpYear", fmt.Sprintf("%d", cmd.Card.ExpirationYear))
	form.Set("CVV", cmd.Card.CVV)
	form.Set("Order", cmd.TransactionID)
	form.Set("signature", signature(cmd.Settings.PersonalHashKey, amount, cmd.Charge.Amount.Currency, cmd.TransactionID))
	if cmd.Charge.Rebill != nil {
		form.Set("Recurring1", fmt.Sprintf("%s/%d/%d", cmd.Charge.Rebill.Amount.String(), cmd.Charge.Rebill.Start, cmd.Charge.Rebill.Frequency))
	}
	return a.send(ctx, "charge_new", form)
}

func (a *Adapter) ChargeExisting(ctx context.Context, cmd biller.ChargeCommand) (biller.Response, error) {
	amount := cmd.Charge.Amount.String()
	form := url.Values{}
	form.Set("CompanyNum", cmd.Settings.MerchantNumber)
	form.Set("TransType", "0")
	form.Set("Amount", amount)
	form.Set("Currency", cmd.Charge.Amount.Currency)
	form.Set("CCStorageID", cmd.CardHash)
	form.Set("Order", cmd.TransactionID)
	form.Set("signature", signature(cmd.Settings.PersonalHashKey, amount, cmd.Charge.Amount.Currency, cmd.TransactionID))
	return a.send(ctx, "charge_existing", form)
}

func (a *Adapter) CompleteThreeD(ctx context.Context, cmd biller.CompleteThreeDCommand) (biller.Response, error) {
	return biller.Response{}, biller.ErrOperationNotSupported
}

func (a *Adapter) SuspendRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	form := url.Values{}
	form.Set("CompanyNum", cmd.Settings.MerchantNumber)
	form.Set("TransType", "9")
	form.Set("RecurringID", cmd.BillerTransactionID)
	form.Set("Action", "suspend")
	form.Set("signature", signature(cmd.Settings.PersonalHashKey, "", "", cmd.BillerTransactionID))
	return a.send(ctx, "suspend_rebill", form)
}

func (a *Adapter) UpdateRebill(ctx context.Context, cmd biller.RebillCommand) (biller.Response, error) {
	form := url.Values{}
	form.Set("CompanyNum", cmd.Settings.MerchantNumber)
	form.Set("TransType", "9")
	form.Set("RecurringID", cmd.BillerTransactionID)
	form.Set("Action", "update")
	if cmd.Rebill != nil {
		form.Set("Recurring1", fmt.Sprintf("%s/%d/%d", cmd.Rebill.Amount.String(), cmd.Rebill.Start, cmd.Rebill.Frequency))
	}
	form.Set("signature", signature(cmd.Settings.PersonalHashKey, "", "", cmd.BillerTransactionID))
	return a.send(ctx, "update_rebill", form)
}
