package netbilling_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/values"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/netbilling"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/transport"
)

type fakeSender struct {
	sendFn func(ctx context.Context, req transport.Request) ([]byte, error)
	sent   []transport.Request
}

func (f *fakeSender) Send(ctx context.Context, req transport.Request) ([]byte, error) {
	f.sent = append(f.sent, req)
	return f.sendFn(ctx, req)
}

func testCommand(t *testing.T) biller.ChargeCommand {
	t.Helper()
	money, err := values.NewMoney(decimal.NewFromFloat(24.95), "USD")
	if err != nil {
		t.Fatal(err)
	}
	return biller.ChargeCommand{
		TransactionID: "tx-1",
		PaymentType:   values.PaymentTypeCreditCard,
		Charge:        values.ChargeInformation{Amount: money},
		Settings: values.BillerChargeSettings{
			AccountID:        "acct-1",
			SiteTag:          "SITE",
			MerchantPassword: "s3cret",
		},
		Card: &biller.CardDetails{
			Number:          "4111111111111111",
			CVV:             "321",
			ExpirationMonth: 7,
			ExpirationYear:  2029,
		},
	}
}

func TestChargeNew_WhenStatusIsOne_ShouldApprove(t *testing.T) {
	sender := &fakeSender{
		sendFn: func(ctx context.Context, req transport.Request) ([]byte, error) {
			return []byte("status_code=1&auth_msg=APPROVED&trans_id=nb-1&auth_code=999"), nil
		},
	}
	adapter := netbilling.New(sender, "https://secure.example/direct")

	resp, err := adapter.ChargeNew(context.Background(), testCommand(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Approved() {
		t.Fatalf("expected approved, got %s", resp.Result)
	}
	if resp.BillerTransactionID != "nb-1" {
		t.Fatalf("expected nb-1, got %q", resp.BillerTransactionID)
	}
}

func TestChargeNew_WhenStatusIsTestApproval_ShouldApprove(t *testing.T) {
	sender := &fakeSender{
		sendFn: func(ctx context.Context, req transport.Request) ([]byte, error) {
			return []byte("status_code=T&auth_msg=TEST+APPROVED&trans_id=nb-2"), nil
		},
	}
	adapter := netbilling.New(sender, "https://secure.example/direct")

	resp, err := adapter.ChargeNew(context.Background(), testCommand(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Approved() {
		t.Fatalf("expected approved test charge, got %s", resp.Result)
	}
}

func TestChargeNew_WhenStatusIsZero_ShouldDecline(t *testing.T) {
	sender := &fakeSender{
		sendFn: func(ctx context.Context, req transport.Request) ([]byte, error) {
			return []byte("status_code=0&auth_msg=DECLINED&reason_code2=51"), nil
		},
	}
	adapter := netbilling.New(sender, "https://secure.example/direct")

	resp, err := adapter.ChargeNew(context.Background(), testCommand(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Declined() {
		t.Fatalf("expected declined, got %s", resp.Result)
	}
	if resp.Extra.BankResponseCode != "51" {
		t.Fatalf("expected bank response 51, got %q", resp.Extra.BankResponseCode)
	}
}

func TestChargeExisting_ShouldSendHashWithStoragePrefix(t *testing.T) {
	sender := &fakeSender{
		sendFn: func(ctx context.Context, req transport.Request) ([]byte, error) {
			return []byte("status_code=1&trans_id=nb-3"), nil
		},
	}
	adapter := netbilling.New(sender, "https://secure.example/direct")

	cmd := testCommand(t)
	cmd.Card = nil
	cmd.CardHash = "stored-hash"

	if _, err := adapter.ChargeExisting(context.Background(), cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	form, err := url.ParseQuery(string(sender.sent[0].Body))
	if err != nil {
		t.Fatal(err)
	}
	if got := form.Get("card_number"); got != "CS:stored-hash" {
		t.Fatalf("expected CS:stored-hash, got %q", got)
	}
}

func TestSend_ShouldRedactSecretsInRecordedRequest(t *testing.T) {
	sender := &fakeSender{
		sendFn: func(ctx context.Context, req transport.Request) ([]byte, error) {
			return []byte("status_code=1&trans_id=nb-4"), nil
		},
	}
	adapter := netbilling.New(sender, "https://secure.example/direct")

	resp, err := adapter.ChargeNew(context.Background(), testCommand(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var recorded map[string]string
	if err := json.Unmarshal(resp.Request, &recorded); err != nil {
		t.Fatal(err)
	}
	if recorded["account_password"] != "*******" {
		t.Fatalf("expected a masked password, got %q", recorded["account_password"])
	}
	if recorded["card_number"] != "411111XXXXXX1111" {
		t.Fatalf("expected an obfuscated card number, got %q", recorded["card_number"])
	}
	if recorded["card_cvv2"] != "***" {
		t.Fatalf("expected a masked cvv, got %q", recorded["card_cvv2"])
	}
}

func TestCompleteThreeD_ShouldBeUnsupported(t *testing.T) {
	adapter := netbilling.New(&fakeSender{}, "https://secure.example/direct")

	_, err := adapter.CompleteThreeD(context.Background(), biller.CompleteThreeDCommand{})
	if !errors.Is(err, biller.ErrOperationNotSupported) {
		t.Fatalf("expected ErrOperationNotSupported, got %v", err)
	}
}

func TestSuspendRebill_ShouldSendMemberUpdate(t *testing.T) {
	sender := &fakeSender{
		sendFn: func(ctx context.Context, req transport.Request) ([]byte, error) {
			return []byte("status_code=1&trans_id=nb-5"), nil
		},
	}
	adapter := netbilling.New(sender, "https://secure.example/direct")

	_, err := adapter.SuspendRebill(context.Background(), biller.RebillCommand{
		MemberID: "member-9",
		Settings: values.BillerChargeSettings{AccountID: "acct-1", SiteTag: "SITE"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	form, err := url.ParseQuery(string(sender.sent[0].Body))
	if err != nil {
		t.Fatal(err)
	}
	if form.Get("do_member_update") != "SUSPEND" {
		t.Fatalf("expected SUSPEND, got %q", form.Get("do_member_update"))
	}
	if form.Get("member_id") != "member-9" {
		t.Fatalf("expected member-9, got %q", form.Get("member_id"))
	}
}
