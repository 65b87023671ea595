package values_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/values"
)

func TestNewMoney_ShouldRejectNonPositiveAmounts(t *testing.T) {
	if _, err := values.NewMoney(decimal.Zero, "USD"); !errors.Is(err, values.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := values.NewMoney(decimal.NewFromFloat(-1), "USD"); !errors.Is(err, values.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
}

func TestNewMoney_ShouldRejectUnknownCurrency(t *testing.T) {
	_, err := values.NewMoney(decimal.NewFromFloat(10), "XXX")
	if !errors.Is(err, values.ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestMoneyString_ShouldRenderTwoDecimalPlaces(t *testing.T) {
	m, err := values.MoneyFromString("14.9", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.String(); got != "14.90" {
		t.Fatalf("expected 14.90, got %q", got)
	}
}

func TestMoneyValidate_ShouldScreenDecodedAmounts(t *testing.T) {
	free := values.Money{Amount: decimal.Zero, Currency: "USD"}
	if err := free.Validate(); err != nil {
		t.Fatalf("a zero amount is a free sale, got %v", err)
	}

	negative := values.Money{Amount: decimal.NewFromFloat(-5), Currency: "USD"}
	if err := negative.Validate(); !errors.Is(err, values.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	unknown := values.Money{Amount: decimal.NewFromFloat(5), Currency: "BTC"}
	if err := unknown.Validate(); !errors.Is(err, values.ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestChargeInformationValidate_ShouldRejectUnknownCurrency(t *testing.T) {
	charge := values.ChargeInformation{
		Amount: values.Money{Amount: decimal.NewFromFloat(9.99), Currency: "XXX"},
	}
	if err := charge.Validate(); !errors.Is(err, values.ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestObfuscateCard_ShouldKeepOnlyFirst6AndLast4(t *testing.T) {
	card, err := values.ObfuscateCard("4111111111111111", 6, 2028)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.First6 != "411111" || card.Last4 != "1111" {
		t.Fatalf("unexpected digits %s/%s", card.First6, card.Last4)
	}
	if card.Obfuscated() != "411111XXXXXX1111" {
		t.Fatalf("unexpected obfuscated form %q", card.Obfuscated())
	}
	if card.Bin() != "411111" {
		t.Fatalf("unexpected bin %q", card.Bin())
	}
}

func TestObfuscateCard_ShouldRejectBadInput(t *testing.T) {
	cases := []struct {
		name   string
		number string
		month  int
		year   int
	}{
		{"too short", "41111111", 6, 2028},
		{"non-digit", "4111-1111-1111-1111", 6, 2028},
		{"bad month", "4111111111111111", 13, 2028},
		{"bad year", "4111111111111111", 6, 99},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := values.ObfuscateCard(tc.number, tc.month, tc.year)
			if !errors.Is(err, values.ErrInvalidCreditCardInformation) {
				t.Fatalf("expected ErrInvalidCreditCardInformation, got %v", err)
			}
		})
	}
}

func TestSettingsRedacted_ShouldMaskSecretsOnly(t *testing.T) {
	s := values.BillerChargeSettings{
		MerchantID:       "m-1",
		MerchantPassword: "s3cret",
		ClientSecret:     "cs-1",
		APIKey:           "key-1",
		PersonalHashKey:  "hash-1",
		SiteTag:          "SITE",
	}

	r := s.Redacted()
	if r.MerchantPassword != "*******" || r.ClientSecret != "*******" || r.APIKey != "*******" || r.PersonalHashKey != "*******" {
		t.Fatalf("expected masked secrets, got %+v", r)
	}
	if r.MerchantID != "m-1" || r.SiteTag != "SITE" {
		t.Fatal("routing fields must survive redaction")
	}
	if s.MerchantPassword != "s3cret" {
		t.Fatal("redaction must not mutate the original")
	}

	// Empty secrets stay empty rather than becoming a mask.
	empty := values.BillerChargeSettings{}.Redacted()
	if empty.MerchantPassword != "" {
		t.Fatalf("expected an empty mask, got %q", empty.MerchantPassword)
	}
}
