package classify_test

import (
	"testing"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/classify"
)

func TestClassify_WhenTripleIsMapped_ShouldReturnTableEntry(t *testing.T) {
	got := classify.Classify("rocketgate", "1", "111")

	if got.GroupDecline != "invalid_card" {
		t.Fatalf("expected invalid_card, got %q", got.GroupDecline)
	}
	if got.ErrorType != classify.ErrorTypeHard {
		t.Fatalf("expected hard, got %q", got.ErrorType)
	}
	if got.GroupMessage == "" || got.RecommendedAction == "" {
		t.Fatal("expected a populated message and recommended action")
	}
	if got.MappingCriteria != "biller=rocketgate code=1 reason=111" {
		t.Fatalf("unexpected mapping criteria %q", got.MappingCriteria)
	}
}

func TestClassify_WhenTripleIsUnknown_ShouldReturnDefaultTuple(t *testing.T) {
	got := classify.Classify("rocketgate", "9", "999")

	if got.GroupDecline != "declined" {
		t.Fatalf("expected declined, got %q", got.GroupDecline)
	}
	if got.ErrorType != classify.ErrorTypeHard {
		t.Fatalf("expected hard, got %q", got.ErrorType)
	}
	if got.GroupMessage != "Transaction was declined by the biller" {
		t.Fatalf("unexpected group message %q", got.GroupMessage)
	}
	if got.RecommendedAction != "Contact the card issuer before retrying" {
		t.Fatalf("unexpected recommended action %q", got.RecommendedAction)
	}
}

func TestClassify_WhenBillerHasNoTable_ShouldReturnDefaultTuple(t *testing.T) {
	got := classify.Classify("pumapay", "1", "42")

	if got.GroupDecline != classify.Default.GroupDecline {
		t.Fatalf("expected the default group, got %q", got.GroupDecline)
	}
	if got.MappingCriteria != "biller=pumapay code=1 reason=42" {
		t.Fatalf("unexpected mapping criteria %q", got.MappingCriteria)
	}
}

func TestClassify_WhenReasonMatchesAnyCode_ShouldIgnoreCodeColumn(t *testing.T) {
	first := classify.Classify("rocketgate", "1", "325")
	second := classify.Classify("rocketgate", "2", "325")

	if first.GroupDecline != "authentication_failed" {
		t.Fatalf("expected authentication_failed, got %q", first.GroupDecline)
	}
	if second.GroupDecline != first.GroupDecline {
		t.Fatalf("wildcard lookup diverged: %q vs %q", first.GroupDecline, second.GroupDecline)
	}
}

func TestClassify_ShouldDistinguishSoftAndTechnicalDeclines(t *testing.T) {
	nsf := classify.Classify("rocketgate", "1", "117")
	if nsf.ErrorType != classify.ErrorTypeSoft {
		t.Fatalf("insufficient funds should be soft, got %q", nsf.ErrorType)
	}

	issuerDown := classify.Classify("rocketgate", "1", "156")
	if issuerDown.ErrorType != classify.ErrorTypeTechnical {
		t.Fatalf("issuer unavailable should be technical, got %q", issuerDown.ErrorType)
	}
}
