package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/infrastructure/billers/transport"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/resilience"
)

func TestHTTPSender_ShouldPostBodyAndReturnResponse(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"reasonCode":"0"}`))
	}))
	defer server.Close()

	sender := transport.NewHTTPSender(5 * time.Second)
	body, err := sender.Send(context.Background(), transport.Request{
		Operation:   "charge_new",
		Method:      http.MethodPost,
		URL:         server.URL,
		ContentType: "application/json",
		Body:        []byte(`{"amount":"9.99"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(body) != `{"reasonCode":"0"}` {
		t.Fatalf("unexpected body %q", body)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if string(gotBody) != `{"amount":"9.99"}` {
		t.Fatalf("unexpected request body %q", gotBody)
	}
}

func TestHTTPSender_WhenGatewayReturns5xx_ShouldSignalUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := transport.NewHTTPSender(5 * time.Second)
	_, err := sender.Send(context.Background(), transport.Request{
		Method: http.MethodPost,
		URL:    server.URL,
	})
	if !errors.Is(err, biller.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestHTTPSender_WhenConnectionFails_ShouldSignalUnavailable(t *testing.T) {
	sender := transport.NewHTTPSender(time.Second)
	_, err := sender.Send(context.Background(), transport.Request{
		Method: http.MethodPost,
		URL:    "http://127.0.0.1:1", // nothing listens here
	})
	if !errors.Is(err, biller.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

type failingSender struct {
	err   error
	calls int
}

func (f *failingSender) Send(ctx context.Context, req transport.Request) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("ok"), nil
}

func TestBreakerSender_WhenCircuitOpens_ShouldFailFastAsUnavailable(t *testing.T) {
	inner := &failingSender{err: biller.ErrUnavailable}
	breaker := resilience.NewBreaker(resilience.NewInMemoryStore(), resilience.Settings{
		FailureThreshold: 2,
		Cooldown:         time.Minute,
		ProbeCount:       1,
		SuccessesToClose: 1,
	})
	sender := &transport.BreakerSender{Inner: inner, Breaker: breaker, BillerName: biller.Rocketgate}

	req := transport.Request{Operation: "charge_new", Method: http.MethodPost, URL: "https://gateway.example"}

	for i := 0; i < 2; i++ {
		if _, err := sender.Send(context.Background(), req); !errors.Is(err, biller.ErrUnavailable) {
			t.Fatalf("call %d: expected ErrUnavailable, got %v", i+1, err)
		}
	}

	// Third call hits the open circuit, not the inner sender.
	_, err := sender.Send(context.Background(), req)
	if !errors.Is(err, biller.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from the open circuit, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected the inner sender untouched after opening, got %d calls", inner.calls)
	}
}

func TestBreakerSender_ShouldIsolateOperations(t *testing.T) {
	inner := &failingSender{err: biller.ErrUnavailable}
	breaker := resilience.NewBreaker(resilience.NewInMemoryStore(), resilience.Settings{
		FailureThreshold: 1,
		Cooldown:         time.Minute,
		ProbeCount:       1,
		SuccessesToClose: 1,
	})
	sender := &transport.BreakerSender{Inner: inner, Breaker: breaker, BillerName: biller.Rocketgate}

	_, _ = sender.Send(context.Background(), transport.Request{Operation: "charge_new"})

	// charge_new is open now; lookup still reaches the inner sender.
	inner.err = nil
	body, err := sender.Send(context.Background(), transport.Request{Operation: "lookup"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "ok" {
		t.Fatalf("unexpected body %q", body)
	}
}
