// Package transport is the outbound biller client: send a marshaled
// request, receive the raw response body, with a distinguishable
// transport-failure signal.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
)

// Request is one opaque wire call to a biller gateway.
type Request struct {
	// Operation names the biller-call family for breaker keying.
	Operation   string
	Method      string
	URL         string
	ContentType string
	Body        []byte
}

type Sender interface {
	Send(ctx context.Context, req Request) ([]byte, error)
}

// HTTPSender posts wire requests over HTTP. Timeouts and connection errors
// surface as biller.ErrUnavailable so the caller can abort the transaction
// and the breaker can count the failure.
type HTTPSender struct {
	Client *http.Client
}

func NewHTTPSender(timeout time.Duration) *HTTPSender {
	return &HTTPSender{Client: &http.Client{Timeout: timeout}}
}

func (s *HTTPSender) Send(ctx context.Context, req Request) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("build biller request: %w", err)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", biller.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", biller.ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: biller returned %d", biller.ErrUnavailable, resp.StatusCode)
	}

	return body, nil
}
