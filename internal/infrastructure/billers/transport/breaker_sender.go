package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/resilience"
)

// BreakerSender decorates a Sender with the circuit breaker, keyed per
// biller and call family. An open circuit fails fast with
// biller.ErrUnavailable before any bytes leave the process.
type BreakerSender struct {
	Inner      Sender
	Breaker    *resilience.Breaker
	BillerName biller.Name
}

func (s *BreakerSender) Send(ctx context.Context, req Request) ([]byte, error) {
	var body []byte

	key := resilience.Key(string(s.BillerName), req.Operation)
	err := s.Breaker.Execute(ctx, key, func(ctx context.Context) error {
		var sendErr error
		body, sendErr = s.Inner.Send(ctx, req)
		return sendErr
	})
	if errors.Is(err, resilience.ErrOpenCircuit) {
		return nil, fmt.Errorf("%w: %v", biller.ErrUnavailable, err)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}
