package biller

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is the distinguishable transport-failure signal:
	// timeout, connection refused, or an open circuit breaker. The caller
	// maps it to an aborted transaction.
	ErrUnavailable = errors.New("biller unavailable")

	// ErrMalformedResponse means the biller answered but the body could not
	// be parsed into a canonical response.
	ErrMalformedResponse = errors.New("malformed biller response")

	// ErrOperationNotSupported is returned by adapters whose gateway has no
	// equivalent for the requested operation (e.g. 3DS on a crypto biller).
	ErrOperationNotSupported = errors.New("operation not supported by biller")
)

// Adapter is the shared per-biller contract. Implementations own wire-format
// marshalling and response parsing only; swapping one adapter for another
// never changes the state machine or classification logic.
type Adapter interface {
	ChargeNew(ctx context.Context, cmd ChargeCommand) (Response, error)
	ChargeExisting(ctx context.Context, cmd ChargeCommand) (Response, error)
	CompleteThreeD(ctx context.Context, cmd CompleteThreeDCommand) (Response, error)
	SuspendRebill(ctx context.Context, cmd RebillCommand) (Response, error)
	UpdateRebill(ctx context.Context, cmd RebillCommand) (Response, error)
}

// Lookuper is implemented by adapters whose gateway supports a 3DS2
// pre-charge lookup (currently Rocketgate only).
type Lookuper interface {
	Lookup(ctx context.Context, cmd LookupCommand) (Response, error)
}
