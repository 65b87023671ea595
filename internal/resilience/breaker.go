package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOpenCircuit is returned without invoking the wrapped call while a key's
// circuit is open. Callers map it to their unavailable sentinel.
var ErrOpenCircuit = errors.New("circuit breaker open")

// Settings tune one breaker family. Defaults follow operational experience
// with flaky billers: five consecutive failures open the circuit, it stays
// open for thirty seconds, then three probes with two successes close it.
type Settings struct {
	FailureThreshold int
	Cooldown         time.Duration
	ProbeCount       int
	SuccessesToClose int
}

func DefaultSettings() Settings {
	return Settings{
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		ProbeCount:       3,
		SuccessesToClose: 2,
	}
}

// Breaker wraps every biller-call family behind an independently tripped
// circuit keyed by biller+operation. State lives in the BreakerStore so it
// can be shared across instances.
type Breaker struct {
	mu       sync.Mutex
	store    BreakerStore
	settings Settings
	// probes counts in-flight half-open trial calls per key; it is local
	// because an instance only rations the calls it admits itself.
	probes map[string]int
	now    func() time.Time
}

func NewBreaker(store BreakerStore, settings Settings) *Breaker {
	if settings.FailureThreshold <= 0 {
		settings = DefaultSettings()
	}
	if settings.ProbeCount <= 0 {
		settings.ProbeCount = 1
	}
	return &Breaker{store: store, settings: settings, probes: make(map[string]int), now: time.Now}
}

// Key builds the breaker key for one biller-call family.
func Key(billerName, operation string) string {
	return billerName + ":" + operation
}

// Execute runs fn behind the circuit for key. A transport failure from fn
// counts against the failure threshold; ErrOpenCircuit is returned without
// calling fn while the circuit is open.
func (b *Breaker) Execute(ctx context.Context, key string, fn func(context.Context) error) error {
	b.mu.Lock()
	st, err := b.store.Get(key)
	if err != nil {
		b.mu.Unlock()
		return err
	}

	probe := false
	switch st.Status {
	case StatusOpen:
		if b.now().Sub(st.OpenedAt) < b.settings.Cooldown {
			b.mu.Unlock()
			return ErrOpenCircuit
		}
		st.Status = StatusHalfOpen
		st.ProbeSuccesses = 0
		if err := b.store.Set(key, st); err != nil {
			b.mu.Unlock()
			return err
		}
		b.probes[key] = 1
		probe = true
	case StatusHalfOpen:
		// At most ProbeCount trial calls may be in flight while the
		// biller recovers; everyone else keeps failing fast.
		if b.probes[key] >= b.settings.ProbeCount {
			b.mu.Unlock()
			return ErrOpenCircuit
		}
		b.probes[key]++
		probe = true
	case StatusClosed:
	}
	b.mu.Unlock()

	callErr := fn(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if probe && b.probes[key] > 0 {
		b.probes[key]--
	}

	st, err = b.store.Get(key)
	if err != nil {
		return err
	}

	if callErr != nil {
		return b.recordFailure(key, st, callErr)
	}
	return b.recordSuccess(key, st, callErr)
}

func (b *Breaker) recordFailure(key string, st State, callErr error) error {
	switch st.Status {
	case StatusHalfOpen:
		// Failed probe reopens immediately.
		st = State{Status: StatusOpen, OpenedAt: b.now()}
	default:
		st.Failures++
		if st.Failures >= b.settings.FailureThreshold {
			st = State{Status: StatusOpen, OpenedAt: b.now()}
		}
	}
	if err := b.store.Set(key, st); err != nil {
		return err
	}
	return callErr
}

func (b *Breaker) recordSuccess(key string, st State, callErr error) error {
	switch st.Status {
	case StatusHalfOpen:
		st.ProbeSuccesses++
		if st.ProbeSuccesses >= b.settings.SuccessesToClose {
			st = State{Status: StatusClosed}
		}
	default:
		st = State{Status: StatusClosed}
	}
	if err := b.store.Set(key, st); err != nil {
		return err
	}
	return callErr
}
