package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBillerDown = errors.New("biller down")

func newTestBreaker() (*Breaker, *InMemoryStore, *time.Time) {
	store := NewInMemoryStore()
	b := NewBreaker(store, Settings{
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
		ProbeCount:       3,
		SuccessesToClose: 2,
	})

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, store, &now
}

func failTimes(t *testing.T, b *Breaker, key string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := b.Execute(context.Background(), key, func(context.Context) error {
			return errBillerDown
		})
		if !errors.Is(err, errBillerDown) {
			t.Fatalf("failure %d: expected the call error, got %v", i+1, err)
		}
	}
}

func TestBreaker_WhenFailuresReachThreshold_ShouldOpen(t *testing.T) {
	b, store, _ := newTestBreaker()
	key := Key("rocketgate", "charge_new")

	failTimes(t, b, key, 3)

	st, err := store.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != StatusOpen {
		t.Fatalf("expected open, got %s", st.Status)
	}
}

func TestBreaker_WhenOpen_ShouldFailFastWithoutCalling(t *testing.T) {
	b, _, _ := newTestBreaker()
	key := Key("rocketgate", "charge_new")
	failTimes(t, b, key, 3)

	called := false
	err := b.Execute(context.Background(), key, func(context.Context) error {
		called = true
		return nil
	})

	if !errors.Is(err, ErrOpenCircuit) {
		t.Fatalf("expected ErrOpenCircuit, got %v", err)
	}
	if called {
		t.Fatal("the wrapped call must not run while the circuit is open")
	}
}

func TestBreaker_AfterCooldownAndTwoProbeSuccesses_ShouldClose(t *testing.T) {
	b, store, now := newTestBreaker()
	key := Key("rocketgate", "charge_new")
	failTimes(t, b, key, 3)

	*now = now.Add(31 * time.Second)

	for i := 0; i < 2; i++ {
		err := b.Execute(context.Background(), key, func(context.Context) error {
			return nil
		})
		if err != nil {
			t.Fatalf("probe %d: unexpected error: %v", i+1, err)
		}
	}

	st, err := store.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != StatusClosed {
		t.Fatalf("expected closed after probe successes, got %s", st.Status)
	}
}

func TestBreaker_WhenProbeFails_ShouldReopen(t *testing.T) {
	b, store, now := newTestBreaker()
	key := Key("rocketgate", "charge_new")
	failTimes(t, b, key, 3)

	*now = now.Add(31 * time.Second)
	failTimes(t, b, key, 1)

	st, err := store.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != StatusOpen {
		t.Fatalf("expected reopened circuit, got %s", st.Status)
	}
	if !st.OpenedAt.Equal(*now) {
		t.Fatalf("expected a fresh cooldown window, got %s", st.OpenedAt)
	}
}

func TestBreaker_WhenHalfOpen_ShouldCapInFlightTrialCalls(t *testing.T) {
	store := NewInMemoryStore()
	b := NewBreaker(store, Settings{
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
		ProbeCount:       1,
		SuccessesToClose: 2,
	})
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	key := Key("rocketgate", "charge_new")
	failTimes(t, b, key, 3)
	now = now.Add(31 * time.Second)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Execute(context.Background(), key, func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	called := false
	err := b.Execute(context.Background(), key, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpenCircuit) {
		t.Fatalf("expected ErrOpenCircuit while the trial call is in flight, got %v", err)
	}
	if called {
		t.Fatal("a second caller must not reach the biller while the trial slot is taken")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("trial call: unexpected error: %v", err)
	}

	if err := b.Execute(context.Background(), key, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("expected the slot to free once the trial call finished, got %v", err)
	}
}

func TestBreaker_ShouldTrackKeysIndependently(t *testing.T) {
	b, _, _ := newTestBreaker()
	failTimes(t, b, Key("rocketgate", "charge_new"), 3)

	err := b.Execute(context.Background(), Key("rocketgate", "lookup"), func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("a different operation must stay closed, got %v", err)
	}

	err = b.Execute(context.Background(), Key("netbilling", "charge_new"), func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("a different biller must stay closed, got %v", err)
	}
}

func TestBreaker_WhenCallSucceeds_ShouldResetFailureCount(t *testing.T) {
	b, store, _ := newTestBreaker()
	key := Key("epoch", "charge_new")

	failTimes(t, b, key, 2)
	if err := b.Execute(context.Background(), key, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, err := store.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if st.Failures != 0 {
		t.Fatalf("expected failures reset, got %d", st.Failures)
	}
	if st.Status != StatusClosed {
		t.Fatalf("expected closed, got %s", st.Status)
	}
}
