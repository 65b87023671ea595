package sqlite

import (
	"database/sql"
	"errors"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/resilience"
)

// BreakerStore shares circuit state across instances through the database,
// so one node opening a biller's circuit fails the others fast too. State
// survives restarts, unlike the in-memory store.
type BreakerStore struct {
	db *sql.DB
}

func NewBreakerStore(db *sql.DB) *BreakerStore {
	return &BreakerStore{db: db}
}

func (s *BreakerStore) Get(key string) (resilience.State, error) {
	row := s.db.QueryRow(
		`SELECT status, failures, probe_successes, opened_at
		 FROM breaker_states
		 WHERE key = ?`,
		key,
	)

	var st resilience.State
	var status string
	var openedAt sql.NullTime

	if err := row.Scan(&status, &st.Failures, &st.ProbeSuccesses, &openedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resilience.State{Status: resilience.StatusClosed}, nil
		}
		return resilience.State{}, err
	}

	st.Status = resilience.Status(status)
	if openedAt.Valid {
		st.OpenedAt = openedAt.Time
	}
	return st, nil
}

func (s *BreakerStore) Set(key string, st resilience.State) error {
	var openedAt any
	if !st.OpenedAt.IsZero() {
		openedAt = st.OpenedAt
	}

	_, err := s.db.Exec(
		`INSERT INTO breaker_states (key, status, failures, probe_successes, opened_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   status = excluded.status,
		   failures = excluded.failures,
		   probe_successes = excluded.probe_successes,
		   opened_at = excluded.opened_at`,
		key,
		string(st.Status),
		st.Failures,
		st.ProbeSuccesses,
		openedAt,
	)
	return err
}

func (s *BreakerStore) All() (map[string]resilience.State, error) {
	rows, err := s.db.Query(
		`SELECT key, status, failures, probe_successes, opened_at FROM breaker_states`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	states := make(map[string]resilience.State)
	for rows.Next() {
		var key, status string
		var st resilience.State
		var openedAt sql.NullTime

		if err := rows.Scan(&key, &status, &st.Failures, &st.ProbeSuccesses, &openedAt); err != nil {
			return nil, err
		}
		st.Status = resilience.Status(status)
		if openedAt.Valid {
			st.OpenedAt = openedAt.Time
		}
		states[key] = st
	}
	return states, rows.Err()
}
