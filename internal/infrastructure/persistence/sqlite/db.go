package sqlite

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the gateway database. WAL keeps the HTTP handlers and the
// outbox dispatcher from blocking each other; busy_timeout covers the
// remaining write contention.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, err
		}
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
