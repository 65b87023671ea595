package sqlite

import "database/sql"

func RunMigrations(db *sql.DB) error {
	stmts := []string{

		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			site_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			rebill_operation TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			payment_type TEXT NOT NULL,
			biller_name TEXT NOT NULL,
			amount TEXT NOT NULL DEFAULT '',
			currency TEXT NOT NULL DEFAULT '',
			rebill_amount TEXT NOT NULL DEFAULT '',
			rebill_start INTEGER NOT NULL DEFAULT 0,
			rebill_frequency INTEGER NOT NULL DEFAULT 0,
			settings TEXT NOT NULL DEFAULT '{}',
			card_first6 TEXT NOT NULL DEFAULT '',
			card_last4 TEXT NOT NULL DEFAULT '',
			card_exp_month INTEGER NOT NULL DEFAULT 0,
			card_exp_year INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			threeds_version INTEGER NOT NULL DEFAULT 0,
			secured_threed INTEGER NOT NULL DEFAULT 0,
			free_sale INTEGER NOT NULL DEFAULT 0,
			previous_transaction_id TEXT NOT NULL DEFAULT '',
			biller_transaction_id TEXT NOT NULL DEFAULT '',
			code TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			last_result TEXT NOT NULL DEFAULT ''
		);`,

		`CREATE TABLE IF NOT EXISTS biller_interactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			transaction_id TEXT NOT NULL,
			type TEXT NOT NULL,
			payload BLOB NOT NULL,
			created_at DATETIME NOT NULL
		);`,

		`CREATE INDEX IF NOT EXISTS idx_interactions_transaction
			ON biller_interactions (transaction_id, id);`,

		`CREATE TABLE IF NOT EXISTS outbox_events (
			id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			payload BLOB NOT NULL,
			published INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS breaker_states (
			key TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			failures INTEGER NOT NULL DEFAULT 0,
			probe_successes INTEGER NOT NULL DEFAULT 0,
			opened_at DATETIME
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
