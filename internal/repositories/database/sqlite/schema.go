// Embedded ledger schema. Money is stored as decimal text, calendar dates as
// YYYY-MM-DD and timestamps as fixed-width UTC text so they sort lexically.
package sqlite

// LedgerMigrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func LedgerMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			account_id        TEXT PRIMARY KEY,
			tenant_id         TEXT NOT NULL,
			account_number    TEXT NOT NULL,
			name              TEXT NOT NULL,
			account_type      TEXT NOT NULL CHECK (account_type IN ('ASSET', 'LIABILITY', 'EQUITY', 'REVENUE', 'EXPENSE')),
			normal_balance    TEXT NOT NULL CHECK (normal_balance IN ('DEBIT', 'CREDIT')),
			parent_account_id TEXT REFERENCES accounts (account_id),
			description       TEXT NOT NULL DEFAULT '',
			is_active         INTEGER NOT NULL DEFAULT 1,
			created_at        TEXT NOT NULL,
			created_by        TEXT NOT NULL,
			last_updated_at   TEXT NOT NULL,
			last_updated_by   TEXT NOT NULL,
			UNIQUE (tenant_id, account_number)
		)`,

		`CREATE TABLE IF NOT EXISTS entry_sequences (
			tenant_id  TEXT NOT NULL,
			prefix     TEXT NOT NULL,
			last_value INTEGER NOT NULL,
			PRIMARY KEY (tenant_id, prefix)
		)`,

		`CREATE TABLE IF NOT EXISTS journal_entries (
			entry_id             TEXT PRIMARY KEY,
			tenant_id            TEXT NOT NULL,
			entry_number         TEXT NOT NULL,
			sequence             INTEGER NOT NULL,
			entry_date           TEXT NOT NULL,
			description          TEXT NOT NULL,
			source_type          TEXT NOT NULL,
			source_id            TEXT NOT NULL DEFAULT '',
			status               TEXT NOT NULL CHECK (status IN ('POSTED', 'REVERSED')),
			subject_entity_id    TEXT NOT NULL DEFAULT '',
			posted_by            TEXT NOT NULL,
			posted_at            TEXT NOT NULL,
			reversed_by          TEXT,
			reversed_at          TEXT,
			reversal_reason      TEXT NOT NULL DEFAULT '',
			reversal_of_id       TEXT REFERENCES journal_entries (entry_id),
			reversed_by_entry_id TEXT REFERENCES journal_entries (entry_id),
			created_at           TEXT NOT NULL,
			created_by           TEXT NOT NULL,
			last_updated_at      TEXT NOT NULL,
			last_updated_by      TEXT NOT NULL,
			UNIQUE (tenant_id, entry_number)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_journal_entries_source
			ON journal_entries (tenant_id, source_type, source_id, subject_entity_id)
			WHERE source_id <> ''`,
		`CREATE INDEX IF NOT EXISTS idx_journal_entries_subject ON journal_entries (tenant_id, subject_entity_id, entry_date)`,

		`CREATE TABLE IF NOT EXISTS journal_lines (
			line_id     TEXT PRIMARY KEY,
			entry_id    TEXT NOT NULL REFERENCES journal_entries (entry_id),
			account_id  TEXT NOT NULL REFERENCES accounts (account_id),
			line_number INTEGER NOT NULL,
			debit       TEXT NOT NULL,
			credit      TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			UNIQUE (entry_id, line_number)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_lines_account ON journal_lines (account_id)`,

		// Journal history is append-only.
		`CREATE TRIGGER IF NOT EXISTS trg_journal_lines_no_update
			BEFORE UPDATE ON journal_lines
			BEGIN SELECT RAISE(ABORT, 'ledger history is append-only'); END`,
		`CREATE TRIGGER IF NOT EXISTS trg_journal_lines_no_delete
			BEFORE DELETE ON journal_lines
			BEGIN SELECT RAISE(ABORT, 'ledger history is append-only'); END`,
		`CREATE TRIGGER IF NOT EXISTS trg_journal_entries_no_delete
			BEFORE DELETE ON journal_entries
			BEGIN SELECT RAISE(ABORT, 'ledger history is append-only'); END`,

		`CREATE TABLE IF NOT EXISTS audit_logs (
			audit_id    TEXT PRIMARY KEY,
			tenant_id   TEXT NOT NULL,
			entity_id   TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			action      TEXT NOT NULL,
			actor       TEXT NOT NULL,
			details     TEXT NOT NULL DEFAULT '',
			old_value   TEXT,
			new_value   TEXT,
			reason      TEXT,
			created_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_entity ON audit_logs (entity_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_tenant ON audit_logs (tenant_id, created_at, audit_id)`,

		`CREATE TABLE IF NOT EXISTS payment_transactions (
			payment_id              TEXT NOT NULL,
			tenant_id               TEXT NOT NULL,
			filer_id                TEXT NOT NULL,
			municipality_id         TEXT NOT NULL,
			payment_date            TEXT NOT NULL,
			amount                  TEXT NOT NULL,
			method                  TEXT NOT NULL,
			to_tax                  TEXT NOT NULL,
			to_penalty              TEXT NOT NULL,
			to_interest             TEXT NOT NULL,
			status                  TEXT NOT NULL,
			provider_transaction_id TEXT NOT NULL DEFAULT '',
			authorization_code      TEXT,
			failure_reason          TEXT,
			journal_entry_id        TEXT REFERENCES journal_entries (entry_id),
			municipality_entry_id   TEXT REFERENCES journal_entries (entry_id),
			created_at              TEXT NOT NULL,
			created_by              TEXT NOT NULL,
			last_updated_at         TEXT NOT NULL,
			last_updated_by         TEXT NOT NULL,
			PRIMARY KEY (tenant_id, payment_id)
		)`,

		`CREATE TABLE IF NOT EXISTS refunds (
			refund_id                  TEXT NOT NULL,
			tenant_id                  TEXT NOT NULL,
			filer_id                   TEXT NOT NULL,
			municipality_id            TEXT NOT NULL,
			requested_amount           TEXT NOT NULL,
			issued_amount              TEXT,
			reason                     TEXT NOT NULL DEFAULT '',
			status                     TEXT NOT NULL,
			request_date               TEXT NOT NULL,
			issue_date                 TEXT,
			request_entry_id           TEXT NOT NULL REFERENCES journal_entries (entry_id),
			request_municipal_entry_id TEXT NOT NULL REFERENCES journal_entries (entry_id),
			issue_entry_id             TEXT REFERENCES journal_entries (entry_id),
			issue_municipal_entry_id   TEXT REFERENCES journal_entries (entry_id),
			created_at                 TEXT NOT NULL,
			created_by                 TEXT NOT NULL,
			last_updated_at            TEXT NOT NULL,
			last_updated_by            TEXT NOT NULL,
			PRIMARY KEY (tenant_id, refund_id)
		)`,
	}
}
