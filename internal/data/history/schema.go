package history

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS scan_runs (
  run_id TEXT PRIMARY KEY,
  project_key TEXT NOT NULL DEFAULT 'default',
  ts_utc TEXT NOT NULL,
  file_count INTEGER NOT NULL,
  unused_count INTEGER NOT NULL,
  created_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
CREATE INDEX IF NOT EXISTS idx_scan_runs_project_ts ON scan_runs(project_key, ts_utc);

CREATE TABLE IF NOT EXISTS findings (
  run_id TEXT NOT NULL REFERENCES scan_runs(run_id) ON DELETE CASCADE,
  path TEXT NOT NULL,
  name TEXT NOT NULL,
  line INTEGER NOT NULL,
  start_col INTEGER NOT NULL,
  end_col INTEGER NOT NULL,
  PRIMARY KEY (run_id, path, name)
);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE scan_runs ADD COLUMN declaration_count INTEGER NOT NULL DEFAULT 0;
CREATE INDEX IF NOT EXISTS idx_findings_path ON findings(path);
`,
	},
}

func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  applied_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema_migrations version: %w", err)
	}
	if current > SchemaVersion {
		return fmt.Errorf("schema version %d is newer than supported version %d", current, SchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
