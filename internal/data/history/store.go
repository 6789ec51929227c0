package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// ErrRunNotFound is returned by LoadFindings for unknown run IDs.
var ErrRunNotFound = errors.New("scan run not found")

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveRun stores run and its findings atomically and returns the run ID,
// generating one when run.ID is empty.
func (s *Store) SaveRun(projectKey string, run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = normalizeProjectKey(projectKey)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	if run.UnusedCount == 0 {
		run.UnusedCount = len(run.Findings)
	}

	err := s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
INSERT INTO scan_runs (run_id, project_key, ts_utc, file_count, declaration_count, unused_count)
VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID,
			projectKey,
			run.Timestamp.UTC().Format(time.RFC3339Nano),
			run.FileCount,
			run.DeclarationCount,
			run.UnusedCount,
		); err != nil {
			_ = tx.Rollback()
			return err
		}

		stmt, err := tx.Prepare(`
INSERT INTO findings (run_id, path, name, line, start_col, end_col)
VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		defer stmt.Close()

		for _, f := range run.Findings {
			if _, err := stmt.Exec(run.ID, f.Path, f.Name, f.Line, f.StartCol, f.EndCol); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// LoadRuns returns runs for projectKey at or after since, oldest first.
// Findings are not loaded; use LoadFindings.
func (s *Store) LoadRuns(projectKey string, since time.Time) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT run_id, project_key, ts_utc, file_count, declaration_count, unused_count
FROM scan_runs
WHERE project_key = ?`
	args := []any{normalizeProjectKey(projectKey)}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC, run_id ASC"

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run   Run
			tsRaw string
		)
		if err := rows.Scan(&run.ID, &run.ProjectKey, &tsRaw, &run.FileCount, &run.DeclarationCount, &run.UnusedCount); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts.UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

func (s *Store) LoadFindings(runID string) ([]Finding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.withRetry("load run", func() error {
		return s.db.QueryRow(`SELECT COUNT(1) FROM scan_runs WHERE run_id = ?`, runID).Scan(&exists)
	})
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	var rows *sql.Rows
	err = s.withRetry("load findings", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT path, name, line, start_col, end_col
FROM findings
WHERE run_id = ?
ORDER BY path ASC, line ASC, start_col ASC`, runID)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	findings := make([]Finding, 0)
	for rows.Next() {
		var f Finding
		if err := rows.Scan(&f.Path, &f.Name, &f.Line, &f.StartCol, &f.EndCol); err != nil {
			return nil, fmt.Errorf("scan finding row: %w", err)
		}
		findings = append(findings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate finding rows: %w", err)
	}
	return findings, nil
}

func normalizeProjectKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "default"
	}
	return key
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
