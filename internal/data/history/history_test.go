package history

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SaveRunAndLoad(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	first := Run{
		Timestamp:        base,
		FileCount:        3,
		DeclarationCount: 7,
		Findings: []Finding{
			{Path: "src/b.cpp", Name: "tmp", Line: 4, StartCol: 6, EndCol: 9},
			{Path: "src/a.cpp", Name: "unused", Line: 1, StartCol: 6, EndCol: 12},
		},
	}
	second := Run{ID: "fixed-id", Timestamp: base.Add(time.Hour), FileCount: 3, DeclarationCount: 6}

	firstID, err := store.SaveRun("engine", first)
	if err != nil {
		t.Fatalf("save first run: %v", err)
	}
	if firstID == "" {
		t.Fatal("expected generated run id")
	}
	secondID, err := store.SaveRun("engine", second)
	if err != nil {
		t.Fatalf("save second run: %v", err)
	}
	if secondID != "fixed-id" {
		t.Fatalf("expected explicit id to be kept, got %q", secondID)
	}

	runs, err := store.LoadRuns("engine", time.Time{})
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != firstID || runs[0].UnusedCount != 2 || runs[0].DeclarationCount != 7 {
		t.Fatalf("unexpected first run %+v", runs[0])
	}
	if !runs[0].Timestamp.Equal(base) {
		t.Fatalf("timestamp did not roundtrip: %v", runs[0].Timestamp)
	}

	since, err := store.LoadRuns("engine", base.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("load runs since: %v", err)
	}
	if len(since) != 1 || since[0].ID != "fixed-id" {
		t.Fatalf("unexpected since filter result %+v", since)
	}

	findings, err := store.LoadFindings(firstID)
	if err != nil {
		t.Fatalf("load findings: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].Path != "src/a.cpp" || findings[0].Name != "unused" || findings[0].EndCol != 12 {
		t.Fatalf("unexpected ordering or content %+v", findings)
	}
}

func TestStore_LoadFindingsUnknownRun(t *testing.T) {
	store := openTestStore(t)

	_, err := store.LoadFindings("missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStore_DuplicateRunIDFails(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveRun("", Run{ID: "dup"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun("", Run{ID: "dup"}); err == nil {
		t.Fatal("expected duplicate run id to fail")
	}
}

func TestStore_ProjectIsolation(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveRun("project-a", Run{FileCount: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun("project-b", Run{FileCount: 2}); err != nil {
		t.Fatal(err)
	}

	aRuns, err := store.LoadRuns("project-a", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(aRuns) != 1 || aRuns[0].FileCount != 1 {
		t.Fatalf("unexpected project-a rows: %+v", aRuns)
	}

	defaults, err := store.LoadRuns(" ", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(defaults) != 0 {
		t.Fatalf("expected no default-project rows, got %+v", defaults)
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	_, err := Open(t.TempDir())
	if err == nil {
		t.Fatal("expected open error for directory path")
	}
	if !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_OpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	if err := os.WriteFile(path, []byte("this is not sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if err == nil {
		t.Fatal("expected sqlite open error")
	}
	lower := strings.ToLower(err.Error())
	if !strings.Contains(lower, "not a database") && !strings.Contains(lower, "schema") {
		t.Fatalf("expected schema/open error, got: %v", err)
	}
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.db.Exec(`INSERT OR REPLACE INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open(driverName, "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	err = EnsureSchema(db)
	if err == nil {
		t.Fatal("expected drift error")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsLockError(t *testing.T) {
	if !isLockError(errors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Fatal("expected locked message to be retried")
	}
	if isLockError(errors.New("no such table")) {
		t.Fatal("expected schema errors not to be retried")
	}
}
