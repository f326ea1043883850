package database

import (
	"os"
	"path/filepath"
	"testing"
)

// TestMigrationsLifecycle runs the real migration machinery against a
// throwaway SQLite database.
func TestMigrationsLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	migration := `
		CREATE TABLE accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			role TEXT NOT NULL,
			status TEXT NOT NULL
		);
	`
	migrationsDir := filepath.Join(dir, "migrations")
	if err := os.MkdirAll(filepath.Join(migrationsDir, "sqlite"), 0o755); err != nil {
		t.Fatalf("failed to create migrations dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(migrationsDir, "sqlite", "001_accounts.sql"), []byte(migration), 0o644); err != nil {
		t.Fatalf("failed to write migration: %v", err)
	}

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(migrationsDir); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// running migrations again must be a no-op
	if err := db.RunMigrations(migrationsDir); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}

	id, err := db.ExecReturningID(
		"INSERT INTO accounts (email, role, status) VALUES (?, ?, ?)",
		"parent@example.com", "guardian", "active")
	if err != nil {
		t.Fatalf("Failed to insert account: %v", err)
	}
	if id == 0 {
		t.Error("ExecReturningID returned zero id")
	}

	var status string
	err = db.QueryRow("SELECT status FROM accounts WHERE email = ?", "parent@example.com").Scan(&status)
	if err != nil {
		t.Fatalf("Failed to read account back: %v", err)
	}
	if status != "active" {
		t.Errorf("status = %q, want %q", status, "active")
	}
}

// TestMigrationsUseDialectSubdir verifies each engine only runs its own DDL.
// The postgres file here is not valid SQLite, so picking it up would fail
// the run.
func TestMigrationsUseDialectSubdir(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := t.TempDir()
	migrationsDir := filepath.Join(dir, "migrations")
	for subdir, ddl := range map[string]string{
		"sqlite":   "CREATE TABLE words (id INTEGER PRIMARY KEY AUTOINCREMENT, word TEXT NOT NULL);",
		"postgres": "CREATE TABLE words (id BIGSERIAL PRIMARY KEY, word TEXT NOT NULL);",
	} {
		if err := os.MkdirAll(filepath.Join(migrationsDir, subdir), 0o755); err != nil {
			t.Fatalf("failed to create migrations dir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(migrationsDir, subdir, "001_words.sql"), []byte(ddl), 0o644); err != nil {
			t.Fatalf("failed to write migration: %v", err)
		}
	}

	db, err := Initialize(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(migrationsDir); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if _, err := db.Exec("INSERT INTO words (word) VALUES (?)", "because"); err != nil {
		t.Fatalf("sqlite migration did not run: %v", err)
	}
}

// TestTransactionRollback verifies the Tx wrapper keeps dialect rewriting
// and discards uncommitted writes.
func TestTransactionRollback(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "tx.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY AUTOINCREMENT, body TEXT)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.ExecReturningID("INSERT INTO notes (body) VALUES (?)", "discard me"); err != nil {
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count); err != nil {
		t.Fatalf("Failed to count notes: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback to discard insert, found %d rows", count)
	}
}
