package database

import "testing"

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	if got := dialect.DriverName(); got != "sqlite3" {
		t.Errorf("DriverName() = %v, want sqlite3", got)
	}
	if !dialect.SupportsLastInsertId() {
		t.Error("SupportsLastInsertId() should return true for SQLite")
	}
	if got := dialect.MigrationsSubdir(); got != "sqlite" {
		t.Errorf("MigrationsSubdir() = %v, want sqlite", got)
	}
	query := "SELECT * FROM accounts WHERE email = ? AND status = ?"
	if got := dialect.RewriteQuery(query); got != query {
		t.Errorf("RewriteQuery() should leave ? placeholders untouched, got %v", got)
	}
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	if got := dialect.DriverName(); got != "postgres" {
		t.Errorf("DriverName() = %v, want postgres", got)
	}
	if dialect.SupportsLastInsertId() {
		t.Error("SupportsLastInsertId() should return false for PostgreSQL")
	}
	if got := dialect.MigrationsSubdir(); got != "postgres" {
		t.Errorf("MigrationsSubdir() = %v, want postgres", got)
	}

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{
			name:     "single placeholder",
			query:    "SELECT * FROM accounts WHERE email = ?",
			expected: "SELECT * FROM accounts WHERE email = $1",
		},
		{
			name:     "multiple placeholders",
			query:    "UPDATE accounts SET status = ?, updated_at = ? WHERE email = ?",
			expected: "UPDATE accounts SET status = $1, updated_at = $2 WHERE email = $3",
		},
		{
			name:     "no placeholders",
			query:    "SELECT COUNT(*) FROM accounts",
			expected: "SELECT COUNT(*) FROM accounts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dialect.RewriteQuery(tt.query); got != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	if got := dialect.DriverName(); got != "mysql" {
		t.Errorf("DriverName() = %v, want mysql", got)
	}
	if !dialect.SupportsLastInsertId() {
		t.Error("SupportsLastInsertId() should return true for MySQL")
	}
	if got := dialect.MigrationsSubdir(); got != "mysql" {
		t.Errorf("MigrationsSubdir() = %v, want mysql", got)
	}

	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "appends connection params",
			url:      "user:pass@tcp(localhost:3306)/lexilearn",
			expected: "user:pass@tcp(localhost:3306)/lexilearn?parseTime=true&multiStatements=true",
		},
		{
			name:     "appends to existing query",
			url:      "user:pass@tcp(localhost:3306)/lexilearn?charset=utf8",
			expected: "user:pass@tcp(localhost:3306)/lexilearn?charset=utf8&parseTime=true&multiStatements=true",
		},
		{
			name:     "already set",
			url:      "user:pass@tcp(localhost:3306)/lexilearn?parseTime=true&multiStatements=true",
			expected: "user:pass@tcp(localhost:3306)/lexilearn?parseTime=true&multiStatements=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dialect.DSN(DialectConfig{URL: tt.url}); got != tt.expected {
				t.Errorf("DSN() = %v, want %v", got, tt.expected)
			}
		})
	}
}
