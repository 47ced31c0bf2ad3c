package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in     string
		want   Dialect
		driver string
	}{
		{"mysql", MySQL, "mysql"},
		{"MariaDB", MySQL, "mysql"},
		{"pgsql", PostgreSQL, "pgx"},
		{"postgres", PostgreSQL, "pgx"},
		{"sqlite3", SQLite, "sqlite3"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if err != nil {
				t.Fatalf("ParseDialect failed: %v", err)
			}
			if got != tt.want || got.DriverName() != tt.driver {
				t.Errorf("ParseDialect(%q) = %s/%s", tt.in, got, got.DriverName())
			}
		})
	}
	if _, err := ParseDialect("oracle"); err == nil {
		t.Errorf("expected error for unsupported database type")
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT id FROM records WHERE domain_id = ? AND name = ?"
	if got := PostgreSQL.Rebind(q); got != "SELECT id FROM records WHERE domain_id = $1 AND name = $2" {
		t.Errorf("unexpected pgsql query %q", got)
	}
	if got := MySQL.Rebind(q); got != q {
		t.Errorf("mysql query must not change, got %q", got)
	}
	if got := SQLite.Rebind(q); got != q {
		t.Errorf("sqlite query must not change, got %q", got)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql other", &mysql.MySQLError{Number: 1146}, false},
		{"pgsql unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"pgsql other", &pgconn.PgError{Code: "42P01"}, false},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true},
		{"sqlite primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, true},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, false},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateKey(tt.err); got != tt.want {
				t.Errorf("isDuplicateKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSchemaStatements(t *testing.T) {
	pdns, _ := NewTableResolver("pdns")
	local, _ := NewTableResolver("")

	for _, d := range []Dialect{MySQL, PostgreSQL, SQLite} {
		stmts, err := SchemaStatements(d, local)
		if err != nil {
			t.Fatalf("SchemaStatements(%s) failed: %v", d, err)
		}
		if len(stmts) < 8 {
			t.Errorf("expected at least 8 statements for %s, got %d", d, len(stmts))
		}
	}

	stmts, err := SchemaStatements(PostgreSQL, pdns)
	if err != nil {
		t.Fatalf("SchemaStatements failed: %v", err)
	}
	found := false
	for _, s := range stmts {
		if s == "" || strings.HasPrefix(s, "--") {
			t.Errorf("unexpected statement %q", s)
		}
		if strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS pdns.domains ") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the domains table in the pdns schema")
	}

	if _, err := SchemaStatements(SQLite, pdns); err == nil {
		t.Errorf("expected error for sqlite with a secondary database")
	}
}
