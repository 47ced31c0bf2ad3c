package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/poyrazK/pdnsadmin/internal/adapters/repository"
)

// OpenSQLite returns a repository over a fresh schema-initialized SQLite file database.
func OpenSQLite(t testing.TB) (*repository.SQLRepository, *sql.DB) {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "pdns.sqlite") + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %s", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := repository.ApplySchema(context.Background(), db, repository.SQLite, repository.TableResolver{}); err != nil {
		t.Fatalf("failed to apply schema: %s", err)
	}
	return repository.NewSQLRepository(db, repository.SQLite, repository.TableResolver{}, nil), db
}
