package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poyrazK/pdnsadmin/internal/core/ports"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// SQLRepository implements ports.Repository over database/sql for MySQL, PostgreSQL and
// SQLite.
type SQLRepository struct {
	db      *sql.DB
	q       querier
	inTx    bool
	dialect Dialect
	tables  TableResolver
	logger  *slog.Logger
}

var _ ports.Repository = (*SQLRepository)(nil)

// NewSQLRepository creates a repository on an open handle.
func NewSQLRepository(db *sql.DB, dialect Dialect, tables TableResolver, logger *slog.Logger) *SQLRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLRepository{db: db, q: db, dialect: dialect, tables: tables, logger: logger}
}

// Dialect returns the SQL flavour the repository speaks.
func (r *SQLRepository) Dialect() Dialect {
	return r.dialect
}

func (r *SQLRepository) t(kind TableKind) string {
	return r.tables.Resolve(kind)
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.q.ExecContext(ctx, r.dialect.Rebind(query), args...)
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.q.QueryContext(ctx, r.dialect.Rebind(query), args...)
}

func (r *SQLRepository) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.q.QueryRowContext(ctx, r.dialect.Rebind(query), args...)
}

// insert runs an INSERT into a table with an "id" serial column and returns the new id.
func (r *SQLRepository) insert(ctx context.Context, query string, args ...any) (int64, error) {
	if r.dialect == PostgreSQL {
		var id int64
		if err := r.queryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := r.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SQLRepository) closeRows(rows *sql.Rows) {
	if errClose := rows.Close(); errClose != nil {
		r.logger.Warn("failed to close rows", "error", errClose)
	}
}

func (r *SQLRepository) withTx(ctx context.Context, fn func(*SQLRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	tx, errTx := r.db.BeginTx(ctx, nil)
	if errTx != nil {
		return fmt.Errorf("begin transaction: %w", errTx)
	}
	defer func() {
		if errRollback := tx.Rollback(); errRollback != nil && !errors.Is(errRollback, sql.ErrTxDone) {
			r.logger.Error("failed to rollback transaction", "error", errRollback)
		}
	}()

	txRepo := &SQLRepository{db: r.db, q: tx, inTx: true, dialect: r.dialect, tables: r.tables, logger: r.logger}
	if err := fn(txRepo); err != nil {
		return err
	}
	return tx.Commit()
}

// WithinTx runs fn in a transaction. Calls on a repository already bound to a
// transaction join it.
func (r *SQLRepository) WithinTx(ctx context.Context, fn func(ports.Repository) error) error {
	return r.withTx(ctx, func(tx *SQLRepository) error { return fn(tx) })
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
