package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoRows is returned by Row.Scan when the query matched nothing,
// whatever driver produced the row.
var ErrNoRows = errors.New("no rows in result set")

type Row interface {
	Scan(dest ...any) error
}

type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Tx is the slice of a driver transaction the store needs. The postgres
// adapter backs it with pgx, mysql and sqlite with database/sql.
type Tx interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Savepoint runs fn inside a named savepoint so a failing statement can be
// undone without aborting the surrounding transaction.
func Savepoint(ctx context.Context, tx Tx, name string, fn func() error) error {
	if _, err := tx.Exec(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint %s: %w", name, err)
	}

	if err := fn(); err != nil {
		if _, rbErr := tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("%w (rollback to savepoint %s failed: %v)", err, name, rbErr)
		}
		return err
	}

	if _, err := tx.Exec(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to release savepoint %s: %w", name, err)
	}
	return nil
}

type SQLTx struct {
	tx *sql.Tx
}

func NewSQLTx(tx *sql.Tx) *SQLTx {
	return &SQLTx{tx: tx}
}

func (t *SQLTx) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, err
	}

	var out Result
	// Drivers that cannot report these leave the zero value.
	out.RowsAffected, _ = res.RowsAffected()
	out.LastInsertID, _ = res.LastInsertId()
	return out, nil
}

func (t *SQLTx) QueryRow(ctx context.Context, query string, args ...any) Row {
	return sqlRow{row: t.tx.QueryRowContext(ctx, query, args...)}
}

func (t *SQLTx) Commit(ctx context.Context) error {
	return t.tx.Commit()
}

func (t *SQLTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

type sqlRow struct {
	row *sql.Row
}

func (r sqlRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoRows
		}
		return err
	}
	return nil
}
