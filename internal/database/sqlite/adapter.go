package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/gymseed/internal/database/common"
	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
)

type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (s *Adapter) Provider() string {
	return "sqlite"
}

func dataSource(url string) string {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(dbPath, "?") {
		return dbPath + "?cache=shared&_journal_mode=WAL&_foreign_keys=on"
	}
	if !strings.Contains(dbPath, "_foreign_keys") && !strings.Contains(dbPath, "_fk=") {
		dbPath += "&_foreign_keys=on"
	}
	return dbPath
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("sqlite3", dataSource(url))
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the handle so callers can apply a schema before seeding.
func (s *Adapter) DB() *sql.DB {
	return s.db
}

func (s *Adapter) Begin(ctx context.Context) (common.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return common.NewSQLTx(tx), nil
}

func (s *Adapter) Builder() squirrel.StatementBuilderType {
	return s.qb
}

func (s *Adapter) SkipDuplicates(ins squirrel.InsertBuilder, conflictColumns ...string) squirrel.InsertBuilder {
	if len(conflictColumns) == 0 {
		return ins.Suffix("ON CONFLICT DO NOTHING")
	}
	return ins.Suffix(fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", strings.Join(conflictColumns, ", ")))
}

func (s *Adapter) InsertReturningID(ctx context.Context, tx common.Tx, ins squirrel.InsertBuilder, idColumn string) (int64, bool, error) {
	query, args, err := ins.Suffix("RETURNING " + idColumn).ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("failed to build insert: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, common.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

func (s *Adapter) Truncate(ctx context.Context, tx common.Tx, tables []string) error {
	if len(tables) == 0 {
		return nil
	}

	for _, t := range tables {
		if _, err := tx.Exec(ctx, "DELETE FROM "+quoteIdent(t)); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", t, err)
		}
	}

	// sqlite_sequence only exists once an AUTOINCREMENT table has been written.
	var n int
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'").Scan(&n); err != nil {
		return fmt.Errorf("failed to inspect sqlite_sequence: %w", err)
	}
	if n == 0 {
		return nil
	}

	query, args, err := s.qb.Delete("sqlite_sequence").Where(squirrel.Eq{"name": tables}).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to reset sequences: %w", err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *Adapter) IsUniqueViolation(err error) bool {
	var sqErr sqlite3.Error
	if !errors.As(err, &sqErr) {
		return false
	}
	return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
