package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/gymseed/internal/database/common"
	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
)

const errDupEntry = 1062

type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (m *Adapter) Provider() string {
	return "mysql"
}

// ToDSN converts a mysql:// URL into the driver's DSN form. Anything else
// is returned unchanged.
func ToDSN(url string) string {
	if !strings.HasPrefix(url, "mysql://") {
		return url
	}

	dsn := strings.TrimPrefix(url, "mysql://")
	atIndex := strings.LastIndex(dsn, "@")
	if atIndex <= 0 {
		return dsn
	}

	credentials := dsn[:atIndex]
	remainder := dsn[atIndex+1:]

	slashIndex := strings.Index(remainder, "/")
	if slashIndex <= 0 {
		return dsn
	}

	hostPort := remainder[:slashIndex]
	dbAndParams := remainder[slashIndex+1:]

	dbAndParams = strings.NewReplacer(
		"ssl-mode=REQUIRED", "tls=skip-verify",
		"ssl-mode=DISABLED", "tls=false",
		"ssl-mode=VERIFY_CA", "tls=true",
		"ssl-mode=VERIFY_IDENTITY", "tls=true",
		"sslmode=require", "tls=skip-verify",
		"sslmode=disable", "tls=false",
		"sslmode=verify-ca", "tls=true",
		"sslmode=verify-full", "tls=true",
	).Replace(dbAndParams)

	return fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, dbAndParams)
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("mysql", ToDSN(url))
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	m.db = db
	return nil
}

func (m *Adapter) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Adapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *Adapter) Begin(ctx context.Context) (common.Tx, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return common.NewSQLTx(tx), nil
}

func (m *Adapter) Builder() squirrel.StatementBuilderType {
	return m.qb
}

// SkipDuplicates uses INSERT IGNORE; MySQL has no per-column conflict target.
func (m *Adapter) SkipDuplicates(ins squirrel.InsertBuilder, conflictColumns ...string) squirrel.InsertBuilder {
	return ins.Options("IGNORE")
}

func (m *Adapter) InsertReturningID(ctx context.Context, tx common.Tx, ins squirrel.InsertBuilder, idColumn string) (int64, bool, error) {
	query, args, err := ins.ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("failed to build insert: %w", err)
	}

	res, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, false, err
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	return res.LastInsertID, true, nil
}

// Truncate deletes rows instead of issuing TRUNCATE, which would commit
// the open transaction. AUTO_INCREMENT counters are left alone for the
// same reason.
func (m *Adapter) Truncate(ctx context.Context, tx common.Tx, tables []string) error {
	for _, t := range tables {
		query := fmt.Sprintf("DELETE FROM `%s`", strings.ReplaceAll(t, "`", "``"))
		if _, err := tx.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", t, err)
		}
	}
	return nil
}

func (m *Adapter) IsUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errDupEntry
}
