package database

import (
	"context"

	"github.com/Lumos-Labs-HQ/gymseed/internal/database/common"
	"github.com/Masterminds/squirrel"
)

type DatabaseAdapter interface {
	Provider() string
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (common.Tx, error)

	// Statement building
	Builder() squirrel.StatementBuilderType
	SkipDuplicates(ins squirrel.InsertBuilder, conflictColumns ...string) squirrel.InsertBuilder

	// InsertReturningID runs ins and returns the generated key of idColumn.
	// inserted is false when a duplicate-skipping insert left the table unchanged.
	InsertReturningID(ctx context.Context, tx common.Tx, ins squirrel.InsertBuilder, idColumn string) (id int64, inserted bool, err error)

	// Truncate removes every row of tables, in the given order, and resets
	// their identity sequences where that can be done inside tx.
	Truncate(ctx context.Context, tx common.Tx, tables []string) error

	IsUniqueViolation(err error) bool
}
