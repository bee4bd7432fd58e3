package types

import "errors"

// ErrDuplicate is returned by a store when an insert hits an existing
// natural key under FailOnConflict.
var ErrDuplicate = errors.New("duplicate key")

// ErrNotFound is returned by store lookups that match no row.
var ErrNotFound = errors.New("not found")

// ErrInconsistent marks generated data that would break a cross-entity
// invariant. It is a generator bug and aborts the run.
var ErrInconsistent = errors.New("inconsistent seed data")
