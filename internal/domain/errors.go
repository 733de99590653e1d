package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound: a referenced entity (beer, customer, order, order line) does
// not exist. Aborts the whole enclosing operation.
var ErrNotFound = errors.New("resource not found")

// ConflictError: an optimistic write presented a stale version. Current is
// the version stored at the time of the failed write; the caller must
// re-read and retry.
type ConflictError struct {
	Current int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("stale version, retry with latest (current version %d)", e.Current)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}
