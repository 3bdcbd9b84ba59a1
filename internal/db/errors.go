package db

import (
	"errors"
	"fmt"
)

// ErrNoEndpoint means no database URL was ever configured. Fatal, surfaced
// immediately, never retried.
var ErrNoEndpoint = errors.New("no database endpoint configured")

// ErrPoolExhausted means a connection checkout blocked past the pool
// timeout. Retryable by the caller; this layer never retries it.
var ErrPoolExhausted = errors.New("connection pool exhausted")

// QueryError wraps a failed statement while preserving the driver's
// original diagnostic untouched, so operators can read it verbatim.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
