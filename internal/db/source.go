package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is the read surface this layer needs from a checked-out
// connection. *pgxpool.Conn and *pgxpool.Pool both satisfy it, as does a
// pgxmock pool in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Acquirer hands out a Querier against the currently active endpoint,
// plus a release func the caller must invoke when done.
type Acquirer interface {
	Acquire(ctx context.Context) (Querier, func(), error)
}

// Source is the production Acquirer: endpoint selection followed by a
// bounded pool checkout.
type Source struct {
	selector *EndpointSelector
	pools    *PoolManager
}

func NewSource(selector *EndpointSelector, pools *PoolManager) *Source {
	return &Source{selector: selector, pools: pools}
}

func (s *Source) Acquire(ctx context.Context) (Querier, func(), error) {
	url, err := s.selector.ActiveEndpoint(ctx)
	if err != nil {
		return nil, nil, err
	}
	conn, err := s.pools.Acquire(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Release, nil
}

// Ping runs a liveness statement against the active endpoint. Used by the
// health endpoints.
func (s *Source) Ping(ctx context.Context) error {
	q, release, err := s.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	rows, err := q.Query(ctx, "SELECT 1")
	if err != nil {
		return err
	}
	rows.Close()
	return rows.Err()
}
