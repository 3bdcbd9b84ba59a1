package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PoolSettings bound worst-case latency under concurrent load. Defaults
// target 30-50 simultaneous sessions sharing one process.
type PoolSettings struct {
	Size               int
	Overflow           int
	AcquireTimeout     time.Duration
	Recycle            time.Duration
	ConnectTimeout     time.Duration
	StatementTimeoutMS int
}

func DefaultPoolSettings() PoolSettings {
	return PoolSettings{
		Size:               15,
		Overflow:           30,
		AcquireTimeout:     30 * time.Second,
		Recycle:            30 * time.Minute,
		ConnectTimeout:     3 * time.Second,
		StatementTimeoutMS: 15000,
	}
}

// PoolManager owns one pgx pool per distinct endpoint URL, created lazily
// and kept for the process lifetime. Never create a pool per query.
type PoolManager struct {
	settings PoolSettings
	log      *zap.SugaredLogger

	mu    sync.Mutex
	pools map[string]*pgxpool.Pool
}

func NewPoolManager(settings PoolSettings, log *zap.SugaredLogger) *PoolManager {
	return &PoolManager{
		settings: settings,
		log:      log,
		pools:    make(map[string]*pgxpool.Pool),
	}
}

func (m *PoolManager) PoolFor(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, ErrNoEndpoint
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if pool, ok := m.pools[url]; ok {
		return pool, nil
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint config: %w", err)
	}
	cfg.MaxConns = int32(m.settings.Size + m.settings.Overflow)
	cfg.MinConns = 0
	cfg.MaxConnLifetime = m.settings.Recycle
	cfg.ConnConfig.ConnectTimeout = m.settings.ConnectTimeout
	if m.settings.StatementTimeoutMS > 0 {
		// Enforced at the connection level so a runaway scan cannot hold a
		// checkout past the statement timeout.
		cfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.Itoa(m.settings.StatementTimeoutMS)
	}
	// Pre-validate connections on checkout to tolerate idle drops.
	cfg.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		return conn.Ping(ctx) == nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	m.log.Infow("pool ready", "max_conns", cfg.MaxConns)
	m.pools[url] = pool
	return pool, nil
}

// Acquire checks a connection out of the pool for the given URL, bounded
// by the configured acquire timeout.
func (m *PoolManager) Acquire(ctx context.Context, url string) (*pgxpool.Conn, error) {
	pool, err := m.PoolFor(ctx, url)
	if err != nil {
		return nil, err
	}

	acquireCtx, cancel := context.WithTimeout(ctx, m.settings.AcquireTimeout)
	defer cancel()

	conn, err := pool.Acquire(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: checkout blocked for %s", ErrPoolExhausted, m.settings.AcquireTimeout)
		}
		return nil, err
	}
	return conn, nil
}

func (m *PoolManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for url, pool := range m.pools {
		pool.Close()
		delete(m.pools, url)
	}
}
