package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"stockzero/internal/models"
)

// QueryCache memoizes row sets by composite key. Concurrent misses for the
// same key may race to populate it; last write wins, results are idempotent
// per key.
type QueryCache interface {
	Get(ctx context.Context, key string) (*models.RowSet, bool)
	Set(ctx context.Context, key string, rows *models.RowSet, ttl time.Duration) error
}

// CacheKey builds the composite cache key from the data-version token, the
// normalized SQL text, and the bound parameters. The construction is kept
// explicit so invalidation behavior stays testable.
func CacheKey(version, sql string, args []any) string {
	norm := strings.Join(strings.Fields(sql), " ")
	sqlSum := sha256.Sum256([]byte(norm))

	encoded, err := json.Marshal(args)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", args))
	}
	argSum := sha256.Sum256(encoded)

	return "stockzero:qdf:" + version + ":" +
		hex.EncodeToString(sqlSum[:8]) + ":" + hex.EncodeToString(argSum[:8])
}

// Runner is the single query-layer entry point. Every higher-level helper
// (selectors, KPI rollups, listings, exports) goes through QDF.
type Runner struct {
	src    Acquirer
	oracle Versioner
	cache  QueryCache
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewRunner(src Acquirer, oracle Versioner, cache QueryCache, ttl time.Duration, log *zap.SugaredLogger) *Runner {
	return &Runner{
		src:    src,
		oracle: oracle,
		cache:  cache,
		ttl:    ttl,
		log:    log,
	}
}

// QDF executes a read-only statement through the version-keyed cache.
// A cached entry is served only while both validity conditions hold: the
// wall-clock TTL has not passed and the data-version token still matches.
func (r *Runner) QDF(ctx context.Context, sql string, args ...any) (*models.RowSet, error) {
	version := r.oracle.CurrentVersion(ctx)
	key := CacheKey(version, sql, args)

	if rows, ok := r.cache.Get(ctx, key); ok {
		return rows, nil
	}

	q, release, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, &QueryError{SQL: sql, Err: err}
	}
	rs, err := CollectRowSet(rows)
	if err != nil {
		return nil, &QueryError{SQL: sql, Err: err}
	}

	if err := r.cache.Set(ctx, key, rs, r.ttl); err != nil {
		r.log.Warnw("cache store failed", "error", err)
	}
	return rs, nil
}

// CollectRowSet drains pgx rows into the tabular structure handed to
// callers and stored in the cache.
func CollectRowSet(rows pgx.Rows) (*models.RowSet, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	rs := &models.RowSet{Columns: make([]string, len(fields))}
	for i, fd := range fields {
		rs.Columns[i] = string(fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make([]any, len(values))
		copy(row, values)
		rs.Rows = append(rs.Rows, row)
	}
	return rs, rows.Err()
}
