package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// UnknownVersion is the sentinel reported when every freshness candidate
// fails. The read path stays available at the cost of stronger cache
// staleness risk.
const UnknownVersion = "NA"

// Versioner reports the current data-version token.
type Versioner interface {
	CurrentVersion(ctx context.Context) string
}

// versionCandidates are tried in order; the first non-null scalar wins.
// Each is a cheap single-aggregate read, since the token is checked before
// every cached query.
var versionCandidates = []string{
	"SELECT MAX(ingested_at) AS dv FROM fact_stock_sales",
	"SELECT MAX(data_date) AS dv FROM v_stock_latest",
	"SELECT MAX(data_date) AS dv FROM v_store_sku_listing",
}

// VersionOracle derives the opaque freshness token used as the sole
// cache-invalidation signal. The token is never interpreted, only compared.
type VersionOracle struct {
	src Acquirer
	ttl time.Duration
	log *zap.SugaredLogger
	now func() time.Time

	mu        sync.Mutex
	cached    string
	fetchedAt time.Time
}

func NewVersionOracle(src Acquirer, ttl time.Duration, log *zap.SugaredLogger) *VersionOracle {
	return &VersionOracle{
		src: src,
		ttl: ttl,
		log: log,
		now: time.Now,
	}
}

func (o *VersionOracle) CurrentVersion(ctx context.Context) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cached != "" && o.now().Sub(o.fetchedAt) < o.ttl {
		return o.cached
	}

	next := o.fetch(ctx)
	if next == UnknownVersion && o.cached != "" && o.cached != UnknownVersion {
		// Keep the newest known token instead of letting callers observe
		// freshness go backwards during a probe outage.
		next = o.cached
	}
	o.cached = next
	o.fetchedAt = o.now()
	return o.cached
}

func (o *VersionOracle) fetch(ctx context.Context) string {
	q, release, err := o.src.Acquire(ctx)
	if err != nil {
		o.log.Warnw("version probe unavailable, using sentinel", "error", err)
		return UnknownVersion
	}
	defer release()

	for _, sql := range versionCandidates {
		v, ok := scalar(ctx, q, sql)
		if !ok || v == nil {
			continue
		}
		if t, isTime := v.(time.Time); isTime {
			return t.UTC().Format(time.RFC3339Nano)
		}
		return fmt.Sprint(v)
	}

	o.log.Warnw("all freshness candidates failed, using sentinel")
	return UnknownVersion
}

// scalar reads the first column of the first row, tolerating failures so
// the next candidate can be tried.
func scalar(ctx context.Context, q Querier, sql string) (any, bool) {
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false
	}
	values, err := rows.Values()
	if err != nil || len(values) == 0 {
		return nil, false
	}
	return values[0], true
}
