package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stockzero/internal/models"
)

// Fetcher is the query-layer boundary every repository sits on: one entry
// point returning tabular row sets. Satisfied by *db.Runner.
type Fetcher interface {
	QDF(ctx context.Context, sql string, args ...any) (*models.RowSet, error)
}

// Cached row sets cross a JSON round-trip, so numeric values may arrive as
// float64 and dates as strings. These coercions keep repository mapping
// independent of which cache backend served the rows.

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case json.Number:
		n, _ := t.Int64()
		return n
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "t" || s == "yes"
	default:
		return false
	}
}
