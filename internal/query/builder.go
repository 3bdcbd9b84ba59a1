// Package query composes the parameterized SQL for the filtered listing and
// KPI reads. Predicates are squirrel fragments joined with AND; values are
// always bound through placeholders, never inlined.
package query

import (
	sq "github.com/Masterminds/squirrel"

	"stockzero/internal/models"
)

const (
	// ListingView is the denormalized per-scope, per-sku view with
	// precomputed negative/risk flags.
	ListingView = "v_store_sku_listing"

	// FactsView carries the latest stock/sales facts used for KPI rollups.
	FactsView = "v_stock_latest"

	// KPIView is the precomputed rollup used when the brand filter is too
	// large for an IN-list.
	KPIView = "v_store_kpis"

	// TotalColumn is the internal window-count column the paginated wrapper
	// adds; it is stripped before rows leave the query layer.
	TotalColumn = "total_rows"
)

// ListingColumns is the fixed projection of the listing view, in the order
// rows are returned and exported.
var ListingColumns = []string{
	"brand",
	"sku",
	"description",
	"stock",
	"sales_7d",
	"is_negative",
	"has_stockout_risk",
	"extra",
}

// listingOrder is the stable total order pagination depends on: flagged
// rows first, then brand, then skus numerically when fully numeric, with
// raw sku text and description as tie-breaks. The numeric key casts to
// numeric, not bigint: sku is unbounded text and a 19+ digit sku would
// overflow bigint and abort the whole statement.
var listingOrder = []string{
	"is_negative DESC",
	"has_stockout_risk DESC",
	"brand ASC",
	"CASE WHEN sku ~ '^[0-9]+$' THEN 0 ELSE 1 END ASC",
	"CASE WHEN sku ~ '^[0-9]+$' THEN sku::numeric END ASC",
	"sku ASC",
	"description ASC",
}

func scopeEq(scope models.Scope) sq.Eq {
	return sq.Eq{
		"route_id":   scope.RouteID,
		"stocker_id": scope.StockerID,
		"store_code": scope.StoreCode,
	}
}

// listingWhere assembles the AND'd predicate list for the listing view:
// the fixed scope equality plus zero or more filter conjuncts. There is
// never an OR across different filter categories.
func listingWhere(scope models.Scope, filters models.FilterSet) (sq.And, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	pred := sq.And{scopeEq(scope)}

	if len(filters.Brands) > 0 {
		pred = append(pred, sq.Eq{"brand": filters.Brands})
	}
	if filters.Focus.Negatives() {
		pred = append(pred, sq.Eq{"is_negative": true})
	}
	if filters.Focus.Risk() {
		pred = append(pred, sq.Eq{"has_stockout_risk": true})
	}
	if term, ok := filters.ActiveSearch(); ok {
		pattern := "%" + term + "%"
		pred = append(pred, sq.Or{
			sq.ILike{"sku::text": pattern},
			sq.ILike{"description": pattern},
			sq.ILike{"brand": pattern},
		})
	}
	return pred, nil
}

func listingBase(scope models.Scope, filters models.FilterSet) (sq.SelectBuilder, error) {
	pred, err := listingWhere(scope, filters)
	if err != nil {
		return sq.SelectBuilder{}, err
	}
	return sq.Select(ListingColumns...).
		From(ListingView).
		Where(pred), nil
}

// ListingPage wraps the filtered listing so the total row count is computed
// once via a window function alongside the page slice. page is zero-based.
func ListingPage(scope models.Scope, filters models.FilterSet, page, pageSize int) (string, []any, error) {
	base, err := listingBase(scope, filters)
	if err != nil {
		return "", nil, err
	}

	cols := make([]string, 0, len(ListingColumns)+1)
	cols = append(cols, ListingColumns...)
	cols = append(cols, "COUNT(*) OVER () AS "+TotalColumn)

	return sq.Select(cols...).
		FromSelect(base, "filtered").
		OrderBy(listingOrder...).
		Limit(uint64(pageSize)).
		Offset(uint64(page) * uint64(pageSize)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// ListingExport is the unbounded variant of the same filtered predicate,
// in the same order, so exported output matches the paginated view exactly.
func ListingExport(scope models.Scope, filters models.FilterSet) (string, []any, error) {
	base, err := listingBase(scope, filters)
	if err != nil {
		return "", nil, err
	}
	return base.
		OrderBy(listingOrder...).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// ListingCount counts the filtered set without fetching it. Needed when a
// requested page lies beyond the last one: the window count comes back with
// zero rows, but total_count must still be populated correctly.
func ListingCount(scope models.Scope, filters models.FilterSet) (string, []any, error) {
	pred, err := listingWhere(scope, filters)
	if err != nil {
		return "", nil, err
	}
	return sq.Select("COUNT(*)").
		From(ListingView).
		Where(pred).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// KPIsFromFacts aggregates the latest stock/sales facts, optionally
// restricted to a brand subset.
func KPIsFromFacts(scope models.Scope, brands []string) (string, []any, error) {
	if err := scope.Validate(); err != nil {
		return "", nil, err
	}

	b := sq.Select(
		"COUNT(*) AS total_skus",
		"SUM(CASE WHEN stock < 0 THEN 1 ELSE 0 END) AS negatives",
		"SUM(CASE WHEN sales_7d > 0 AND stock > 0 AND stock < sales_7d THEN 1 ELSE 0 END) AS stockout_risks",
		"SUM(sales_7d) AS sales_total_7d",
		"SUM(stock) AS stock_total",
		"MAX(data_date) AS data_date",
	).
		From(FactsView).
		Where(scopeEq(scope))

	if len(brands) > 0 {
		b = b.Where(sq.Eq{"brand": brands})
	}
	return b.PlaceholderFormat(sq.Dollar).ToSql()
}

// KPIsFromRollup reads the precomputed per-store rollup. Used when the
// brand list would blow up the query plan as an IN-list.
func KPIsFromRollup(scope models.Scope) (string, []any, error) {
	if err := scope.Validate(); err != nil {
		return "", nil, err
	}
	return sq.Select(
		"total_skus",
		"negatives",
		"stockout_risks",
		"sales_total_7d",
		"stock_total",
	).
		From(KPIView).
		Where(scopeEq(scope)).
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}
