package repositories

import (
	"context"

	"stockzero/internal/models"
	"stockzero/internal/query"
)

type ListingRepository interface {
	Page(ctx context.Context, scope models.Scope, filters models.FilterSet, page, pageSize int) ([]models.SkuRow, int, error)
	ExportRows(ctx context.Context, scope models.Scope, filters models.FilterSet) ([]models.SkuRow, error)
}

type listingRepo struct {
	qdf Fetcher
}

func NewListingRepo(qdf Fetcher) ListingRepository {
	return &listingRepo{qdf: qdf}
}

// Page runs the filtered listing with server-side pagination. The total is
// read once from the window-count column; when the requested page lies past
// the last one, a separate count preserves a correct total alongside the
// empty slice.
func (r *listingRepo) Page(ctx context.Context, scope models.Scope, filters models.FilterSet, page, pageSize int) ([]models.SkuRow, int, error) {
	sql, args, err := query.ListingPage(scope, filters, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	rs, err := r.qdf.QDF(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}

	if rs.Len() == 0 {
		if page == 0 {
			return nil, 0, nil
		}
		total, err := r.count(ctx, scope, filters)
		if err != nil {
			return nil, 0, err
		}
		return nil, total, nil
	}

	total := 0
	if idx := rs.ColumnIndex(query.TotalColumn); idx >= 0 {
		total = int(asInt64(rs.Rows[0][idx]))
	}
	return mapSkuRows(rs.DropColumn(query.TotalColumn)), total, nil
}

func (r *listingRepo) ExportRows(ctx context.Context, scope models.Scope, filters models.FilterSet) ([]models.SkuRow, error) {
	sql, args, err := query.ListingExport(scope, filters)
	if err != nil {
		return nil, err
	}

	rs, err := r.qdf.QDF(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return mapSkuRows(rs), nil
}

func (r *listingRepo) count(ctx context.Context, scope models.Scope, filters models.FilterSet) (int, error) {
	sql, args, err := query.ListingCount(scope, filters)
	if err != nil {
		return 0, err
	}
	rs, err := r.qdf.QDF(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	if rs.Len() == 0 || len(rs.Rows[0]) == 0 {
		return 0, nil
	}
	return int(asInt64(rs.Rows[0][0])), nil
}

func mapSkuRows(rs *models.RowSet) []models.SkuRow {
	if rs.Len() == 0 {
		return nil
	}

	var (
		brand = rs.ColumnIndex("brand")
		sku   = rs.ColumnIndex("sku")
		desc  = rs.ColumnIndex("description")
		stock = rs.ColumnIndex("stock")
		sales = rs.ColumnIndex("sales_7d")
		neg   = rs.ColumnIndex("is_negative")
		risk  = rs.ColumnIndex("has_stockout_risk")
		extra = rs.ColumnIndex("extra")
	)

	rows := make([]models.SkuRow, 0, rs.Len())
	for _, row := range rs.Rows {
		rows = append(rows, models.SkuRow{
			Brand:        asString(row[brand]),
			Sku:          asString(row[sku]),
			Description:  asString(row[desc]),
			Stock:        asInt64(row[stock]),
			Sales7d:      asInt64(row[sales]),
			Negative:     asBool(row[neg]),
			StockoutRisk: asBool(row[risk]),
			Extra:        asString(row[extra]),
		})
	}
	return rows
}
