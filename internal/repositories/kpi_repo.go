package repositories

import (
	"context"

	"stockzero/internal/models"
	"stockzero/internal/query"
)

type KPIRepository interface {
	StoreKPIs(ctx context.Context, scope models.Scope, brands []string) (*models.StoreKPIs, error)
}

type kpiRepo struct {
	qdf            Fetcher
	maxBrandFilter int
}

// NewKPIRepo builds the KPI reader. maxBrandFilter bounds IN-list size:
// past it the precomputed rollup view is read instead of aggregating the
// facts with a giant brand list.
func NewKPIRepo(qdf Fetcher, maxBrandFilter int) KPIRepository {
	return &kpiRepo{qdf: qdf, maxBrandFilter: maxBrandFilter}
}

func (r *kpiRepo) StoreKPIs(ctx context.Context, scope models.Scope, brands []string) (*models.StoreKPIs, error) {
	if len(brands) > 0 && len(brands) <= r.maxBrandFilter {
		return r.fromFacts(ctx, scope, brands)
	}
	if len(brands) == 0 {
		return r.fromFacts(ctx, scope, nil)
	}
	return r.fromRollup(ctx, scope)
}

func (r *kpiRepo) fromFacts(ctx context.Context, scope models.Scope, brands []string) (*models.StoreKPIs, error) {
	sql, args, err := query.KPIsFromFacts(scope, brands)
	if err != nil {
		return nil, err
	}
	rs, err := r.qdf.QDF(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if rs.Len() == 0 {
		return &models.StoreKPIs{}, nil
	}

	row := rs.Rows[0]
	return &models.StoreKPIs{
		TotalSkus:     asInt64(row[0]),
		Negatives:     asInt64(row[1]),
		StockoutRisks: asInt64(row[2]),
		SalesTotal7d:  asInt64(row[3]),
		StockTotal:    asInt64(row[4]),
		DataDate:      asString(row[5]),
	}, nil
}

func (r *kpiRepo) fromRollup(ctx context.Context, scope models.Scope) (*models.StoreKPIs, error) {
	sql, args, err := query.KPIsFromRollup(scope)
	if err != nil {
		return nil, err
	}
	rs, err := r.qdf.QDF(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if rs.Len() == 0 {
		return &models.StoreKPIs{}, nil
	}

	row := rs.Rows[0]
	return &models.StoreKPIs{
		TotalSkus:     asInt64(row[0]),
		Negatives:     asInt64(row[1]),
		StockoutRisks: asInt64(row[2]),
		SalesTotal7d:  asInt64(row[3]),
		StockTotal:    asInt64(row[4]),
	}, nil
}
