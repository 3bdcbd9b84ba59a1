package repositories

import (
	"context"

	"stockzero/internal/models"
)

// CatalogRepository enumerates the selector data the dashboard is driven
// by: route/stocker pairs, the stores on a route, and per-store brands.
type CatalogRepository interface {
	RouteStockerPairs(ctx context.Context) ([]models.RouteStockerPair, error)
	StoresForRoute(ctx context.Context, routeID, stockerID string) ([]models.Store, error)
	BrandsForStore(ctx context.Context, scope models.Scope) ([]string, error)
	StoreContext(ctx context.Context, scope models.Scope) (*models.StoreContext, error)
}

type catalogRepo struct {
	qdf Fetcher
}

func NewCatalogRepo(qdf Fetcher) CatalogRepository {
	return &catalogRepo{qdf: qdf}
}

func (r *catalogRepo) RouteStockerPairs(ctx context.Context) ([]models.RouteStockerPair, error) {
	sql := `
		SELECT route_id, stocker_id
		FROM v_route_stocker_pairs
		ORDER BY route_id, stocker_id
	`
	rs, err := r.qdf.QDF(ctx, sql)
	if err != nil {
		return nil, err
	}

	pairs := make([]models.RouteStockerPair, 0, rs.Len())
	for _, row := range rs.Rows {
		pairs = append(pairs, models.RouteStockerPair{
			RouteID:   asString(row[0]),
			StockerID: asString(row[1]),
		})
	}
	return pairs, nil
}

func (r *catalogRepo) StoresForRoute(ctx context.Context, routeID, stockerID string) ([]models.Store, error) {
	sql := `
		SELECT store_code, store_name
		FROM v_route_stores
		WHERE route_id = $1 AND stocker_id = $2
		ORDER BY store_code
	`
	rs, err := r.qdf.QDF(ctx, sql, routeID, stockerID)
	if err != nil {
		return nil, err
	}

	stores := make([]models.Store, 0, rs.Len())
	for _, row := range rs.Rows {
		stores = append(stores, models.Store{
			Code: asString(row[0]),
			Name: asString(row[1]),
		})
	}
	return stores, nil
}

func (r *catalogRepo) BrandsForStore(ctx context.Context, scope models.Scope) ([]string, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	sql := `
		SELECT DISTINCT brand
		FROM v_stock_latest
		WHERE route_id = $1 AND stocker_id = $2 AND store_code = $3
		ORDER BY brand
	`
	rs, err := r.qdf.QDF(ctx, sql, scope.RouteID, scope.StockerID, scope.StoreCode)
	if err != nil {
		return nil, err
	}

	brands := make([]string, 0, rs.Len())
	for _, row := range rs.Rows {
		brands = append(brands, asString(row[0]))
	}
	return brands, nil
}

func (r *catalogRepo) StoreContext(ctx context.Context, scope models.Scope) (*models.StoreContext, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	sql := `
		SELECT route_id, stocker_id, store_code, store_name, data_date
		FROM v_store_context
		WHERE route_id = $1 AND stocker_id = $2 AND store_code = $3
		LIMIT 1
	`
	rs, err := r.qdf.QDF(ctx, sql, scope.RouteID, scope.StockerID, scope.StoreCode)
	if err != nil {
		return nil, err
	}
	if rs.Len() == 0 {
		return nil, nil
	}

	row := rs.Rows[0]
	return &models.StoreContext{
		Scope: models.Scope{
			RouteID:   asString(row[0]),
			StockerID: asString(row[1]),
			StoreCode: asString(row[2]),
		},
		StoreName: asString(row[3]),
		DataDate:  asString(row[4]),
	}, nil
}
