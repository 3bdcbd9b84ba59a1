package services

import (
	"context"

	"go.uber.org/zap"

	"stockzero/internal/models"
	"stockzero/internal/repositories"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ListingPage is one slice of the filtered listing plus the total size of
// the filtered set.
type ListingPage struct {
	Rows       []models.SkuRow `json:"rows"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

// DashboardService orchestrates the read path behind the dashboard:
// selector enumeration, KPI rollups, and the filtered, paginated listing.
type DashboardService struct {
	catalog repositories.CatalogRepository
	kpis    repositories.KPIRepository
	listing repositories.ListingRepository
	log     *zap.SugaredLogger
}

func NewDashboardService(catalog repositories.CatalogRepository, kpis repositories.KPIRepository, listing repositories.ListingRepository, log *zap.SugaredLogger) *DashboardService {
	return &DashboardService{
		catalog: catalog,
		kpis:    kpis,
		listing: listing,
		log:     log,
	}
}

func (s *DashboardService) Routes(ctx context.Context) ([]models.RouteStockerPair, error) {
	return s.catalog.RouteStockerPairs(ctx)
}

func (s *DashboardService) Stores(ctx context.Context, routeID, stockerID string) ([]models.Store, error) {
	return s.catalog.StoresForRoute(ctx, routeID, stockerID)
}

func (s *DashboardService) Brands(ctx context.Context, scope models.Scope) ([]string, error) {
	return s.catalog.BrandsForStore(ctx, scope)
}

func (s *DashboardService) Context(ctx context.Context, scope models.Scope) (*models.StoreContext, error) {
	return s.catalog.StoreContext(ctx, scope)
}

func (s *DashboardService) KPIs(ctx context.Context, scope models.Scope, brands []string) (*models.StoreKPIs, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return s.kpis.StoreKPIs(ctx, scope, brands)
}

// Skus returns one page of the filtered listing. Scope is validated before
// anything reaches the data source; page bounds are clamped rather than
// rejected.
func (s *DashboardService) Skus(ctx context.Context, scope models.Scope, filters models.FilterSet, page, pageSize int) (*ListingPage, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	rows, total, err := s.listing.Page(ctx, scope, filters, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &ListingPage{
		Rows:       rows,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
