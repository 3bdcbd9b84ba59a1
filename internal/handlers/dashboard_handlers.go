package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"stockzero/internal/db"
	"stockzero/internal/models"
	"stockzero/internal/services"
)

type DashboardHandlers struct {
	svc *services.DashboardService
}

func NewDashboardHandlers(svc *services.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{svc: svc}
}

func (h *DashboardHandlers) Routes(c echo.Context) error {
	pairs, err := h.svc.Routes(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pairs)
}

func (h *DashboardHandlers) Stores(c echo.Context) error {
	routeID := c.QueryParam("route_id")
	stockerID := c.QueryParam("stocker_id")
	if routeID == "" || stockerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "route_id and stocker_id are required")
	}

	stores, err := h.svc.Stores(c.Request().Context(), routeID, stockerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stores)
}

func (h *DashboardHandlers) Brands(c echo.Context) error {
	brands, err := h.svc.Brands(c.Request().Context(), scopeFromQuery(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, brands)
}

func (h *DashboardHandlers) Context(c echo.Context) error {
	sc, err := h.svc.Context(c.Request().Context(), scopeFromQuery(c))
	if err != nil {
		return httpError(err)
	}
	if sc == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no data for this scope")
	}
	return c.JSON(http.StatusOK, sc)
}

func (h *DashboardHandlers) KPIs(c echo.Context) error {
	kpis, err := h.svc.KPIs(c.Request().Context(), scopeFromQuery(c), brandsFromQuery(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, kpis)
}

func (h *DashboardHandlers) Skus(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	result, err := h.svc.Skus(c.Request().Context(), scopeFromQuery(c), filtersFromQuery(c), page, pageSize)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func scopeFromQuery(c echo.Context) models.Scope {
	return models.Scope{
		RouteID:   c.QueryParam("route_id"),
		StockerID: c.QueryParam("stocker_id"),
		StoreCode: c.QueryParam("store_code"),
	}
}

func brandsFromQuery(c echo.Context) []string {
	raw := c.QueryParam("brands")
	if raw == "" {
		return nil
	}
	var brands []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brands = append(brands, b)
		}
	}
	return brands
}

func filtersFromQuery(c echo.Context) models.FilterSet {
	return models.FilterSet{
		Brands: brandsFromQuery(c),
		Focus:  models.ParseFocus(c.QueryParam("focus")),
		Search: c.QueryParam("q"),
	}
}

// httpError maps the query-layer error taxonomy onto HTTP statuses. Query
// execution errors keep the driver diagnostic verbatim so operators can
// read the root cause.
func httpError(err error) error {
	switch {
	case errors.Is(err, models.ErrIncompleteScope):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrNoEndpoint):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	case errors.Is(err, db.ErrPoolExhausted):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
