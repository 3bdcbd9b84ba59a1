package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"stockzero/internal/services"
)

type ExportHandlers struct {
	svc *services.ExportService
}

func NewExportHandlers(svc *services.ExportService) *ExportHandlers {
	return &ExportHandlers{svc: svc}
}

// Export streams the current filtered view as a spreadsheet or document.
// Filters are the same query parameters the listing endpoint takes, so the
// exported set is exactly what the caller was just paging through.
func (h *ExportHandlers) Export(c echo.Context) error {
	format := services.FormatExcel
	switch c.QueryParam("format") {
	case "", "xlsx":
	case "pdf":
		format = services.FormatPDF
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "format must be xlsx or pdf")
	}

	result, err := h.svc.Export(c.Request().Context(), scopeFromQuery(c), filtersFromQuery(c), format)
	if err != nil {
		return httpError(err)
	}

	if result.ArchiveURL != "" {
		c.Response().Header().Set("X-Archive-Url", result.ArchiveURL)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	return c.Blob(http.StatusOK, result.ContentType, result.Data)
}
