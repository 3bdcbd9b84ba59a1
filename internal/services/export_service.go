package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockzero/internal/export"
	"stockzero/internal/models"
	"stockzero/internal/repositories"
)

type ExportFormat string

const (
	FormatExcel ExportFormat = "xlsx"
	FormatPDF   ExportFormat = "pdf"
)

const archiveURLExpiry = 24 * time.Hour

// ExportResult carries the rendered file plus an optional archive link
// when an object store is configured.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	ArchiveURL  string
}

// ExportService produces the "everything currently matching the view"
// dataset and renders it. The dataset goes through the same filtered query
// and sort order as the paginated listing, so an export always matches the
// page totals the user just saw.
type ExportService struct {
	listing repositories.ListingRepository
	catalog repositories.CatalogRepository
	store   ObjectStore
	bucket  string
	log     *zap.SugaredLogger
}

// NewExportService builds the exporter. store may be nil, in which case
// rendered files are returned without being archived.
func NewExportService(listing repositories.ListingRepository, catalog repositories.CatalogRepository, store ObjectStore, bucket string, log *zap.SugaredLogger) *ExportService {
	return &ExportService{
		listing: listing,
		catalog: catalog,
		store:   store,
		bucket:  bucket,
		log:     log,
	}
}

func (s *ExportService) Export(ctx context.Context, scope models.Scope, filters models.FilterSet, format ExportFormat) (*ExportResult, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.listing.ExportRows(ctx, scope, filters)
	if err != nil {
		return nil, err
	}

	stamp := time.Now().Format("2006-01-02")
	storeName := scope.StoreCode
	if sc, err := s.catalog.StoreContext(ctx, scope); err == nil && sc != nil {
		if sc.DataDate != "" {
			stamp = sc.DataDate
		}
		if sc.StoreName != "" {
			storeName = sc.StoreName
		}
	}

	base := fmt.Sprintf("STOCK_ZERO_%s_%s", scope.StoreCode, stamp)
	result := &ExportResult{}

	switch format {
	case FormatPDF:
		data, err := export.PDF(s.titleLines(scope, filters, storeName, stamp), rows)
		if err != nil {
			return nil, err
		}
		result.Data = data
		result.Filename = base + ".pdf"
		result.ContentType = "application/pdf"
	case FormatExcel:
		data, err := export.Excel(scope.StoreCode, rows)
		if err != nil {
			return nil, err
		}
		result.Data = data
		result.Filename = base + ".xlsx"
		result.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	s.archive(ctx, result)
	return result, nil
}

// archive uploads the rendered file when an object store is configured.
// Failures downgrade to a log line; the caller still gets the bytes.
func (s *ExportService) archive(ctx context.Context, result *ExportResult) {
	if s.store == nil || s.bucket == "" {
		return
	}

	object := strings.TrimSuffix(result.Filename, "."+string(formatOf(result.Filename)))
	object = fmt.Sprintf("%s_%s.%s", object, uuid.NewString(), formatOf(result.Filename))

	if err := s.store.EnsureBucketExists(ctx, s.bucket); err != nil {
		s.log.Warnw("export archive bucket unavailable", "error", err)
		return
	}
	if err := s.store.Upload(ctx, s.bucket, object, result.Data, result.ContentType); err != nil {
		s.log.Warnw("export archive upload failed", "error", err)
		return
	}
	url, err := s.store.PresignedURL(ctx, s.bucket, object, archiveURLExpiry)
	if err != nil {
		s.log.Warnw("export archive link failed", "error", err)
		return
	}
	result.ArchiveURL = url
}

func (s *ExportService) titleLines(scope models.Scope, filters models.FilterSet, storeName, stamp string) []string {
	brands := "All"
	if len(filters.Brands) > 0 {
		brands = strings.Join(filters.Brands, ", ")
	}
	search := "-"
	if term, ok := filters.ActiveSearch(); ok {
		search = term
	}
	return []string{
		fmt.Sprintf("STOCK_ZERO - %s - %s", scope.StoreCode, storeName),
		fmt.Sprintf("Route: %s  |  Stocker: %s", scope.RouteID, scope.StockerID),
		fmt.Sprintf("Data as of: %s  |  Focus: %s", stamp, filters.Focus),
		fmt.Sprintf("Brands: %s  |  Search: %s", brands, search),
	}
}

func formatOf(filename string) ExportFormat {
	if strings.HasSuffix(filename, ".pdf") {
		return FormatPDF
	}
	return FormatExcel
}
