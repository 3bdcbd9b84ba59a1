package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockzero/internal/models"
	"stockzero/internal/query"
)

var repoScope = models.Scope{RouteID: "R01", StockerID: "S07", StoreCode: "C123"}

type fetchCall struct {
	sql  string
	args []any
}

// fakeFetcher scripts responses in call order and records every statement.
type fakeFetcher struct {
	responses []*models.RowSet
	err       error
	calls     []fetchCall
}

func (f *fakeFetcher) QDF(_ context.Context, sql string, args ...any) (*models.RowSet, error) {
	f.calls = append(f.calls, fetchCall{sql: sql, args: args})
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &models.RowSet{}, nil
	}
	rs := f.responses[0]
	f.responses = f.responses[1:]
	return rs, nil
}

func pageRowSet(total int, rows ...[]any) *models.RowSet {
	cols := append(append([]string{}, query.ListingColumns...), query.TotalColumn)
	rs := &models.RowSet{Columns: cols}
	for _, r := range rows {
		rs.Rows = append(rs.Rows, append(r, total))
	}
	return rs
}

func TestListingPageMapsRows(t *testing.T) {
	fetcher := &fakeFetcher{responses: []*models.RowSet{pageRowSet(57,
		[]any{"ACME", "1002", "COLA 600ML", int64(-3), int64(12), true, false, ""},
		[]any{"GLOBEX", "X-55", "SNACK MIX", int64(4), int64(9), false, true, "promo"},
	)}}
	repo := NewListingRepo(fetcher)

	rows, total, err := repo.Page(context.Background(), repoScope, models.FilterSet{}, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, 57, total)
	require.Len(t, rows, 2)

	assert.Equal(t, models.SkuRow{
		Brand: "ACME", Sku: "1002", Description: "COLA 600ML",
		Stock: -3, Sales7d: 12, Negative: true,
	}, rows[0])
	assert.Equal(t, "promo", rows[1].Extra)
	assert.True(t, rows[1].StockoutRisk)

	require.Len(t, fetcher.calls, 1)
	assert.Contains(t, fetcher.calls[0].sql, "COUNT(*) OVER ()")
}

func TestListingPageCoercesCachedValues(t *testing.T) {
	// A row set that went through the cache comes back with JSON types:
	// numbers as float64, dates as strings.
	fetcher := &fakeFetcher{responses: []*models.RowSet{pageRowSet(1,
		[]any{"ACME", "1002", "COLA 600ML", float64(-3), float64(12), true, false, nil},
	)}}
	repo := NewListingRepo(fetcher)

	rows, total, err := repo.Page(context.Background(), repoScope, models.FilterSet{}, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(-3), rows[0].Stock)
	assert.Equal(t, int64(12), rows[0].Sales7d)
	assert.Equal(t, "", rows[0].Extra)
}

func TestListingPageEmptyFirstPage(t *testing.T) {
	fetcher := &fakeFetcher{}
	repo := NewListingRepo(fetcher)

	rows, total, err := repo.Page(context.Background(), repoScope, models.FilterSet{}, 0, 50)
	require.NoError(t, err)
	assert.Nil(t, rows)
	assert.Zero(t, total)
	assert.Len(t, fetcher.calls, 1, "an empty first page needs no separate count")
}

func TestListingPageBeyondLastPage(t *testing.T) {
	fetcher := &fakeFetcher{responses: []*models.RowSet{
		{Columns: append(append([]string{}, query.ListingColumns...), query.TotalColumn)},
		{Columns: []string{"count"}, Rows: [][]any{{int64(57)}}},
	}}
	repo := NewListingRepo(fetcher)

	rows, total, err := repo.Page(context.Background(), repoScope, models.FilterSet{}, 9, 50)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 57, total, "total must stay correct past the last page")

	require.Len(t, fetcher.calls, 2)
	assert.True(t, strings.HasPrefix(fetcher.calls[1].sql, "SELECT COUNT(*)"))
}

func TestListingPagePropagatesErrors(t *testing.T) {
	queryErr := errors.New("connection reset")
	repo := NewListingRepo(&fakeFetcher{err: queryErr})

	_, _, err := repo.Page(context.Background(), repoScope, models.FilterSet{}, 0, 50)
	assert.ErrorIs(t, err, queryErr)

	_, _, err = repo.Page(context.Background(), models.Scope{}, models.FilterSet{}, 0, 50)
	assert.ErrorIs(t, err, models.ErrIncompleteScope)
}

func TestExportRows(t *testing.T) {
	cols := append([]string{}, query.ListingColumns...)
	fetcher := &fakeFetcher{responses: []*models.RowSet{{
		Columns: cols,
		Rows: [][]any{
			{"ACME", "1002", "COLA 600ML", int64(-3), int64(12), true, false, ""},
		},
	}}}
	repo := NewListingRepo(fetcher)

	rows, err := repo.ExportRows(context.Background(), repoScope, models.FilterSet{Focus: models.FocusNegatives})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1002", rows[0].Sku)

	require.Len(t, fetcher.calls, 1)
	assert.NotContains(t, fetcher.calls[0].sql, "LIMIT")
	assert.NotContains(t, fetcher.calls[0].sql, "total_rows")
}

func TestScanCoercions(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-27", asString(day))
	assert.Equal(t, "", asString(nil))
	assert.Equal(t, "7", asString(int64(7)))

	assert.Equal(t, int64(5), asInt64(int64(5)))
	assert.Equal(t, int64(5), asInt64(int32(5)))
	assert.Equal(t, int64(5), asInt64(5))
	assert.Equal(t, int64(5), asInt64(float64(5.4)))
	assert.Equal(t, int64(0), asInt64(nil))

	assert.True(t, asBool(true))
	assert.True(t, asBool("t"))
	assert.True(t, asBool("YES"))
	assert.False(t, asBool("no"))
	assert.False(t, asBool(nil))
}
