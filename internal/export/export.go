// Package export renders the full-fetch result of the current filtered view
// into spreadsheet and document form. Column order is fixed; anything beyond
// that is presentation detail with no stability guarantee.
package export

import (
	"strconv"

	"stockzero/internal/models"
)

// Columns is the fixed ordered column set handed to every renderer.
var Columns = []string{
	"Brand",
	"SKU",
	"Description",
	"Stock",
	"Sales(7d)",
	"Negative",
	"Stockout Risk",
	"Notes",
}

func flag(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func cells(row models.SkuRow) []string {
	return []string{
		row.Brand,
		row.Sku,
		row.Description,
		strconv.FormatInt(row.Stock, 10),
		strconv.FormatInt(row.Sales7d, 10),
		flag(row.Negative),
		flag(row.StockoutRisk),
		row.Extra,
	}
}
