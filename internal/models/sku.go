package models

// SkuRow is one inventory line of the per-store listing view. Flags are
// precomputed upstream; this layer never derives them.
type SkuRow struct {
	Brand        string `json:"brand"`
	Sku          string `json:"sku"`
	Description  string `json:"description"`
	Stock        int64  `json:"stock"`
	Sales7d      int64  `json:"sales_7d"`
	Negative     bool   `json:"negative"`
	StockoutRisk bool   `json:"stockout_risk"`
	Extra        string `json:"extra"`
}

// StoreKPIs is the KPI rollup shown above the listing.
type StoreKPIs struct {
	TotalSkus     int64  `json:"total_skus"`
	Negatives     int64  `json:"negatives"`
	StockoutRisks int64  `json:"stockout_risks"`
	SalesTotal7d  int64  `json:"sales_total_7d"`
	StockTotal    int64  `json:"stock_total"`
	DataDate      string `json:"data_date"`
}

type RouteStockerPair struct {
	RouteID   string `json:"route_id"`
	StockerID string `json:"stocker_id"`
}

type Store struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// StoreContext is the header line for a scope: store name plus the
// business date of the data being shown.
type StoreContext struct {
	Scope
	StoreName string `json:"store_name"`
	DataDate  string `json:"data_date"`
}
