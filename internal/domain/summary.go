package domain

// KPIs are the headline totals of the current snapshot.
type KPIs struct {
	TotalInventoryValue float64 `json:"total_inventory_value"`
	TotalMissingStock   float64 `json:"total_missing_stock"`
	TotalExcessStock    float64 `json:"total_excess_stock"`
	Records             int     `json:"records"`
	DistinctItems       int     `json:"distinct_items"`
	BelowSafetyPct      float64 `json:"below_safety_pct"`
	StockOutPct         float64 `json:"stock_out_pct"`
}

// OperationalKPIs summarize the sales and manufacturing columns of the export.
type OperationalKPIs struct {
	TotalProductsSold float64 `json:"total_products_sold"`
	TotalRevenue      float64 `json:"total_revenue"`
	AvgDefectRate     float64 `json:"avg_defect_rate"`
	AvgLeadTime       float64 `json:"avg_lead_time"`
}

// StatusCount is one slice of a status breakdown.
type StatusCount struct {
	Status  StockStatus `json:"status"`
	Count   int         `json:"count"`
	Percent float64     `json:"percent"`
	Color   string      `json:"color"`
}

// MonthlyPoint is one month of the inventory evolution series.
type MonthlyPoint struct {
	Month          string  `json:"month"`
	InventoryValue float64 `json:"inventory_value"`
	DistinctItems  int     `json:"distinct_items"`
}

// WarehouseRollup aggregates the current snapshot for one warehouse.
type WarehouseRollup struct {
	Warehouse          string        `json:"warehouse"`
	InventoryValue     float64       `json:"inventory_value"`
	ExcessStockValue   float64       `json:"excess_stock_value"`
	MissingStockAmount float64       `json:"missing_stock_amount"`
	Positions          int           `json:"positions"`
	Statuses           []StatusCount `json:"statuses"`
}

// RankedItem is a record position in a top-N ranking.
type RankedItem struct {
	Item       string      `json:"item"`
	Warehouse  string      `json:"warehouse"`
	ItemFamily string      `json:"item_family"`
	Status     StockStatus `json:"status"`
	Quantity   float64     `json:"quantity"`
	Value      float64     `json:"value"`
}

// FamilyRollup is the inventory value of one item family and its share of the total.
type FamilyRollup struct {
	ItemFamily     string  `json:"item_family"`
	InventoryValue float64 `json:"inventory_value"`
	SharePct       float64 `json:"share_pct"`
}

// ParetoItem is one item of the value Pareto ranking.
type ParetoItem struct {
	Item           string  `json:"item"`
	InventoryValue float64 `json:"inventory_value"`
	SharePct       float64 `json:"share_pct"`
	CumulativePct  float64 `json:"cumulative_pct"`
}

// StatusHistory is the status breakdown of one snapshot date.
type StatusHistory struct {
	Date     string        `json:"date"`
	Records  int           `json:"records"`
	Statuses []StatusCount `json:"statuses"`
}

// AggregateSummary is every dashboard table derived from a snapshot set.
// Empty is set when nothing is loaded or the filter removed every row.
type AggregateSummary struct {
	Empty           bool              `json:"empty"`
	CurrentDate     string            `json:"current_date,omitempty"`
	Dates           []string          `json:"dates"`
	Filter          Filter            `json:"filter"`
	KPIs            KPIs              `json:"kpis"`
	Operations      OperationalKPIs   `json:"operations"`
	StatusBreakdown []StatusCount     `json:"status_breakdown"`
	Monthly         []MonthlyPoint    `json:"monthly"`
	Warehouses      []WarehouseRollup `json:"warehouses"`
	TopExcess       []RankedItem      `json:"top_excess"`
	TopMissing      []RankedItem      `json:"top_missing"`
	ExcessItems     []RankedItem      `json:"excess_items"`
	MissingItems    []RankedItem      `json:"missing_items"`
	Families        []FamilyRollup    `json:"families"`
	Pareto          []ParetoItem      `json:"pareto"`
	History         []StatusHistory   `json:"history"`
}

// ComparisonRow is the delta of one (item, warehouse) position between two dates.
type ComparisonRow struct {
	Item           string  `json:"item"`
	Warehouse      string  `json:"warehouse"`
	QuantityFrom   float64 `json:"quantity_from"`
	QuantityTo     float64 `json:"quantity_to"`
	QuantityChange float64 `json:"quantity_change"`
	ValueChange    float64 `json:"value_change"`
}

// Comparison is the outer-joined delta table between two snapshot dates.
type Comparison struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rows []ComparisonRow `json:"rows"`
}

// ItemClass is the ABC/XYZ coverage class of one item.
type ItemClass struct {
	Item                   string  `json:"item"`
	InventoryValue         float64 `json:"inventory_value"`
	CumulativePct          float64 `json:"cumulative_pct"`
	ABC                    string  `json:"abc"`
	XYZ                    string  `json:"xyz"`
	MeanQuantity           float64 `json:"mean_quantity"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
}

// Classification is the ABC/XYZ report with its class count matrix, e.g. "AX" => 3.
type Classification struct {
	Items  []ItemClass    `json:"items"`
	Matrix map[string]int `json:"matrix"`
}

// ItemPoint is one date of an item's quantity history.
type ItemPoint struct {
	Date           string  `json:"date"`
	Quantity       float64 `json:"quantity"`
	InventoryValue float64 `json:"inventory_value"`
}

// ItemDetail is the deep-dive view of a single item.
type ItemDetail struct {
	Item           string            `json:"item"`
	ItemFamily     string            `json:"item_family"`
	DominantStatus StockStatus       `json:"dominant_status"`
	Class          *ItemClass        `json:"class,omitempty"`
	Series         []ItemPoint       `json:"series"`
	Positions      []InventoryRecord `json:"positions"`
}

// AdhocPoint is one marker of the lead-time versus manufacturing-cost scatter.
type AdhocPoint struct {
	Item       string  `json:"item"`
	ItemFamily string  `json:"item_family"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Color      float64 `json:"color"`
	Size       float64 `json:"size"`
}

// RowsPage is a page of normalized rows of the current snapshot.
type RowsPage struct {
	Rows       []InventoryRecord `json:"rows"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
