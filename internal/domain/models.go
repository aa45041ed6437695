// backend-go/internal/domain/models.go
package domain

import "time"

// DateLayout is the wire format for snapshot dates.
const DateLayout = "2006-01-02"

// UnknownLabel fills identity fields that the source file did not provide.
const UnknownLabel = "Unknown"

// InventoryRecord is a single normalized input row together with its derived metrics.
type InventoryRecord struct {
	Item           string    `json:"item"`
	Warehouse      string    `json:"warehouse"`
	ItemFamily     string    `json:"item_family"`
	Supplier       string    `json:"supplier"`
	OnHandQuantity float64   `json:"on_hand_quantity"`
	UnitPrice      float64   `json:"unit_price"`
	Date           time.Time `json:"date"`

	// Operational columns of the supply-chain export; zero when absent.
	ProductsSold          float64 `json:"products_sold"`
	Revenue               float64 `json:"revenue"`
	DefectRate            float64 `json:"defect_rate"`
	LeadTime              float64 `json:"lead_time"`
	ManufacturingLeadTime float64 `json:"manufacturing_lead_time"`
	ManufacturingCost     float64 `json:"manufacturing_cost"`

	// SourceStatus holds an explicit "Stock Status" cell, already normalized.
	SourceStatus StockStatus `json:"-"`
	// SourceSafetyStock is set when the file carries its own safety stock column.
	SourceSafetyStock *float64 `json:"-"`

	Metrics
}

// Metrics holds the fields derived from a record; they are never read from input.
type Metrics struct {
	InventoryValue     float64     `json:"inventory_value"`
	SafetyStock        float64     `json:"safety_stock"`
	MissingStockAmount float64     `json:"missing_stock_amount"`
	ExcessStockValue   float64     `json:"excess_stock_value"`
	StockStatus        StockStatus `json:"stock_status"`
}

// Key identifies a record position for snapshot comparison.
type Key struct {
	Item      string
	Warehouse string
}

// Key returns the (item, warehouse) join key of r.
func (r *InventoryRecord) Key() Key {
	return Key{Item: r.Item, Warehouse: r.Warehouse}
}

// Warning is a non-fatal problem found while normalizing an upload.
type Warning struct {
	Code    string `json:"code"`
	Source  string `json:"source,omitempty"`
	Column  string `json:"column,omitempty"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message"`
}

const (
	WarningMissingColumn = "missing_column"
	WarningCoercion      = "coercion"
	WarningDroppedRows   = "dropped_rows"
	WarningEmptyInput    = "empty_input"
)

// UploadedFile is one file of an upload request.
type UploadedFile struct {
	Filename string
	Content  []byte
	// Date overrides the snapshot date otherwise taken from the filename.
	Date *time.Time
}

// UploadResult reports what a successful upload loaded.
type UploadResult struct {
	SessionID  string    `json:"session_id"`
	Generation uint64    `json:"generation"`
	Files      []string  `json:"files"`
	Rows       int       `json:"rows"`
	Dates      []string  `json:"dates"`
	Warnings   []Warning `json:"warnings"`
}

// UploadRunStatus is the lifecycle state of a recorded upload run.
type UploadRunStatus string

const (
	RunStatusProcessing UploadRunStatus = "processing"
	RunStatusCompleted  UploadRunStatus = "completed"
	RunStatusFailed     UploadRunStatus = "failed"
)

// UploadRun is the metadata kept about an upload; snapshot rows are never stored.
type UploadRun struct {
	ID           int64           `json:"id" db:"id"`
	SessionID    string          `json:"session_id" db:"session_id"`
	Files        []string        `json:"files" db:"files"`
	Status       UploadRunStatus `json:"status" db:"status"`
	TotalRows    int             `json:"total_rows" db:"total_rows"`
	Warnings     []string        `json:"warnings" db:"warnings"`
	StartedAt    time.Time       `json:"started_at" db:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at" db:"completed_at"`
	ErrorMessage string          `json:"error_message" db:"error_message"`
}

// CalendarDay truncates t to midnight UTC of its calendar date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
