package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
)

// Batch is the normalized, metric-enriched content of one table.
type Batch struct {
	Source   string
	Date     time.Time
	Records  []domain.InventoryRecord
	Warnings []domain.Warning
}

// Normalizer maps raw tables onto the canonical record schema and derives
// metrics for every row.
type Normalizer struct {
	calculator *InventoryCalculator
}

// NewNormalizer creates a Normalizer using the default calculator.
func NewNormalizer() *Normalizer {
	return &Normalizer{calculator: NewInventoryCalculator()}
}

// Normalize converts table into records dated snapshotDate unless a row
// carries its own parseable date. Only a missing item column is fatal; every
// other problem is reported as a warning and defaulted.
func (n *Normalizer) Normalize(table *Table, snapshotDate time.Time) (*Batch, error) {
	snapshotDate = domain.CalendarDay(snapshotDate)
	idx := resolveColumns(table.Header)

	if idx[colItem] < 0 {
		return nil, fmt.Errorf("%w: %s has no item/SKU column", domain.ErrMissingIdentityColumn, table.Source)
	}

	batch := &Batch{Source: table.Source, Date: snapshotDate}
	warn := func(code string, c column, count int, msg string) {
		batch.Warnings = append(batch.Warnings, domain.Warning{
			Code:    code,
			Source:  table.Source,
			Column:  columnNames[c],
			Count:   count,
			Message: msg,
		})
	}

	if idx[colUnitPrice] < 0 {
		warn(domain.WarningMissingColumn, colUnitPrice, 0, "price column not found; unit price defaults to 0")
	}
	if idx[colOnHand] < 0 {
		warn(domain.WarningMissingColumn, colOnHand, 0, "quantity column not found; on-hand quantity defaults to 0")
	}
	if idx[colWarehouse] < 0 {
		warn(domain.WarningMissingColumn, colWarehouse, 0, "warehouse column not found; warehouse defaults to Unknown")
	}
	if idx[colItemFamily] < 0 {
		warn(domain.WarningMissingColumn, colItemFamily, 0, "item family column not found; item family defaults to Unknown")
	}

	var coercionFailures [columnCount]int
	dropped, badDates, overflows := 0, 0, 0

	batch.Records = make([]domain.InventoryRecord, 0, len(table.Rows))
	for _, record := range table.Rows {
		get := func(c column) string {
			i := idx[c]
			if i < 0 || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		parseFloat := func(c column) float64 {
			v, ok := parseNumber(get(c))
			if !ok {
				coercionFailures[c]++
			}
			return v
		}

		item := get(colItem)
		if item == "" {
			dropped++
			continue
		}

		row := domain.InventoryRecord{
			Item:                  item,
			Warehouse:             orUnknown(get(colWarehouse)),
			ItemFamily:            orUnknown(get(colItemFamily)),
			Supplier:              orUnknown(get(colSupplier)),
			OnHandQuantity:        nonNegative(parseFloat(colOnHand)),
			UnitPrice:             nonNegative(parseFloat(colUnitPrice)),
			Date:                  snapshotDate,
			ProductsSold:          parseFloat(colProductsSold),
			Revenue:               parseFloat(colRevenue),
			DefectRate:            parseFloat(colDefectRate),
			LeadTime:              parseFloat(colLeadTime),
			ManufacturingLeadTime: parseFloat(colMfgLeadTime),
			ManufacturingCost:     parseFloat(colMfgCost),
		}

		if idx[colDate] >= 0 {
			if d, ok := parseDate(get(colDate)); ok {
				row.Date = domain.CalendarDay(d)
			} else {
				badDates++
			}
		}

		if status := get(colStatus); status != "" {
			row.SourceStatus = domain.NormalizeStatusLabel(status)
		}

		if idx[colSafetyStock] >= 0 {
			safety := nonNegative(parseFloat(colSafetyStock))
			row.SourceSafetyStock = &safety
		}

		metrics, finite := n.calculator.CalculateChecked(&row)
		if !finite {
			overflows++
		}
		row.Metrics = metrics
		batch.Records = append(batch.Records, row)
	}

	for c := column(0); c < columnCount; c++ {
		if coercionFailures[c] > 0 {
			warn(domain.WarningCoercion, c, coercionFailures[c],
				fmt.Sprintf("%d non-numeric or out-of-range %s values defaulted to 0", coercionFailures[c], columnNames[c]))
		}
	}
	if overflows > 0 {
		batch.Warnings = append(batch.Warnings, domain.Warning{
			Code:    domain.WarningCoercion,
			Source:  table.Source,
			Column:  "inventory_value",
			Count:   overflows,
			Message: fmt.Sprintf("%d rows with non-finite derived amounts defaulted to 0", overflows),
		})
	}
	if badDates > 0 {
		warn(domain.WarningCoercion, colDate, badDates,
			fmt.Sprintf("%d unparseable dates replaced by snapshot date %s", badDates, snapshotDate.Format(domain.DateLayout)))
	}
	if dropped > 0 {
		warn(domain.WarningDroppedRows, colItem, dropped, fmt.Sprintf("%d rows without an item were dropped", dropped))
	}
	if len(table.Rows) == 0 {
		batch.Warnings = append(batch.Warnings, domain.Warning{
			Code:    domain.WarningEmptyInput,
			Source:  table.Source,
			Message: "file has a header but no rows",
		})
	}

	return batch, nil
}

func orUnknown(v string) string {
	if v == "" {
		return domain.UnknownLabel
	}
	return v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
