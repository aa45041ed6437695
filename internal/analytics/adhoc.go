package analytics

import (
	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/snapshot"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Adhoc returns the manufacturing lead time versus cost scatter of the
// current filtered snapshot, colored by defect rate and sized by revenue.
func Adhoc(set *snapshot.Set, filter domain.Filter) []domain.AdhocPoint {
	current := filter.Apply(set.Current())
	out := make([]domain.AdhocPoint, 0, len(current))
	for i := range current {
		r := &current[i]
		out = append(out, domain.AdhocPoint{
			Item:       r.Item,
			ItemFamily: r.ItemFamily,
			X:          r.ManufacturingLeadTime,
			Y:          r.ManufacturingCost,
			Color:      r.DefectRate,
			Size:       r.Revenue,
		})
	}
	return out
}

// Rows pages the current filtered snapshot in file order. page is 1-based;
// out-of-range values are clamped.
func Rows(set *snapshot.Set, filter domain.Filter, page, pageSize int) *domain.RowsPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	current := filter.Apply(set.Current())
	total := len(current)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	rows := make([]domain.InventoryRecord, end-start)
	copy(rows, current[start:end])

	return &domain.RowsPage{
		Rows:       rows,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
