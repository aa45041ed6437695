package analytics

import (
	"sort"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
)

// statusBreakdown counts records per status. Canonical statuses come first in
// display order, literal source statuses follow in order of first appearance.
func statusBreakdown(records []domain.InventoryRecord) []domain.StatusCount {
	counts := make(map[domain.StockStatus]int)
	var order []domain.StockStatus
	for i := range records {
		s := records[i].StockStatus
		if _, seen := counts[s]; !seen {
			order = append(order, s)
		}
		counts[s]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Rank() < order[j].Rank()
	})

	total := float64(len(records))
	out := make([]domain.StatusCount, 0, len(order))
	for _, s := range order {
		out = append(out, domain.StatusCount{
			Status:  s,
			Count:   counts[s],
			Percent: percent(float64(counts[s]), total),
			Color:   s.Color(),
		})
	}
	return out
}

func countStatus(records []domain.InventoryRecord, status domain.StockStatus) int {
	n := 0
	for i := range records {
		if records[i].StockStatus == status {
			n++
		}
	}
	return n
}
