package analytics

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/snapshot"
)

// ItemDetail builds the deep-dive view of item. The item must appear in at
// least one snapshot after filtering.
func ItemDetail(set *snapshot.Set, item string, filter domain.Filter) (*domain.ItemDetail, error) {
	item = strings.TrimSpace(item)

	detail := &domain.ItemDetail{
		Item:      item,
		Series:    []domain.ItemPoint{},
		Positions: []domain.InventoryRecord{},
	}

	found := false
	for _, d := range set.Dates() {
		var qty float64
		var value money
		seen := false
		for _, r := range filter.Apply(set.On(d)) {
			if r.Item != item {
				continue
			}
			seen = true
			qty += r.OnHandQuantity
			value.add(r.InventoryValue)
			if detail.ItemFamily == "" {
				detail.ItemFamily = r.ItemFamily
			}
		}
		if seen {
			found = true
			detail.Series = append(detail.Series, domain.ItemPoint{
				Date:           d.Format(domain.DateLayout),
				Quantity:       qty,
				InventoryValue: value.float(),
			})
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, item)
	}

	var statuses []domain.StockStatus
	for _, r := range filter.Apply(set.Current()) {
		if r.Item == item {
			detail.Positions = append(detail.Positions, r)
			statuses = append(statuses, r.StockStatus)
		}
	}
	detail.DominantStatus = dominantStatus(statuses)

	for _, c := range Classify(set, filter).Items {
		if c.Item == item {
			class := c
			detail.Class = &class
			break
		}
	}

	return detail, nil
}

// dominantStatus returns the most frequent status. On a count tie the status
// seen first wins. An empty input yields "".
func dominantStatus(statuses []domain.StockStatus) domain.StockStatus {
	counts := make(map[domain.StockStatus]int)
	var best domain.StockStatus
	bestCount := 0
	for _, s := range statuses {
		counts[s]++
	}
	for _, s := range statuses {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}
