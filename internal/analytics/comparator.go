package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/snapshot"
)

type position struct {
	quantity float64
	value    money
}

// Compare outer-joins the snapshots of from and to on (item, warehouse).
// A side without the position contributes zero; duplicate positions within a
// date are summed. Rows are sorted by item, then warehouse.
func Compare(set *snapshot.Set, from, to time.Time, filter domain.Filter) (*domain.Comparison, error) {
	from, to = domain.CalendarDay(from), domain.CalendarDay(to)
	if from.Equal(to) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSameDate, from.Format(domain.DateLayout))
	}
	for _, d := range []time.Time{from, to} {
		if !set.Has(d) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDate, d.Format(domain.DateLayout))
		}
	}

	before := positions(filter.Apply(set.On(from)))
	after := positions(filter.Apply(set.On(to)))

	keys := make([]domain.Key, 0, len(before)+len(after))
	for k := range before {
		keys = append(keys, k)
	}
	for k := range after {
		if _, ok := before[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Item != keys[j].Item {
			return keys[i].Item < keys[j].Item
		}
		return keys[i].Warehouse < keys[j].Warehouse
	})

	rows := make([]domain.ComparisonRow, 0, len(keys))
	for _, k := range keys {
		var q1, q2 float64
		var v1, v2 money
		if p, ok := before[k]; ok {
			q1, v1 = p.quantity, p.value
		}
		if p, ok := after[k]; ok {
			q2, v2 = p.quantity, p.value
		}
		rows = append(rows, domain.ComparisonRow{
			Item:           k.Item,
			Warehouse:      k.Warehouse,
			QuantityFrom:   q1,
			QuantityTo:     q2,
			QuantityChange: clampFinite(q2 - q1),
			ValueChange:    money{sum: v2.sum.Sub(v1.sum)}.float(),
		})
	}

	return &domain.Comparison{
		From: from.Format(domain.DateLayout),
		To:   to.Format(domain.DateLayout),
		Rows: rows,
	}, nil
}

func positions(records []domain.InventoryRecord) map[domain.Key]*position {
	out := make(map[domain.Key]*position, len(records))
	for i := range records {
		k := records[i].Key()
		p, ok := out[k]
		if !ok {
			p = &position{}
			out[k] = p
		}
		p.quantity += records[i].OnHandQuantity
		p.value.add(records[i].InventoryValue)
	}
	return out
}
