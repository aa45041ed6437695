package analytics

import (
	"sort"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/snapshot"
)

const (
	DefaultTopExcess  = 6
	DefaultTopMissing = 5
	DefaultParetoSize = 7
)

// Aggregator builds every dashboard table from a snapshot set.
type Aggregator struct {
	topExcess  int
	topMissing int
	paretoSize int
}

// NewAggregator creates an Aggregator with the default ranking sizes.
func NewAggregator() *Aggregator {
	return &Aggregator{
		topExcess:  DefaultTopExcess,
		topMissing: DefaultTopMissing,
		paretoSize: DefaultParetoSize,
	}
}

// Summarize aggregates the current snapshot of set, plus the series spanning
// all dates, after applying filter. A nil or empty set, or a filter that
// removes every current row, yields a summary with Empty set; never an error.
func (a *Aggregator) Summarize(set *snapshot.Set, filter domain.Filter) *domain.AggregateSummary {
	summary := &domain.AggregateSummary{
		Dates:           set.DateStrings(),
		Filter:          filter,
		StatusBreakdown: []domain.StatusCount{},
		Monthly:         []domain.MonthlyPoint{},
		Warehouses:      []domain.WarehouseRollup{},
		TopExcess:       []domain.RankedItem{},
		TopMissing:      []domain.RankedItem{},
		ExcessItems:     []domain.RankedItem{},
		MissingItems:    []domain.RankedItem{},
		Families:        []domain.FamilyRollup{},
		Pareto:          []domain.ParetoItem{},
		History:         []domain.StatusHistory{},
	}

	if date, ok := set.CurrentDate(); ok {
		summary.CurrentDate = date.Format(domain.DateLayout)
	}

	current := filter.Apply(set.Current())
	summary.Empty = len(current) == 0

	summary.KPIs = computeKPIs(current)
	summary.Operations = computeOperations(current)
	summary.StatusBreakdown = statusBreakdown(current)
	summary.Monthly = monthlyEvolution(filter.Apply(set.All()))
	summary.Warehouses = warehouseRollup(current)
	summary.TopExcess = topN(current, a.topExcess, excessOf, false)
	summary.TopMissing = topN(current, a.topMissing, missingOf, true)
	summary.ExcessItems = statusList(current, func(s domain.StockStatus) bool { return s == domain.StatusOverStock }, excessOf)
	summary.MissingItems = statusList(current, domain.StockStatus.IsMissing, missingOf)
	summary.Families = familyRollup(current)
	summary.Pareto = pareto(current, a.paretoSize)
	summary.History = statusHistory(set, filter)

	return summary
}

func computeKPIs(records []domain.InventoryRecord) domain.KPIs {
	var value, missing, excess money
	items := make(map[string]struct{})
	for i := range records {
		r := &records[i]
		value.add(r.InventoryValue)
		missing.add(r.MissingStockAmount)
		excess.add(r.ExcessStockValue)
		items[r.Item] = struct{}{}
	}

	total := float64(len(records))
	return domain.KPIs{
		TotalInventoryValue: value.float(),
		TotalMissingStock:   missing.float(),
		TotalExcessStock:    excess.float(),
		Records:             len(records),
		DistinctItems:       len(items),
		BelowSafetyPct:      percent(float64(countStatus(records, domain.StatusBelowSafetyStock)), total),
		StockOutPct:         percent(float64(countStatus(records, domain.StatusStockOut)), total),
	}
}

func computeOperations(records []domain.InventoryRecord) domain.OperationalKPIs {
	if len(records) == 0 {
		return domain.OperationalKPIs{}
	}

	var sold, revenue money
	var defect, lead float64
	for i := range records {
		r := &records[i]
		sold.add(r.ProductsSold)
		revenue.add(r.Revenue)
		defect += r.DefectRate
		lead += r.LeadTime
	}

	n := float64(len(records))
	return domain.OperationalKPIs{
		TotalProductsSold: sold.float(),
		TotalRevenue:      revenue.float(),
		AvgDefectRate:     clampFinite(defect / n),
		AvgLeadTime:       clampFinite(lead / n),
	}
}

func monthlyEvolution(records []domain.InventoryRecord) []domain.MonthlyPoint {
	type bucket struct {
		value money
		items map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	var months []string
	for i := range records {
		r := &records[i]
		month := r.Date.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &bucket{items: make(map[string]struct{})}
			buckets[month] = b
			months = append(months, month)
		}
		b.value.add(r.InventoryValue)
		b.items[r.Item] = struct{}{}
	}

	sort.Strings(months)
	out := make([]domain.MonthlyPoint, 0, len(months))
	for _, m := range months {
		out = append(out, domain.MonthlyPoint{
			Month:          m,
			InventoryValue: buckets[m].value.float(),
			DistinctItems:  len(buckets[m].items),
		})
	}
	return out
}

func warehouseRollup(records []domain.InventoryRecord) []domain.WarehouseRollup {
	type acc struct {
		value, excess, missing money
		rows                   []domain.InventoryRecord
	}
	accs := make(map[string]*acc)
	var order []string
	for i := range records {
		r := &records[i]
		a, ok := accs[r.Warehouse]
		if !ok {
			a = &acc{}
			accs[r.Warehouse] = a
			order = append(order, r.Warehouse)
		}
		a.value.add(r.InventoryValue)
		a.excess.add(r.ExcessStockValue)
		a.missing.add(r.MissingStockAmount)
		a.rows = append(a.rows, *r)
	}

	out := make([]domain.WarehouseRollup, 0, len(order))
	for _, w := range order {
		a := accs[w]
		out = append(out, domain.WarehouseRollup{
			Warehouse:          w,
			InventoryValue:     a.value.float(),
			ExcessStockValue:   a.excess.float(),
			MissingStockAmount: a.missing.float(),
			Positions:          len(a.rows),
			Statuses:           statusBreakdown(a.rows),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InventoryValue > out[j].InventoryValue
	})
	return out
}

func excessOf(r *domain.InventoryRecord) float64  { return r.ExcessStockValue }
func missingOf(r *domain.InventoryRecord) float64 { return r.MissingStockAmount }

func rank(r *domain.InventoryRecord, metric func(*domain.InventoryRecord) float64) domain.RankedItem {
	return domain.RankedItem{
		Item:       r.Item,
		Warehouse:  r.Warehouse,
		ItemFamily: r.ItemFamily,
		Status:     r.StockStatus,
		Quantity:   r.OnHandQuantity,
		Value:      metric(r),
	}
}

// topN ranks records by metric descending. Ties keep input order. With
// positiveOnly, records whose metric is not above zero are left out.
func topN(records []domain.InventoryRecord, n int, metric func(*domain.InventoryRecord) float64, positiveOnly bool) []domain.RankedItem {
	ranked := make([]domain.RankedItem, 0, len(records))
	for i := range records {
		if positiveOnly && metric(&records[i]) <= 0 {
			continue
		}
		ranked = append(ranked, rank(&records[i], metric))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func statusList(records []domain.InventoryRecord, keep func(domain.StockStatus) bool, metric func(*domain.InventoryRecord) float64) []domain.RankedItem {
	out := []domain.RankedItem{}
	for i := range records {
		if keep(records[i].StockStatus) {
			out = append(out, rank(&records[i], metric))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}

func familyRollup(records []domain.InventoryRecord) []domain.FamilyRollup {
	sums := make(map[string]*money)
	var order []string
	var total money
	for i := range records {
		r := &records[i]
		m, ok := sums[r.ItemFamily]
		if !ok {
			m = &money{}
			sums[r.ItemFamily] = m
			order = append(order, r.ItemFamily)
		}
		m.add(r.InventoryValue)
		total.add(r.InventoryValue)
	}

	grand := total.float()
	out := make([]domain.FamilyRollup, 0, len(order))
	for _, f := range order {
		v := sums[f].float()
		out = append(out, domain.FamilyRollup{
			ItemFamily:     f,
			InventoryValue: v,
			SharePct:       percent(v, grand),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InventoryValue > out[j].InventoryValue
	})
	return out
}

// itemValue is the inventory value of one item summed over its warehouses.
type itemValue struct {
	item  string
	value float64
}

// valueByItem sums inventory value per item, sorted descending with ties in
// order of first appearance. It also returns the grand total.
func valueByItem(records []domain.InventoryRecord) ([]itemValue, float64) {
	sums := make(map[string]*money)
	var order []string
	var total money
	for i := range records {
		r := &records[i]
		m, ok := sums[r.Item]
		if !ok {
			m = &money{}
			sums[r.Item] = m
			order = append(order, r.Item)
		}
		m.add(r.InventoryValue)
		total.add(r.InventoryValue)
	}

	out := make([]itemValue, len(order))
	for i, item := range order {
		out[i] = itemValue{item: item, value: sums[item].float()}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].value > out[j].value
	})
	return out, total.float()
}

func pareto(records []domain.InventoryRecord, n int) []domain.ParetoItem {
	items, total := valueByItem(records)
	if len(items) > n {
		items = items[:n]
	}

	out := make([]domain.ParetoItem, 0, len(items))
	var cumulative float64
	for _, iv := range items {
		cumulative = clampFinite(cumulative + iv.value)
		out = append(out, domain.ParetoItem{
			Item:           iv.item,
			InventoryValue: iv.value,
			SharePct:       percent(iv.value, total),
			CumulativePct:  percent(cumulative, total),
		})
	}
	return out
}

func statusHistory(set *snapshot.Set, filter domain.Filter) []domain.StatusHistory {
	dates := set.Dates()
	out := make([]domain.StatusHistory, 0, len(dates))
	for _, d := range dates {
		records := filter.Apply(set.On(d))
		out = append(out, domain.StatusHistory{
			Date:     d.Format(domain.DateLayout),
			Records:  len(records),
			Statuses: statusBreakdown(records),
		})
	}
	return out
}
