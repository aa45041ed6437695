package analytics

import (
	"math"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/snapshot"
)

const (
	abcClassA = 80.0
	abcClassB = 95.0

	xyzClassX = 0.5
	xyzClassY = 1.0
)

// Classify assigns every item of the current filtered snapshot an ABC class
// by share of inventory value and an XYZ class by the variability of its
// on-hand quantity over all snapshot dates.
func Classify(set *snapshot.Set, filter domain.Filter) *domain.Classification {
	result := &domain.Classification{
		Items:  []domain.ItemClass{},
		Matrix: make(map[string]int),
	}
	for _, abc := range []string{"A", "B", "C"} {
		for _, xyz := range []string{"X", "Y", "Z"} {
			result.Matrix[abc+xyz] = 0
		}
	}

	items, total := valueByItem(filter.Apply(set.Current()))
	if len(items) == 0 {
		return result
	}

	series := quantitySeries(set, filter)

	var cumulative float64
	for _, iv := range items {
		before := percent(cumulative, total)
		cumulative = clampFinite(cumulative + iv.value)

		mean, cv := variation(series[iv.item])
		class := domain.ItemClass{
			Item:                   iv.item,
			InventoryValue:         iv.value,
			CumulativePct:          percent(cumulative, total),
			ABC:                    abcClass(before, total),
			XYZ:                    xyzClass(mean, cv, len(series[iv.item])),
			MeanQuantity:           mean,
			CoefficientOfVariation: cv,
		}
		result.Items = append(result.Items, class)
		result.Matrix[class.ABC+class.XYZ]++
	}
	return result
}

// quantitySeries returns, per item, its total on-hand quantity on each date
// where it appears, oldest first.
func quantitySeries(set *snapshot.Set, filter domain.Filter) map[string][]float64 {
	out := make(map[string][]float64)
	for _, d := range set.Dates() {
		perItem := make(map[string]float64)
		var order []string
		for _, r := range filter.Apply(set.On(d)) {
			if _, ok := perItem[r.Item]; !ok {
				order = append(order, r.Item)
			}
			perItem[r.Item] += r.OnHandQuantity
		}
		for _, item := range order {
			out[item] = append(out[item], perItem[item])
		}
	}
	return out
}

// variation returns the mean and the population coefficient of variation.
func variation(values []float64) (mean, cv float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if mean == 0 {
		return 0, 0
	}

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq/float64(len(values))) / mean
}

// abcClass uses the cumulative share before the item is added, so the item
// that crosses a threshold still belongs to the higher class. Without any
// inventory value there is nothing to concentrate and every item is C.
func abcClass(cumulativeBefore, total float64) string {
	switch {
	case total <= 0:
		return "C"
	case cumulativeBefore < abcClassA:
		return "A"
	case cumulativeBefore < abcClassB:
		return "B"
	default:
		return "C"
	}
}

func xyzClass(mean, cv float64, observations int) string {
	if mean <= 0 {
		return "Z"
	}
	if observations < 2 {
		return "X"
	}
	switch {
	case cv <= xyzClassX:
		return "X"
	case cv <= xyzClassY:
		return "Y"
	default:
		return "Z"
	}
}
