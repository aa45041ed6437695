package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// money accumulates currency amounts without float drift. Non-finite
// amounts are skipped.
type money struct {
	sum decimal.Decimal
}

func (m *money) add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	m.sum = m.sum.Add(decimal.NewFromFloat(v))
}

// float converts the sum back, saturating at the float64 range so the
// result always encodes as JSON.
func (m money) float() float64 {
	f, _ := m.sum.Float64()
	return clampFinite(f)
}

func clampFinite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

// percent returns part/total*100, or 0 when total is 0.
func percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	p := part / total * 100
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
