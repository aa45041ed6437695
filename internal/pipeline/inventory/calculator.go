package inventory

import (
	"math"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
)

const (
	// SafetyStockRatio is the share of on-hand quantity held as safety stock
	// when the file does not carry its own safety stock column.
	SafetyStockRatio = 0.2
	// ExcessMultiplier scales safety stock into the over-stock threshold.
	ExcessMultiplier = 1.5
)

// InventoryCalculator derives stock metrics for normalized records. The policy
// constants are fixed; the fields exist so a future config can tune them.
type InventoryCalculator struct {
	safetyRatio      float64
	excessMultiplier float64
}

// NewInventoryCalculator creates a calculator using the fixed policy constants.
func NewInventoryCalculator() *InventoryCalculator {
	return &InventoryCalculator{
		safetyRatio:      SafetyStockRatio,
		excessMultiplier: ExcessMultiplier,
	}
}

// Calculate computes all derived fields of rec. It does not modify rec.
func (ic *InventoryCalculator) Calculate(rec *domain.InventoryRecord) domain.Metrics {
	metrics, _ := ic.CalculateChecked(rec)
	return metrics
}

// CalculateChecked is Calculate that also reports whether a derived amount
// was not finite. Such amounts are zeroed; the status is kept.
func (ic *InventoryCalculator) CalculateChecked(rec *domain.InventoryRecord) (domain.Metrics, bool) {
	metrics := domain.Metrics{}
	onHand := rec.OnHandQuantity
	price := rec.UnitPrice

	// 1. Inventory value = unit price × on-hand
	metrics.InventoryValue = price * onHand

	// 2. Safety stock, from the source column when present
	if rec.SourceSafetyStock != nil {
		metrics.SafetyStock = math.Max(0, *rec.SourceSafetyStock)
	} else {
		metrics.SafetyStock = math.Max(0, onHand*ic.safetyRatio)
	}

	// 3. Missing stock amount = shortfall below safety stock, valued at unit price
	metrics.MissingStockAmount = math.Max(0, metrics.SafetyStock-onHand) * price

	// 4. Excess stock value = quantity above 1.5× safety stock, valued at unit price
	metrics.ExcessStockValue = math.Max(0, onHand-ic.excessMultiplier*metrics.SafetyStock) * price

	// 5. Status: an explicit source label wins over the threshold rule
	if rec.SourceStatus != "" {
		metrics.StockStatus = rec.SourceStatus
	} else {
		metrics.StockStatus = Classify(onHand, metrics.SafetyStock, metrics.ExcessStockValue)
	}

	finite := true
	for _, v := range []*float64{
		&metrics.InventoryValue,
		&metrics.SafetyStock,
		&metrics.MissingStockAmount,
		&metrics.ExcessStockValue,
	} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
			finite = false
		}
	}

	return metrics, finite
}

// Classify applies the threshold rule in fixed order so exactly one status holds.
// On-hand between safety stock and the excess threshold is AT-STOCK.
func Classify(onHand, safetyStock, excessValue float64) domain.StockStatus {
	switch {
	case onHand <= 0:
		return domain.StatusStockOut
	case onHand < safetyStock:
		return domain.StatusBelowSafetyStock
	case excessValue > 0:
		return domain.StatusOverStock
	default:
		return domain.StatusAtStock
	}
}
