package analytics

import (
	"math"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/andresuchdata/scmdash/backend-go/internal/pipeline/inventory"
	"github.com/andresuchdata/scmdash/backend-go/internal/snapshot"
)

var (
	day1 = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	day3 = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
)

var calc = inventory.NewInventoryCalculator()

// rec builds a derived record; family and supplier default to "F" and "S".
func rec(date time.Time, item, warehouse string, price, qty float64) domain.InventoryRecord {
	r := domain.InventoryRecord{
		Item:           item,
		Warehouse:      warehouse,
		ItemFamily:     "F",
		Supplier:       "S",
		UnitPrice:      price,
		OnHandQuantity: qty,
		Date:           date,
	}
	r.Metrics = calc.Calculate(&r)
	return r
}

func withSafety(r domain.InventoryRecord, safety float64) domain.InventoryRecord {
	r.SourceSafetyStock = &safety
	r.Metrics = calc.Calculate(&r)
	return r
}

func withFamily(r domain.InventoryRecord, family string) domain.InventoryRecord {
	r.ItemFamily = family
	return r
}

func setOf(records ...domain.InventoryRecord) *snapshot.Set {
	return snapshot.NewSet(records)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
