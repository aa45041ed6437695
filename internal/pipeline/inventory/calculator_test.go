package inventory

import (
	"math"
	"testing"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func floatPtr(v float64) *float64 { return &v }

func TestInventoryCalculator_Calculate(t *testing.T) {
	calc := NewInventoryCalculator()

	testCases := []struct {
		name        string
		record      domain.InventoryRecord
		wantValue   float64
		wantSafety  float64
		wantMissing float64
		wantExcess  float64
		wantStatus  domain.StockStatus
	}{
		{
			name:       "zero quantity is a stock-out",
			record:     domain.InventoryRecord{UnitPrice: 10, OnHandQuantity: 0},
			wantStatus: domain.StatusStockOut,
		},
		{
			name:       "quantity above excess threshold is over-stock",
			record:     domain.InventoryRecord{UnitPrice: 5, OnHandQuantity: 100},
			wantValue:  500,
			wantSafety: 20,
			wantExcess: 350,
			wantStatus: domain.StatusOverStock,
		},
		{
			name:        "explicit safety stock above on-hand is below safety",
			record:      domain.InventoryRecord{UnitPrice: 5, OnHandQuantity: 15, SourceSafetyStock: floatPtr(20)},
			wantValue:   75,
			wantSafety:  20,
			wantMissing: 25,
			wantStatus:  domain.StatusBelowSafetyStock,
		},
		{
			name:       "between safety and excess threshold is at-stock",
			record:     domain.InventoryRecord{UnitPrice: 2, OnHandQuantity: 25, SourceSafetyStock: floatPtr(20)},
			wantValue:  50,
			wantSafety: 20,
			wantStatus: domain.StatusAtStock,
		},
		{
			name:       "positive stock without price has no excess value",
			record:     domain.InventoryRecord{UnitPrice: 0, OnHandQuantity: 40},
			wantSafety: 8,
			wantStatus: domain.StatusAtStock,
		},
		{
			name:       "source status overrides the threshold rule",
			record:     domain.InventoryRecord{UnitPrice: 5, OnHandQuantity: 100, SourceStatus: "DISCONTINUED"},
			wantValue:  500,
			wantSafety: 20,
			wantExcess: 350,
			wantStatus: "DISCONTINUED",
		},
		{
			name:       "negative explicit safety stock clamps to zero",
			record:     domain.InventoryRecord{UnitPrice: 1, OnHandQuantity: 10, SourceSafetyStock: floatPtr(-4)},
			wantValue:  10,
			wantExcess: 10,
			wantStatus: domain.StatusOverStock,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := calc.Calculate(&tc.record)
			if !almostEqual(m.InventoryValue, tc.wantValue) {
				t.Errorf("Expected inventory value %v, got %v", tc.wantValue, m.InventoryValue)
			}
			if !almostEqual(m.SafetyStock, tc.wantSafety) {
				t.Errorf("Expected safety stock %v, got %v", tc.wantSafety, m.SafetyStock)
			}
			if !almostEqual(m.MissingStockAmount, tc.wantMissing) {
				t.Errorf("Expected missing amount %v, got %v", tc.wantMissing, m.MissingStockAmount)
			}
			if !almostEqual(m.ExcessStockValue, tc.wantExcess) {
				t.Errorf("Expected excess value %v, got %v", tc.wantExcess, m.ExcessStockValue)
			}
			if m.StockStatus != tc.wantStatus {
				t.Errorf("Expected status %s, got %s", tc.wantStatus, m.StockStatus)
			}
		})
	}
}

func TestInventoryCalculator_Deterministic(t *testing.T) {
	calc := NewInventoryCalculator()
	rec := domain.InventoryRecord{UnitPrice: 3.3, OnHandQuantity: 17}

	first := calc.Calculate(&rec)
	for i := 0; i < 10; i++ {
		if got := calc.Calculate(&rec); got != first {
			t.Fatalf("Expected identical metrics on run %d, got %+v vs %+v", i, got, first)
		}
	}
}

func TestClassify_Order(t *testing.T) {
	testCases := []struct {
		onHand, safety, excess float64
		want                   domain.StockStatus
	}{
		{0, 0, 0, domain.StatusStockOut},
		{0, 10, 0, domain.StatusStockOut},
		{5, 10, 0, domain.StatusBelowSafetyStock},
		{5, 10, 99, domain.StatusBelowSafetyStock},
		{10, 10, 0, domain.StatusAtStock},
		{16, 10, 1, domain.StatusOverStock},
	}

	for _, tc := range testCases {
		if got := Classify(tc.onHand, tc.safety, tc.excess); got != tc.want {
			t.Errorf("Classify(%v, %v, %v) = %s, want %s", tc.onHand, tc.safety, tc.excess, got, tc.want)
		}
	}
}

func TestInventoryCalculator_NonFiniteAmounts(t *testing.T) {
	calc := NewInventoryCalculator()
	rec := domain.InventoryRecord{Item: "A", UnitPrice: 1e308, OnHandQuantity: 10}

	m, finite := calc.CalculateChecked(&rec)
	if finite {
		t.Fatal("Expected overflowing amounts to be reported")
	}
	if m.InventoryValue != 0 || m.ExcessStockValue != 0 {
		t.Errorf("Expected non-finite amounts zeroed, got %+v", m)
	}
	if m.StockStatus != domain.StatusOverStock {
		t.Errorf("Expected status from the threshold rule, got %s", m.StockStatus)
	}
	if got := calc.Calculate(&rec); got != m {
		t.Errorf("Expected Calculate to match CalculateChecked, got %+v", got)
	}

	rec = domain.InventoryRecord{Item: "B", UnitPrice: 2, OnHandQuantity: 10}
	if _, finite := calc.CalculateChecked(&rec); !finite {
		t.Error("Expected ordinary amounts to be finite")
	}
}
