package inventory

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
)

var snapshotDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func mustRead(t *testing.T, name, body string) *Table {
	t.Helper()
	table, err := ReadTable(name, strings.NewReader(body))
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	return table
}

func hasWarning(ws []domain.Warning, code, col string) bool {
	for _, w := range ws {
		if w.Code == code && w.Column == col {
			return true
		}
	}
	return false
}

func TestNormalizer_RenamesSynonyms(t *testing.T) {
	body := " SKU , Location ,Product type, Stock levels ,Price,Supplier name\n" +
		"SKU1,Mumbai,haircare,100,5,Supplier 1\n" +
		"SKU2,Delhi,skincare,0,10,Supplier 2\n"

	batch, err := NewNormalizer().Normalize(mustRead(t, "stock.csv", body), snapshotDate)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(batch.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(batch.Records))
	}
	if len(batch.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %+v", batch.Warnings)
	}

	r := batch.Records[0]
	if r.Item != "SKU1" || r.Warehouse != "Mumbai" || r.ItemFamily != "haircare" || r.Supplier != "Supplier 1" {
		t.Errorf("Unexpected identity fields: %+v", r)
	}
	if r.OnHandQuantity != 100 || r.UnitPrice != 5 {
		t.Errorf("Expected qty 100 price 5, got %v %v", r.OnHandQuantity, r.UnitPrice)
	}
	if !r.Date.Equal(snapshotDate) {
		t.Errorf("Expected broadcast snapshot date, got %v", r.Date)
	}
	if r.StockStatus != domain.StatusOverStock || !almostEqual(r.ExcessStockValue, 350) {
		t.Errorf("Expected OVER-STOCK with excess 350, got %s %v", r.StockStatus, r.ExcessStockValue)
	}
	if batch.Records[1].StockStatus != domain.StatusStockOut {
		t.Errorf("Expected STOCK-OUT, got %s", batch.Records[1].StockStatus)
	}
}

func TestNormalizer_MissingPriceColumn(t *testing.T) {
	body := "SKU,Location,Product Type,Stock levels\nA,W1,f,10\nB,W1,f,20\n"

	batch, err := NewNormalizer().Normalize(mustRead(t, "noprice.csv", body), snapshotDate)
	if err != nil {
		t.Fatalf("Expected missing price to be non-fatal, got %v", err)
	}
	if !hasWarning(batch.Warnings, domain.WarningMissingColumn, "unit_price") {
		t.Errorf("Expected missing price warning, got %+v", batch.Warnings)
	}
	for _, r := range batch.Records {
		if r.UnitPrice != 0 || r.InventoryValue != 0 {
			t.Errorf("Expected zero price and value for %s, got %v %v", r.Item, r.UnitPrice, r.InventoryValue)
		}
	}
}

func TestNormalizer_MissingItemColumnIsFatal(t *testing.T) {
	body := "Location,Price,Stock levels\nW1,1,1\n"

	_, err := NewNormalizer().Normalize(mustRead(t, "noitem.csv", body), snapshotDate)
	if !errors.Is(err, domain.ErrMissingIdentityColumn) {
		t.Fatalf("Expected ErrMissingIdentityColumn, got %v", err)
	}
}

func TestNormalizer_CoercionAndDefaults(t *testing.T) {
	body := "SKU,Price,Stock levels\n" +
		"A,abc,\"1,200\"\n" +
		",3,3\n" +
		"B,$4.50,-7\n"

	batch, err := NewNormalizer().Normalize(mustRead(t, "messy.csv", body), snapshotDate)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(batch.Records) != 2 {
		t.Fatalf("Expected the row without item to be dropped, got %d records", len(batch.Records))
	}

	a, b := batch.Records[0], batch.Records[1]
	if a.UnitPrice != 0 || a.OnHandQuantity != 1200 {
		t.Errorf("Expected price 0 and qty 1200, got %v %v", a.UnitPrice, a.OnHandQuantity)
	}
	if b.UnitPrice != 4.5 || b.OnHandQuantity != 0 {
		t.Errorf("Expected price 4.5 and clamped qty 0, got %v %v", b.UnitPrice, b.OnHandQuantity)
	}
	if a.Warehouse != domain.UnknownLabel || a.ItemFamily != domain.UnknownLabel {
		t.Errorf("Expected Unknown defaults, got %q %q", a.Warehouse, a.ItemFamily)
	}
	if !hasWarning(batch.Warnings, domain.WarningCoercion, "unit_price") {
		t.Errorf("Expected coercion warning for price, got %+v", batch.Warnings)
	}
	if !hasWarning(batch.Warnings, domain.WarningDroppedRows, "item") {
		t.Errorf("Expected dropped rows warning, got %+v", batch.Warnings)
	}
	if !hasWarning(batch.Warnings, domain.WarningMissingColumn, "warehouse") {
		t.Errorf("Expected missing warehouse warning, got %+v", batch.Warnings)
	}
}

func TestNormalizer_PerRowDatesAndStatus(t *testing.T) {
	body := "SKU,Location,Price,Stock levels,Date,Stock Status\n" +
		"A,W1,1,5,2024-01-31,below safety stock\n" +
		"A,W1,1,5,not a date,\n"

	batch, err := NewNormalizer().Normalize(mustRead(t, "dated.csv", body), snapshotDate)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	first, second := batch.Records[0], batch.Records[1]
	if want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC); !first.Date.Equal(want) {
		t.Errorf("Expected row date %v, got %v", want, first.Date)
	}
	if first.StockStatus != domain.StatusBelowSafetyStock {
		t.Errorf("Expected source status to win, got %s", first.StockStatus)
	}
	if !second.Date.Equal(snapshotDate) {
		t.Errorf("Expected fallback to snapshot date, got %v", second.Date)
	}
	if second.StockStatus != domain.StatusOverStock {
		t.Errorf("Expected derived status, got %s", second.StockStatus)
	}
	if !hasWarning(batch.Warnings, domain.WarningCoercion, "date") {
		t.Errorf("Expected date coercion warning, got %+v", batch.Warnings)
	}
}

func TestNormalizer_EmptyInput(t *testing.T) {
	batch, err := NewNormalizer().Normalize(mustRead(t, "empty.csv", "SKU,Price,Stock levels\n"), snapshotDate)
	if err != nil {
		t.Fatalf("Expected empty input to succeed, got %v", err)
	}
	if len(batch.Records) != 0 {
		t.Errorf("Expected no records, got %d", len(batch.Records))
	}
	if !hasWarning(batch.Warnings, domain.WarningEmptyInput, "") {
		t.Errorf("Expected empty input warning, got %+v", batch.Warnings)
	}
}

func TestNormalize_ExtremeNumbers(t *testing.T) {
	table := mustRead(t, "extreme.csv", "SKU,Location,Price,Stock levels\nA,W1,1e308,10\nB,W1,2,1e14\nC,W1,NaN,Inf\n")

	batch, err := NewNormalizer().Normalize(table, snapshotDate)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(batch.Records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(batch.Records))
	}

	a := batch.Records[0]
	if a.UnitPrice != 0 || a.InventoryValue != 0 {
		t.Errorf("Expected out-of-range price defaulted to 0, got price=%v value=%v", a.UnitPrice, a.InventoryValue)
	}
	if b := batch.Records[1]; !almostEqual(b.InventoryValue, 2e14) {
		t.Errorf("Expected in-range value kept, got %v", b.InventoryValue)
	}
	for _, r := range batch.Records {
		for _, v := range []float64{r.InventoryValue, r.SafetyStock, r.MissingStockAmount, r.ExcessStockValue} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("Expected finite metrics for %s, got %+v", r.Item, r.Metrics)
			}
		}
	}

	if !hasWarning(batch.Warnings, domain.WarningCoercion, "unit_price") {
		t.Error("Expected a coercion warning for unit_price")
	}
	if !hasWarning(batch.Warnings, domain.WarningCoercion, "on_hand_quantity") {
		t.Error("Expected a coercion warning for on_hand_quantity")
	}
}
