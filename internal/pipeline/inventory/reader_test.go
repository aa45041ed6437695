package inventory

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
	"github.com/xuri/excelize/v2"
)

func TestReadTable_CSV(t *testing.T) {
	table, err := ReadTable("a.csv", strings.NewReader("\ufeffSKU,Price\nA,1\nB\n"))
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows with ragged fields allowed, got %d", len(table.Rows))
	}
	if idx := resolveColumns(table.Header); idx[colItem] != 0 {
		t.Errorf("Expected BOM-prefixed SKU header to resolve, got %d", idx[colItem])
	}
}

func TestReadTable_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		filename string
		body     string
	}{
		{"empty file", "a.csv", ""},
		{"blank header", "a.csv", " , ,\n1,2,3\n"},
		{"broken quoting", "a.csv", "SKU,Price\n\"A,1\n"},
		{"unsupported extension", "a.pdf", "SKU\nA\n"},
		{"not a workbook", "a.xlsx", "SKU\nA\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadTable(tc.filename, strings.NewReader(tc.body))
			if !errors.Is(err, domain.ErrUnreadableInput) {
				t.Fatalf("Expected ErrUnreadableInput, got %v", err)
			}
		})
	}
}

func TestReadTable_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"SKU", "Location", "Price", "Stock levels"},
		{"A", "W1", 2, 10},
		{"B", "W2", 3, 0},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	table, err := ReadTable("book.xlsx", bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(table.Header) != 4 || len(table.Rows) != 2 {
		t.Fatalf("Expected 4 columns and 2 rows, got %d and %d", len(table.Header), len(table.Rows))
	}

	batch, err := NewNormalizer().Normalize(table, snapshotDate)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if batch.Records[0].InventoryValue != 20 {
		t.Errorf("Expected value 20, got %v", batch.Records[0].InventoryValue)
	}
}
