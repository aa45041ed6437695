package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
)

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "20240131_stock.csv")
	if err := os.WriteFile(p, []byte("SKU,Price,Stock levels\nA,1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := readFiles([]string{p}, "2024-02-01")
	if err != nil {
		t.Fatalf("readFiles failed: %v", err)
	}
	if files[0].Filename != "20240131_stock.csv" {
		t.Errorf("Expected base name, got %s", files[0].Filename)
	}
	if files[0].Date == nil || files[0].Date.Format(domain.DateLayout) != "2024-02-01" {
		t.Errorf("Expected date override, got %v", files[0].Date)
	}

	if _, err := readFiles([]string{p}, "yesterday"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for bad date, got %v", err)
	}
	if _, err := readFiles([]string{filepath.Join(dir, "missing.csv")}, ""); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestWriteJSON(t *testing.T) {
	var compact, pretty bytes.Buffer
	v := map[string]int{"rows": 2}

	if err := writeJSON(&compact, v, false); err != nil {
		t.Fatal(err)
	}
	if err := writeJSON(&pretty, v, true); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(compact.String()) != `{"rows":2}` {
		t.Errorf("Unexpected compact output %q", compact.String())
	}
	if !strings.Contains(pretty.String(), "\n  \"rows\": 2") {
		t.Errorf("Unexpected pretty output %q", pretty.String())
	}
}
