package domain

import (
	"strings"
	"unicode"
)

// StockStatus is the categorical stock classification of one inventory record.
type StockStatus string

const (
	StatusStockOut         StockStatus = "STOCK-OUT"
	StatusBelowSafetyStock StockStatus = "BELOW-SAFETY-STOCK"
	StatusAtStock          StockStatus = "AT-STOCK"
	StatusOverStock        StockStatus = "OVER-STOCK"
)

const otherStatusColor = "#95a5a6"

var canonicalStatuses = []StockStatus{
	StatusStockOut,
	StatusBelowSafetyStock,
	StatusAtStock,
	StatusOverStock,
}

var statusColors = map[StockStatus]string{
	StatusStockOut:         "#e74c3c",
	StatusBelowSafetyStock: "#f39c12",
	StatusAtStock:          "#2ecc71",
	StatusOverStock:        "#3498db",
}

// CanonicalStatuses returns the derived statuses in display order.
func CanonicalStatuses() []StockStatus {
	out := make([]StockStatus, len(canonicalStatuses))
	copy(out, canonicalStatuses)
	return out
}

// Color returns the fixed display color for s. Literal statuses taken from
// source files share a neutral color.
func (s StockStatus) Color() string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return otherStatusColor
}

// Rank orders canonical statuses first; any other literal sorts after them.
func (s StockStatus) Rank() int {
	for i, c := range canonicalStatuses {
		if c == s {
			return i
		}
	}
	return len(canonicalStatuses)
}

// IsMissing reports whether s counts toward the missing-stock view.
func (s StockStatus) IsMissing() bool {
	return s == StatusStockOut || s == StatusBelowSafetyStock
}

// NormalizeStatusLabel uppercases a free-text status and joins its words
// with hyphens. Spaces, underscores and hyphens all separate words, so
// "Below safety stock" and "below_safety_stock" both give BELOW-SAFETY-STOCK.
func NormalizeStatusLabel(label string) StockStatus {
	parts := strings.FieldsFunc(strings.ToUpper(label), func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-'
	})
	return StockStatus(strings.Join(parts, "-"))
}
