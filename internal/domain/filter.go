package domain

import "strings"

// Filter narrows dashboard views to a product type, location and supplier.
// Empty fields do not filter.
type Filter struct {
	ItemFamily string `json:"item_family,omitempty"`
	Warehouse  string `json:"warehouse,omitempty"`
	Supplier   string `json:"supplier,omitempty"`
}

// IsZero reports whether f filters nothing.
func (f Filter) IsZero() bool {
	return f.ItemFamily == "" && f.Warehouse == "" && f.Supplier == ""
}

// Matches reports whether r passes every non-empty field of f. Comparison is
// case-insensitive.
func (f Filter) Matches(r *InventoryRecord) bool {
	if f.ItemFamily != "" && !strings.EqualFold(f.ItemFamily, r.ItemFamily) {
		return false
	}
	if f.Warehouse != "" && !strings.EqualFold(f.Warehouse, r.Warehouse) {
		return false
	}
	if f.Supplier != "" && !strings.EqualFold(f.Supplier, r.Supplier) {
		return false
	}
	return true
}

// Apply returns the records of rs matching f, preserving order.
func (f Filter) Apply(rs []InventoryRecord) []InventoryRecord {
	if f.IsZero() {
		return rs
	}
	out := make([]InventoryRecord, 0, len(rs))
	for i := range rs {
		if f.Matches(&rs[i]) {
			out = append(out, rs[i])
		}
	}
	return out
}
