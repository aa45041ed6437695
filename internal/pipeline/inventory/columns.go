package inventory

// column is a canonical field of the normalized schema.
type column int

const (
	colItem column = iota
	colWarehouse
	colItemFamily
	colSupplier
	colOnHand
	colUnitPrice
	colSafetyStock
	colDate
	colStatus
	colProductsSold
	colRevenue
	colDefectRate
	colLeadTime
	colMfgLeadTime
	colMfgCost
	columnCount
)

var columnNames = [columnCount]string{
	colItem:         "item",
	colWarehouse:    "warehouse",
	colItemFamily:   "item_family",
	colSupplier:     "supplier",
	colOnHand:       "on_hand_quantity",
	colUnitPrice:    "unit_price",
	colSafetyStock:  "safety_stock",
	colDate:         "date",
	colStatus:       "stock_status",
	colProductsSold: "products_sold",
	colRevenue:      "revenue",
	colDefectRate:   "defect_rate",
	colLeadTime:     "lead_time",
	colMfgLeadTime:  "manufacturing_lead_time",
	colMfgCost:      "manufacturing_cost",
}

// columnSynonyms lists the source header names recognized for each canonical
// column. The canonical name itself always matches too.
var columnSynonyms = [columnCount][]string{
	colItem:         {"SKU", "Item", "Item Code"},
	colWarehouse:    {"Location", "Warehouse"},
	colItemFamily:   {"Product type", "Product Type", "Item Family", "Family", "Category"},
	colSupplier:     {"Supplier name", "Supplier"},
	colOnHand:       {"Stock levels", "On Hand", "Quantity", "Stock"},
	colUnitPrice:    {"Price", "Unit Price"},
	colSafetyStock:  {"Safety stock", "Safety stock level"},
	colDate:         {"Date", "Snapshot Date"},
	colStatus:       {"Stock Status"},
	colProductsSold: {"Number of products sold"},
	colRevenue:      {"Revenue generated"},
	colDefectRate:   {"Defect rates"},
	colLeadTime:     {"Lead times", "Lead time"},
	colMfgLeadTime:  {"Manufacturing lead time"},
	colMfgCost:      {"Manufacturing costs"},
}

var synonymIndex = buildSynonymIndex()

func buildSynonymIndex() map[string]column {
	idx := make(map[string]column)
	for c := column(0); c < columnCount; c++ {
		idx[normalizeColumnName(columnNames[c])] = c
		for _, name := range columnSynonyms[c] {
			idx[normalizeColumnName(name)] = c
		}
	}
	return idx
}

// resolveColumns maps each canonical column to its header index, or -1.
// When two headers map to the same column the first one wins.
func resolveColumns(header []string) [columnCount]int {
	var idx [columnCount]int
	for i := range idx {
		idx[i] = -1
	}
	for i, h := range header {
		c, ok := synonymIndex[normalizeColumnName(h)]
		if !ok || idx[c] >= 0 {
			continue
		}
		idx[c] = i
	}
	return idx
}
