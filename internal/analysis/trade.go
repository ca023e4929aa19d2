package analysis

import (
	"sort"

	"tradelens/internal/table"
)

// topEntityLimit caps the ranked tables in a trade summary.
const topEntityLimit = 10

// TradeSummary holds the headline ranked views of a trade sheet.
type TradeSummary struct {
	TopProducts   *table.Table
	TopSuppliers  *table.Table
	TopImporters  *table.Table
	AvgUnitPrices *table.Table
}

// TradeSummaryRequest names the sheet columns a summary should read.
// Any empty column name skips the corresponding view.
type TradeSummaryRequest struct {
	ProductCol  string
	SupplierCol string
	ImporterCol string
	QuantityCol string
	ValueCol    string
}

// SummarizeTrade ranks products, suppliers, and importers by total quantity
// and reports the mean unit price (value over quantity) per product. It is
// fail-soft: an empty sheet returns a message instead of an error.
func SummarizeTrade(t *table.Table, req TradeSummaryRequest) (*TradeSummary, string) {
	if t == nil || t.Len() == 0 {
		return nil, "No data available for analysis."
	}

	out := &TradeSummary{}
	if req.ProductCol != "" && t.HasColumn(req.ProductCol) && t.HasColumn(req.QuantityCol) {
		out.TopProducts = rankBySum(t, req.ProductCol, req.QuantityCol)
	}
	if req.SupplierCol != "" && t.HasColumn(req.SupplierCol) && t.HasColumn(req.QuantityCol) {
		out.TopSuppliers = rankBySum(t, req.SupplierCol, req.QuantityCol)
	}
	if req.ImporterCol != "" && t.HasColumn(req.ImporterCol) && t.HasColumn(req.QuantityCol) {
		out.TopImporters = rankBySum(t, req.ImporterCol, req.QuantityCol)
	}
	if req.ProductCol != "" && t.HasColumn(req.ProductCol) && t.HasColumn(req.ValueCol) && t.HasColumn(req.QuantityCol) {
		out.AvgUnitPrices = unitPrices(t, req.ProductCol, req.ValueCol, req.QuantityCol)
	}

	if out.TopProducts == nil && out.TopSuppliers == nil && out.TopImporters == nil && out.AvgUnitPrices == nil {
		return nil, "Required columns not found"
	}
	return out, "Analysis completed successfully"
}

func rankBySum(t *table.Table, keyCol, numCol string) *table.Table {
	totals := make(map[string]float64)
	var order []string
	for i := 0; i < t.Len(); i++ {
		key := t.Cell(i, keyCol).String()
		if key == "" {
			continue
		}
		if _, ok := totals[key]; !ok {
			order = append(order, key)
		}
		if v, ok := t.Cell(i, numCol).Float(); ok {
			totals[key] += v
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		return totals[order[a]] > totals[order[b]]
	})
	if len(order) > topEntityLimit {
		order = order[:topEntityLimit]
	}

	out := table.New(keyCol, "Total_"+numCol)
	for _, key := range order {
		out.AppendRow(table.Text(key), table.Number(round2(totals[key])))
	}
	return out
}

func unitPrices(t *table.Table, keyCol, valueCol, qtyCol string) *table.Table {
	type accum struct {
		value float64
		qty   float64
	}
	sums := make(map[string]*accum)
	var order []string
	for i := 0; i < t.Len(); i++ {
		key := t.Cell(i, keyCol).String()
		if key == "" {
			continue
		}
		a, ok := sums[key]
		if !ok {
			a = &accum{}
			sums[key] = a
			order = append(order, key)
		}
		if v, ok := t.Cell(i, valueCol).Float(); ok {
			a.value += v
		}
		if q, ok := t.Cell(i, qtyCol).Float(); ok {
			a.qty += q
		}
	}

	sort.Strings(order)
	out := table.New(keyCol, "Avg_Unit_Price")
	for _, key := range order {
		a := sums[key]
		if a.qty == 0 {
			out.AppendRow(table.Text(key), table.Missing())
			continue
		}
		out.AppendRow(table.Text(key), table.Number(round2(a.value/a.qty)))
	}
	return out
}
