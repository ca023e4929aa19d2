// Package convert rewrites trade tables into canonical units and currency:
// rule-based unit-to-kilogram conversion and per-row currency-to-USD
// conversion backed by a cached external rate source.
package convert

import (
	"fmt"
	"regexp"

	"github.com/gocarina/gocsv"

	"tradelens/internal/normalize"
	"tradelens/internal/table"
)

// unitFactors maps a normalized unit token to its multiplicative factor to
// kilograms. Factors are fixed constants; unknown units are never guessed.
var unitFactors = map[string]float64{
	"mg":      0.000001,
	"g":       0.001,
	"gram":    0.001,
	"grams":   0.001,
	"kg":      1,
	"kgs":     1,
	"quintal": 100,
	"ton":     1000,
	"tons":    1000,
	"tonne":   1000,
	"tonnes":  1000,
	"mt":      1000,
	"lb":      0.453592,
	"lbs":     0.453592,
	"oz":      0.0283495,
}

// canonicalUnit is what converted rows carry after a successful rewrite.
const canonicalUnit = "kgs"

var leadingNumberRe = regexp.MustCompile(`^\s*-?\d+(?:\.\d+)?`)

// DeletedRow records a row excised by the unit conversion pass, with its
// original unit and quantity for audit.
type DeletedRow struct {
	Row      int    `csv:"row"`
	Unit     string `csv:"unit"`
	Quantity string `csv:"quantity"`
	Reason   string `csv:"reason"`
}

// UnitResult is the outcome of a unit conversion pass.
type UnitResult struct {
	Table     *table.Table
	Converted int
	Deleted   []DeletedRow
}

// ToKilograms converts every row's quantity into kilograms. Rows already in
// kg pass through unchanged and unlogged. Rows whose unit is absent from the
// factor table, or whose quantity has no leading numeric prefix, are REMOVED
// from the output and recorded in the deleted-rows log — unrecognized units
// are excised, never retried or defaulted.
func ToKilograms(t *table.Table, unitCol, qtyCol string) (*UnitResult, error) {
	for _, col := range []string{unitCol, qtyCol} {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	res := &UnitResult{Table: table.New(t.Columns...)}
	unitIdx := t.ColumnIndex(unitCol)
	qtyIdx := t.ColumnIndex(qtyCol)

	for r, row := range t.Rows {
		rawUnit := row[unitIdx].String()
		rawQty := row[qtyIdx].String()

		unit := normalize.Value(table.Text(rawUnit), unitCol).Text
		if unit == "kg" || unit == "kgs" {
			res.Table.AppendRow(row...)
			continue
		}

		factor, known := unitFactors[unit]
		if !known {
			res.Deleted = append(res.Deleted, DeletedRow{
				Row:      r,
				Unit:     rawUnit,
				Quantity: rawQty,
				Reason:   "unrecognized unit",
			})
			continue
		}

		qty, ok := leadingQuantity(rawQty)
		if !ok {
			res.Deleted = append(res.Deleted, DeletedRow{
				Row:      r,
				Unit:     rawUnit,
				Quantity: rawQty,
				Reason:   "quantity not numeric",
			})
			continue
		}

		converted := make([]table.Cell, len(row))
		copy(converted, row)
		converted[qtyIdx] = table.Number(qty * factor)
		converted[unitIdx] = table.Text(canonicalUnit)
		res.Table.AppendRow(converted...)
		res.Converted++
	}
	return res, nil
}

// leadingQuantity parses the numeric prefix of a raw quantity string, so
// "500 units" yields 500.
func leadingQuantity(raw string) (float64, bool) {
	m := leadingNumberRe.FindString(raw)
	if m == "" {
		return 0, false
	}
	f := normalize.CoerceFloat(table.Text(m))
	return f, true
}

// DeletedRowsCSV renders the audit log as delimited text.
func DeletedRowsCSV(deleted []DeletedRow) ([]byte, error) {
	if len(deleted) == 0 {
		deleted = []DeletedRow{}
	}
	out, err := gocsv.MarshalBytes(&deleted)
	if err != nil {
		return nil, fmt.Errorf("marshal deleted rows: %w", err)
	}
	return out, nil
}

// KnownUnits lists the unit tokens the factor table accepts,
// order unspecified.
func KnownUnits() []string {
	out := make([]string, 0, len(unitFactors))
	for u := range unitFactors {
		out = append(out, u)
	}
	return out
}
