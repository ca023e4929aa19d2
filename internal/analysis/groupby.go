// Package analysis implements the aggregation engine: generic group-by,
// cluster-oriented reports, calendar and fiscal period averaging, and trend
// narration. Analyses fail soft — errors come back as messages, never as
// panics or escaping errors.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tradelens/internal/normalize"
	"tradelens/internal/table"
)

// AggFunc names a per-column aggregation.
type AggFunc string

const (
	AggCount  AggFunc = "count"
	AggSum    AggFunc = "sum"
	AggMean   AggFunc = "mean"
	AggMedian AggFunc = "median"
	AggMin    AggFunc = "min"
	AggMax    AggFunc = "max"
)

// CountColumn is the synthetic column produced by the default row-count
// aggregation.
const CountColumn = "__count__"

// keySep joins group-key parts; it must not appear in data.
const keySep = "\x1f"

// GroupData groups the table by the given columns. With no rules it counts
// rows per group; otherwise it applies the given per-column aggregations.
// On any failure it reports the error message and returns the ORIGINAL
// ungrouped table.
func GroupData(t *table.Table, groupCols []string, rules map[string]AggFunc) (*table.Table, string) {
	if len(groupCols) == 0 {
		return t, ""
	}
	grouped, err := GroupBy(t, groupCols, rules)
	if err != nil {
		return t, fmt.Sprintf("Error during grouping: %s", err)
	}
	return grouped, ""
}

// GroupBy is the strict form of GroupData.
func GroupBy(t *table.Table, groupCols []string, rules map[string]AggFunc) (*table.Table, error) {
	for _, col := range groupCols {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("group column %q not found", col)
		}
	}

	// Aggregated columns in table order keeps output deterministic.
	var aggCols []string
	for _, col := range t.Columns {
		if fn, ok := rules[col]; ok {
			if !validAgg(fn) {
				return nil, fmt.Errorf("unknown aggregation %q for column %q", fn, col)
			}
			aggCols = append(aggCols, col)
		}
	}
	if len(rules) > 0 && len(aggCols) != len(rules) {
		for col := range rules {
			if !t.HasColumn(col) {
				return nil, fmt.Errorf("aggregation column %q not found", col)
			}
		}
	}

	groupIdx := make([]int, len(groupCols))
	for i, col := range groupCols {
		groupIdx[i] = t.ColumnIndex(col)
	}

	type group struct {
		keyCells []table.Cell
		count    int
		values   map[string][]float64
	}
	var order []string
	groups := make(map[string]*group)

	for _, row := range t.Rows {
		parts := make([]string, len(groupIdx))
		keyCells := make([]table.Cell, len(groupIdx))
		for i, gi := range groupIdx {
			parts[i] = row[gi].String()
			keyCells[i] = row[gi]
		}
		key := strings.Join(parts, keySep)

		g, ok := groups[key]
		if !ok {
			g = &group{keyCells: keyCells, values: make(map[string][]float64)}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
		for _, col := range aggCols {
			g.values[col] = append(g.values[col], normalize.CoerceFloat(row[t.ColumnIndex(col)]))
		}
	}

	outCols := append([]string{}, groupCols...)
	if len(aggCols) == 0 {
		outCols = append(outCols, CountColumn)
	} else {
		outCols = append(outCols, aggCols...)
	}

	out := table.New(outCols...)
	for _, key := range order {
		g := groups[key]
		cells := append([]table.Cell{}, g.keyCells...)
		if len(aggCols) == 0 {
			cells = append(cells, table.Number(float64(g.count)))
		} else {
			for _, col := range aggCols {
				cells = append(cells, table.Number(applyAgg(rules[col], g.values[col], g.count)))
			}
		}
		out.AppendRow(cells...)
	}
	return out, nil
}

func validAgg(fn AggFunc) bool {
	switch fn {
	case AggCount, AggSum, AggMean, AggMedian, AggMin, AggMax:
		return true
	}
	return false
}

func applyAgg(fn AggFunc, values []float64, count int) float64 {
	switch fn {
	case AggCount:
		return float64(count)
	case AggSum:
		return sum(values)
	case AggMean:
		return mean(values)
	case AggMedian:
		return median(values)
	case AggMin:
		if len(values) == 0 {
			return 0
		}
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case AggMax:
		if len(values) == 0 {
			return 0
		}
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	}
	return 0
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// round2 rounds to two decimals for report output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
