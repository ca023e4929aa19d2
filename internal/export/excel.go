package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"tradelens/internal/cluster"
	"tradelens/internal/table"
)

const (
	dataSheet    = "Clustered_Data"
	summarySheet = "Cluster_Summary"

	defaultFill = "FFFFFF"
)

// ColoredWorkbook writes the sheet to an Excel workbook with rows sorted and
// color-coded by their cluster, plus a summary sheet of per-cluster counts.
// The cluster column is derived from the clustered column's name.
func ColoredWorkbook(t *table.Table, clusteredCol string) ([]byte, error) {
	clusterCol := cluster.ClusterColumnName(clusteredCol)
	if t == nil || !t.HasColumn(clusterCol) {
		return nil, fmt.Errorf("cluster column %q not found", clusterCol)
	}

	sorted := sortByColumn(t, clusterCol)
	clusters := sorted.UniqueStrings(clusterCol)
	fills := GenerateColors(len(clusters))
	fillFor := make(map[string]string, len(clusters))
	for i, c := range clusters {
		fillFor[c] = fills[i]
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, fmt.Errorf("rename data sheet: %w", err)
	}
	if err := writeDataSheet(f, sorted, clusterCol, fillFor); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, sorted, clusterCol, fillFor); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDataSheet(f *excelize.File, t *table.Table, clusterCol string, fillFor map[string]string) error {
	for c, name := range t.Columns {
		axis, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(dataSheet, axis, name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	styles := make(map[string]int)
	for r := 0; r < t.Len(); r++ {
		for c, name := range t.Columns {
			axis, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := setCell(f, dataSheet, axis, t.Cell(r, name)); err != nil {
				return err
			}
		}
		if err := fillRow(f, dataSheet, styles, r+2, len(t.Columns), rowFill(t, r, clusterCol, fillFor)); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, t *table.Table, clusterCol string, fillFor map[string]string) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	counts := make(map[string]int)
	for r := 0; r < t.Len(); r++ {
		counts[t.Cell(r, clusterCol).String()]++
	}
	clusters := t.UniqueStrings(clusterCol)

	headers := []string{clusterCol, "Count", "Color"}
	for c, h := range headers {
		axis, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(summarySheet, axis, h); err != nil {
			return fmt.Errorf("write summary header: %w", err)
		}
	}

	styles := make(map[string]int)
	for i, name := range clusters {
		row := i + 2
		cells := []any{name, counts[name], fillFor[name]}
		for c, v := range cells {
			axis, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(summarySheet, axis, v); err != nil {
				return fmt.Errorf("write summary row: %w", err)
			}
		}
		fill, ok := fillFor[name]
		if !ok {
			fill = defaultFill
		}
		if err := fillRow(f, summarySheet, styles, row, len(headers), fill); err != nil {
			return err
		}
	}
	return nil
}

// fillRow applies a solid pattern fill across a row, reusing style IDs per
// color since excelize styles are workbook-scoped.
func fillRow(f *excelize.File, sheet string, styles map[string]int, row, width int, fill string) error {
	styleID, ok := styles[fill]
	if !ok {
		var err error
		styleID, err = f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		})
		if err != nil {
			return fmt.Errorf("create fill style: %w", err)
		}
		styles[fill] = styleID
	}
	start, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(width, row)
	if err := f.SetCellStyle(sheet, start, end, styleID); err != nil {
		return fmt.Errorf("apply fill style: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet, axis string, c table.Cell) error {
	var v any
	switch {
	case c.IsMissing():
		v = ""
	case c.Kind == table.KindNumber:
		v = c.Num
	default:
		v = c.Text
	}
	if err := f.SetCellValue(sheet, axis, v); err != nil {
		return fmt.Errorf("write cell %s: %w", axis, err)
	}
	return nil
}

func rowFill(t *table.Table, row int, clusterCol string, fillFor map[string]string) string {
	if fill, ok := fillFor[t.Cell(row, clusterCol).String()]; ok {
		return fill
	}
	return defaultFill
}

// sortByColumn returns a copy of the sheet with rows ordered by the given
// column's string value. The sort is stable so rows within a cluster keep
// their original order.
func sortByColumn(t *table.Table, col string) *table.Table {
	out := t.Clone()
	idx := out.ColumnIndex(col)
	if idx < 0 {
		return out
	}
	sort.SliceStable(out.Rows, func(a, b int) bool {
		return out.Rows[a][idx].String() < out.Rows[b][idx].String()
	})
	return out
}
