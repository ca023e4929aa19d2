package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadExcel reads the first sheet of an XLSX workbook into a table.
// The first row is taken as the header.
func LoadExcel(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet: header row required")
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := New(header...)
	for _, row := range rows[1:] {
		cells := make([]Cell, 0, len(header))
		for i := range header {
			if i < len(row) {
				cells = append(cells, sniffCell(row[i]))
			} else {
				cells = append(cells, Missing())
			}
		}
		t.AppendRow(cells...)
	}
	return t, nil
}
