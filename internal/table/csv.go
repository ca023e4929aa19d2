package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// LoadCSV reads a whole delimited file into memory. A header row is required.
// Input is decoded as UTF-8; on invalid UTF-8 the bytes are re-decoded as
// ISO-8859-1 before parsing, matching the upload fallback behaviour.
func LoadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if !utf8.Valid(data) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, fmt.Errorf("decode fallback: %w", decErr)
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: header row required")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := New(header...)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		cells := make([]Cell, 0, len(header))
		for i := range header {
			if i < len(record) {
				cells = append(cells, sniffCell(record[i]))
			} else {
				cells = append(cells, Missing())
			}
		}
		t.AppendRow(cells...)
	}
	return t, nil
}

// sniffCell types a raw field: empty is missing, a plain float is numeric,
// everything else stays text.
func sniffCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return Text(raw)
}

// CSVBytes renders the table as UTF-8 delimited text with a header row.
// Re-parsing the output reproduces the same row count and column set.
func (t *Table) CSVBytes() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range t.Columns {
			record[i] = row[i].String()
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
