// Package normalize provides text standardization and column profiling for
// trade tables: value canonicalization, PIN-code extraction, lossy numeric
// coercion, and the string/numeric/categorical column heuristics.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"tradelens/internal/table"
)

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	pinRe      = regexp.MustCompile(`\b\d{6}\b`)
	numCleanRe = regexp.MustCompile(`[,$€£\s]`)
)

// IsEmail reports whether a value looks like an email address.
func IsEmail(value string) bool {
	return emailRe.MatchString(strings.TrimSpace(value))
}

// Value standardizes one cell given its originating column name.
// Missing cells and numeric cells pass through unchanged. Columns whose name
// contains "pin" get PIN handling; all other text is ASCII-folded,
// lowercased, trimmed, whitespace-collapsed, and stripped of commas and
// periods. The result is a fixed point: standardizing twice equals once.
func Value(c table.Cell, colName string) table.Cell {
	if c.Kind != table.KindText {
		return c
	}
	if strings.TrimSpace(c.Text) == "" {
		return c
	}
	if strings.Contains(strings.ToLower(colName), "pin") {
		return table.Text(cleanPIN(c.Text))
	}

	s := asciiFold(c.Text)
	s = strings.ToLower(s)
	s = strings.NewReplacer(",", "", ".", "").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return table.Text(s)
}

// cleanPIN strips a leading "pin-" prefix and extracts the first run of
// exactly six digits; if none is found the prefix-stripped string is
// returned unchanged.
func cleanPIN(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) >= 4 && strings.EqualFold(trimmed[:4], "pin-") {
		trimmed = strings.TrimSpace(trimmed[4:])
	}
	if m := pinRe.FindString(trimmed); m != "" {
		return m
	}
	return trimmed
}

// asciiFold decomposes accented characters and drops non-ASCII remnants.
func asciiFold(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Table standardizes the given string columns of a table in place.
func Table(t *table.Table, stringCols []string) {
	for _, col := range stringCols {
		i := t.ColumnIndex(col)
		if i < 0 {
			continue
		}
		for r := range t.Rows {
			t.Rows[r][i] = Value(t.Rows[r][i], col)
		}
	}
}

// CoerceFloat converts a cell to a float, stripping commas, currency symbols,
// and whitespace first. Anything that still fails to parse becomes 0 — a
// deliberate lossy default the downstream aggregations rely on.
func CoerceFloat(c table.Cell) float64 {
	f, _ := parseFloat(c)
	return f
}

// ParseFloat is the strict companion to CoerceFloat: it reports the parsed
// value and whether parsing succeeded, instead of collapsing failures to 0.
func ParseFloat(c table.Cell) (float64, bool) {
	return parseFloat(c)
}

// parseFloat reports the parsed value and whether parsing succeeded.
func parseFloat(c table.Cell) (float64, bool) {
	switch c.Kind {
	case table.KindNumber:
		return c.Num, true
	case table.KindText:
		cleaned := numCleanRe.ReplaceAllString(c.Text, "")
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func hasAlpha(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
