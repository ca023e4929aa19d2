package normalize

import (
	"strings"

	"tradelens/internal/table"
)

// Profile is the advisory per-pass classification of a table's columns.
// Classification is derived from content, not stored on the table, and can
// change as cleaning progresses.
type Profile struct {
	StringCols      []string
	NumericCols     []string
	CategoricalCols []string
}

const (
	numericSampleSize   = 100
	numericShare        = 0.7
	categoricalMinRatio = 0.01
	categoricalMaxRatio = 0.30
)

// BuildProfile classifies every column of the table.
func BuildProfile(t *table.Table) Profile {
	var p Profile
	for _, col := range t.Columns {
		if IsNumericColumn(t, col) {
			p.NumericCols = append(p.NumericCols, col)
			continue
		}
		if isStringColumn(t, col) {
			p.StringCols = append(p.StringCols, col)
		}
	}
	p.CategoricalCols = DetectCategoricalColumns(t, true)
	return p
}

// DetectStringColumns returns the columns to standardize: at least one value
// with an alphabetic character, no value parsing as an email address, and
// not numeric-typed.
func DetectStringColumns(t *table.Table) []string {
	var out []string
	for _, col := range t.Columns {
		if IsNumericColumn(t, col) {
			continue
		}
		if isStringColumn(t, col) {
			out = append(out, col)
		}
	}
	return out
}

func isStringColumn(t *table.Table, col string) bool {
	i := t.ColumnIndex(col)
	if i < 0 {
		return false
	}
	hasText := false
	for _, row := range t.Rows {
		c := row[i]
		if c.IsMissing() {
			continue
		}
		s := c.String()
		if IsEmail(s) {
			return false
		}
		if hasAlpha(s) {
			hasText = true
		}
	}
	return hasText
}

// IsNumericColumn reports whether a column is numeric-like: every cell is
// already typed numeric, or at least 70% of a sample of up to 100 non-missing
// stringified values parse as a float after cleanup.
func IsNumericColumn(t *table.Table, col string) bool {
	i := t.ColumnIndex(col)
	if i < 0 {
		return false
	}
	sampled, parsed, allNumber := 0, 0, true
	for _, row := range t.Rows {
		c := row[i]
		if c.IsMissing() {
			continue
		}
		if c.Kind != table.KindNumber {
			allNumber = false
		}
		if sampled < numericSampleSize {
			sampled++
			if _, ok := parseFloat(c); ok {
				parsed++
			}
		}
	}
	if sampled == 0 {
		return false
	}
	if allNumber {
		return true
	}
	return float64(parsed)/float64(sampled) > numericShare
}

// DetectCategoricalColumns returns non-numeric columns whose distinct-value
// ratio falls in [0.01, 0.30]. An empty table yields no categorical columns.
// Cluster-key columns (suffix "_cluster") are skipped when excludeClusters
// is set.
func DetectCategoricalColumns(t *table.Table, excludeClusters bool) []string {
	if t.Len() == 0 {
		return nil
	}
	var out []string
	for _, col := range t.Columns {
		if excludeClusters && strings.Contains(col, "_cluster") {
			continue
		}
		if IsNumericColumn(t, col) {
			continue
		}
		distinct := countDistinct(t, col)
		ratio := float64(distinct) / float64(t.Len())
		if ratio >= categoricalMinRatio && ratio <= categoricalMaxRatio {
			out = append(out, col)
		}
	}
	return out
}

func countDistinct(t *table.Table, col string) int {
	i := t.ColumnIndex(col)
	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		c := row[i]
		if c.IsMissing() {
			continue
		}
		seen[c.String()] = struct{}{}
	}
	return len(seen)
}
