package analysis

import (
	"strings"

	"tradelens/internal/table"
)

// AllToken is the sentinel filter value meaning "no restriction".
const AllToken = "All"

// FilterEqual keeps rows whose column matches value, compared
// case-insensitively after trimming. The AllToken passes every row through.
func FilterEqual(t *table.Table, col, value string) *table.Table {
	if t == nil {
		return nil
	}
	if value == "" || strings.EqualFold(value, AllToken) || !t.HasColumn(col) {
		return t
	}
	want := filterKey(value)
	return t.Select(func(row int) bool {
		return filterKey(t.Cell(row, col).String()) == want
	})
}

// FilterIn keeps rows whose column matches any of the given values. An empty
// list or a list containing the AllToken passes every row through.
func FilterIn(t *table.Table, col string, values []string) *table.Table {
	if t == nil {
		return nil
	}
	if len(values) == 0 || !t.HasColumn(col) {
		return t
	}
	want := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.EqualFold(v, AllToken) {
			return t
		}
		want[filterKey(v)] = struct{}{}
	}
	return t.Select(func(row int) bool {
		_, ok := want[filterKey(t.Cell(row, col).String())]
		return ok
	})
}

func filterKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
