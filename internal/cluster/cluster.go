// Package cluster groups near-duplicate product and company names under
// canonical cluster keys. Two variants coexist: a deterministic core-name
// mapping for product labels, and a greedy fuzzy matcher for supplier and
// location names.
package cluster

import (
	"fmt"
	"regexp"
	"strings"

	"tradelens/internal/normalize"
	"tradelens/internal/table"
)

// DefaultThreshold is the similarity a value must exceed to join an existing
// cluster, on the 0–100 ratio scale.
const DefaultThreshold = 90

// Variant selects the clustering strategy for a column.
type Variant int

const (
	// Deterministic keys each value by its extracted core name. Used for
	// product labels.
	Deterministic Variant = iota
	// Fuzzy greedily matches cleaned values against canonical strings by
	// token-sort ratio. Used for supplier, company, and location names.
	Fuzzy
)

// Assignment maps every distinct raw value of a column to its cluster key.
// It is a pure function of the column's current unique value set; re-running
// after the data changes may reassign keys.
type Assignment struct {
	// Keys maps each raw value to its cluster key.
	Keys map[string]string
	// Canonicals lists accepted canonical strings in acceptance order.
	Canonicals []string
	// Members maps each canonical to the raw values assigned to it, in
	// encounter order.
	Members map[string][]string
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)

// legalSuffixes are stripped from the end of company names before
// comparison. Order matters: stripping cascades, so "x co ltd" reduces to
// "x" in a single pass.
var legalSuffixes = []string{
	" limited", " ltd", " inc", " pte", " co", " gmbh", " bvba", " llc", " incorporated",
}

// CleanCompanyName lowercases a name, strips everything but letters, digits,
// and whitespace, removes trailing legal-entity suffixes, and collapses
// whitespace.
func CleanCompanyName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnumRe.ReplaceAllString(s, "")
	for _, suffix := range legalSuffixes {
		if strings.HasSuffix(s, suffix) {
			s = s[:len(s)-len(suffix)]
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// Values clusters distinct raw values with the fuzzy variant. Values are
// processed in slice order: each cleaned value is compared against the
// accepted canonicals in list order and joins the FIRST one whose token-sort
// ratio exceeds the threshold; otherwise it becomes a new canonical.
//
// The assignment is greedy and order-sensitive — a different encounter order
// can change cluster membership and the cluster count. Callers iterating an
// unordered collection must supply a deterministic ordering themselves if
// they need reproducible runs.
func Values(values []string, threshold int) *Assignment {
	a := &Assignment{
		Keys:    make(map[string]string, len(values)),
		Members: make(map[string][]string),
	}
	for _, raw := range values {
		if _, seen := a.Keys[raw]; seen {
			continue
		}
		cleaned := CleanCompanyName(raw)
		matched := false
		for _, canon := range a.Canonicals {
			if TokenSortRatio(cleaned, canon) > threshold {
				a.Keys[raw] = canon
				a.Members[canon] = append(a.Members[canon], raw)
				matched = true
				break
			}
		}
		if !matched {
			a.Canonicals = append(a.Canonicals, cleaned)
			a.Keys[raw] = cleaned
			a.Members[cleaned] = append(a.Members[cleaned], raw)
		}
	}
	return a
}

// CoreNames clusters distinct raw values with the deterministic variant: the
// extracted core name is the cluster key, with no cross-value comparison.
// Values whose core name is empty fall back to their own lowercased, trimmed
// form.
func CoreNames(values []string) *Assignment {
	a := &Assignment{
		Keys:    make(map[string]string, len(values)),
		Members: make(map[string][]string),
	}
	for _, raw := range values {
		if _, seen := a.Keys[raw]; seen {
			continue
		}
		key := normalize.CoreName(raw)
		if strings.TrimSpace(key) == "" {
			key = strings.ToLower(strings.TrimSpace(raw))
		}
		if _, known := a.Members[key]; !known {
			a.Canonicals = append(a.Canonicals, key)
		}
		a.Keys[raw] = key
		a.Members[key] = append(a.Members[key], raw)
	}
	return a
}

// ClusterColumnName returns the name of the derived cluster-key column.
func ClusterColumnName(col string) string { return col + "_cluster" }

// AddClusterColumn appends a "<col>_cluster" column keyed by the chosen
// variant. Distinct values are clustered in row encounter order, which the
// table makes stable. Missing cells keep a missing cluster cell. The
// assignment used is returned for inspection.
func AddClusterColumn(t *table.Table, col string, v Variant, threshold int) (*Assignment, error) {
	if !t.HasColumn(col) {
		return nil, fmt.Errorf("column %q not found", col)
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	unique := t.UniqueStrings(col)
	var a *Assignment
	switch v {
	case Deterministic:
		a = CoreNames(unique)
	case Fuzzy:
		a = Values(unique, threshold)
	default:
		return nil, fmt.Errorf("unknown cluster variant %d", v)
	}

	cells := make([]table.Cell, t.Len())
	idx := t.ColumnIndex(col)
	for r := range t.Rows {
		c := t.Rows[r][idx]
		if c.IsMissing() {
			cells[r] = table.Missing()
			continue
		}
		key, ok := a.Keys[c.String()]
		if !ok {
			key = strings.ToLower(strings.TrimSpace(c.String()))
		}
		cells[r] = table.Text(key)
	}
	if err := t.AddColumn(ClusterColumnName(col), cells); err != nil {
		return nil, err
	}
	return a, nil
}
