package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSortRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "acme industrial", "acme industrial", 100},
		{"token order ignored", "industrial acme", "acme industrial", 100},
		{"both empty", "", "", 100},
		{"one empty", "acme", "", 0},
		{"single edit", "abcdefghij", "abcdefghix", 90},
		{"disjoint", "acme", "zzzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenSortRatio(tt.a, tt.b))
		})
	}
}

func TestTokenSortRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"acme industrial", "acme industries"},
		{"globex corporation", "globex corp"},
		{"widget", "gadget"},
	}
	for _, p := range pairs {
		assert.Equal(t, TokenSortRatio(p[0], p[1]), TokenSortRatio(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("abc", "abc"))
	assert.Equal(t, 3, levenshteinDistance("", "abc"))
	assert.Equal(t, 3, levenshteinDistance("abc", ""))
	assert.Equal(t, 1, levenshteinDistance("kitten", "mitten"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSuggest(t *testing.T) {
	canonicals := []string{"acme industrial", "globex", "initech systems"}

	got := Suggest("Acme Industrial Ltd", canonicals, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, "acme industrial", got[0].Canonical)
	assert.Equal(t, 100, got[0].Score)

	none := Suggest("qqqq", []string{"zzzz"}, 0)
	assert.Empty(t, none)
}
