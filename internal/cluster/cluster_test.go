package cluster

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelens/internal/table"
)

func TestCleanCompanyName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and trim", "  ACME  ", "acme"},
		{"punctuation stripped", "Acme, Inc.", "acme"},
		{"ltd stripped", "Acme Ltd", "acme"},
		{"limited stripped", "ACME LIMITED", "acme"},
		{"gmbh stripped", "Acme Gmbh", "acme"},
		{"co ltd cascades", "Acme Co Ltd", "acme"},
		{"corp kept", "Globex Corp", "globex corp"},
		{"interior suffix kept", "Ltd Acme", "ltd acme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCompanyName(tt.in))
		})
	}
}

func TestValuesGroupsVariants(t *testing.T) {
	values := []string{"Acme Ltd", "ACME LIMITED", "Acme Gmbh", "Globex Corp"}
	a := Values(values, DefaultThreshold)

	require.Len(t, a.Canonicals, 2)
	assert.Equal(t, a.Keys["Acme Ltd"], a.Keys["ACME LIMITED"])
	assert.Equal(t, a.Keys["Acme Ltd"], a.Keys["Acme Gmbh"])
	assert.NotEqual(t, a.Keys["Acme Ltd"], a.Keys["Globex Corp"])
	assert.Equal(t, []string{"Acme Ltd", "ACME LIMITED", "Acme Gmbh"}, a.Members["acme"])
}

func TestValuesThresholdIsStrict(t *testing.T) {
	// One edit over ten characters scores exactly 90 and must NOT join.
	a := Values([]string{"abcdefghij", "abcdefghix"}, 90)
	assert.Len(t, a.Canonicals, 2)

	b := Values([]string{"abcdefghij", "abcdefghix"}, 89)
	assert.Len(t, b.Canonicals, 1)
}

func TestValuesOrderDependence(t *testing.T) {
	// B sits within the threshold of both A and C, while A and C score
	// exactly at it. Whichever becomes canonical first decides the shape.
	const (
		a = "Supercorp Industries"
		b = "Supercorp Industriez"
		c = "Supercorp Induztriez"
	)

	first := Values([]string{a, b, c}, 90)
	assert.Len(t, first.Canonicals, 2)

	second := Values([]string{b, a, c}, 90)
	assert.Len(t, second.Canonicals, 1)
}

func TestValuesDuplicatesIgnored(t *testing.T) {
	a := Values([]string{"Acme Ltd", "Acme Ltd", "Acme Ltd"}, DefaultThreshold)
	assert.Len(t, a.Canonicals, 1)
	assert.Equal(t, []string{"Acme Ltd"}, a.Members["acme"])
}

func TestCoreNames(t *testing.T) {
	values := []string{
		"Widget X (AR-740) heavy",
		"WIDGET X (AR-740)",
		"Gadget Y (PQ0015066)",
		"???",
	}
	a := CoreNames(values)

	assert.Equal(t, "widget x ar-740", a.Keys["Widget X (AR-740) heavy"])
	assert.Equal(t, "widget x ar-740", a.Keys["WIDGET X (AR-740)"])
	assert.Equal(t, "gadget y pq0015066", a.Keys["Gadget Y (PQ0015066)"])
	assert.Equal(t, "???", a.Keys["???"], "non-word values key to themselves")
	assert.Len(t, a.Canonicals, 3)
}

func TestAddClusterColumn(t *testing.T) {
	tbl := table.New("Supplier")
	tbl.AppendRow(table.Text("Acme Ltd"))
	tbl.AppendRow(table.Missing())
	tbl.AppendRow(table.Text("ACME LIMITED"))

	a, err := AddClusterColumn(tbl, "Supplier", Fuzzy, 0)
	require.NoError(t, err)
	require.Len(t, a.Canonicals, 1)

	require.True(t, tbl.HasColumn("Supplier_cluster"))
	assert.Equal(t, "acme", tbl.Cell(0, "Supplier_cluster").String())
	assert.True(t, tbl.Cell(1, "Supplier_cluster").IsMissing())
	assert.Equal(t, "acme", tbl.Cell(2, "Supplier_cluster").String())
}

func TestAddClusterColumnErrors(t *testing.T) {
	tbl := table.New("Supplier")
	_, err := AddClusterColumn(tbl, "NoSuchColumn", Fuzzy, 90)
	assert.Error(t, err)
}

func BenchmarkValues(b *testing.B) {
	gofakeit.Seed(7)
	values := make([]string, 500)
	for i := range values {
		values[i] = fmt.Sprintf("%s %d", gofakeit.Company(), i%50)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Values(values, DefaultThreshold)
	}
}
