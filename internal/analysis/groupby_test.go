package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelens/internal/table"
)

func tradeTable() *table.Table {
	t := table.New("Supplier", "Category", "Quantity")
	rows := []struct {
		supplier, category string
		qty                float64
	}{
		{"acme", "electronics", 10},
		{"acme", "textiles", 30},
		{"globex", "electronics", 20},
		{"acme", "electronics", 50},
	}
	for _, r := range rows {
		t.AppendRow(table.Text(r.supplier), table.Text(r.category), table.Number(r.qty))
	}
	return t
}

func TestGroupByCounts(t *testing.T) {
	out, err := GroupBy(tradeTable(), []string{"Supplier"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Supplier", CountColumn}, out.Columns)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "acme", out.Cell(0, "Supplier").String(), "encounter order preserved")
	assert.Equal(t, 3.0, mustNum(t, out, 0, CountColumn))
	assert.Equal(t, 1.0, mustNum(t, out, 1, CountColumn))
}

func TestGroupBySum(t *testing.T) {
	out, err := GroupBy(tradeTable(), []string{"Supplier"}, map[string]AggFunc{"Quantity": AggSum})
	require.NoError(t, err)

	assert.Equal(t, []string{"Supplier", "Quantity"}, out.Columns)
	assert.Equal(t, 90.0, mustNum(t, out, 0, "Quantity"))
	assert.Equal(t, 20.0, mustNum(t, out, 1, "Quantity"))
}

func TestGroupByMultipleColumns(t *testing.T) {
	out, err := GroupBy(tradeTable(), []string{"Supplier", "Category"}, map[string]AggFunc{"Quantity": AggMean})
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	assert.Equal(t, 30.0, mustNum(t, out, 0, "Quantity"), "mean of acme electronics")
}

func TestGroupByAggregations(t *testing.T) {
	tests := []struct {
		fn   AggFunc
		want float64
	}{
		{AggSum, 90},
		{AggMean, 30},
		{AggMedian, 30},
		{AggMin, 10},
		{AggMax, 50},
		{AggCount, 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.fn), func(t *testing.T) {
			out, err := GroupBy(tradeTable(), []string{"Supplier"}, map[string]AggFunc{"Quantity": tt.fn})
			require.NoError(t, err)
			assert.Equal(t, tt.want, mustNum(t, out, 0, "Quantity"))
		})
	}
}

func TestGroupByErrors(t *testing.T) {
	_, err := GroupBy(tradeTable(), []string{"NoSuchColumn"}, nil)
	assert.Error(t, err)

	_, err = GroupBy(tradeTable(), []string{"Supplier"}, map[string]AggFunc{"NoSuchColumn": AggSum})
	assert.Error(t, err)

	_, err = GroupBy(tradeTable(), []string{"Supplier"}, map[string]AggFunc{"Quantity": "variance"})
	assert.Error(t, err)
}

func TestGroupDataFailSoft(t *testing.T) {
	in := tradeTable()

	out, msg := GroupData(in, []string{"NoSuchColumn"}, nil)
	assert.Same(t, in, out, "original table returned on failure")
	assert.Contains(t, msg, "Error during grouping")

	out, msg = GroupData(in, nil, nil)
	assert.Same(t, in, out, "no group columns is a passthrough")
	assert.Empty(t, msg)
}

func TestMedianEvenCount(t *testing.T) {
	assert.Equal(t, 15.0, median([]float64{10, 20, 30, 5}))
	assert.Equal(t, 20.0, median([]float64{10, 20, 30}))
	assert.Equal(t, 0.0, median(nil))
}

func mustNum(t *testing.T, tbl *table.Table, row int, col string) float64 {
	t.Helper()
	v, ok := tbl.Cell(row, col).Float()
	require.True(t, ok, "cell %d/%s is not numeric", row, col)
	return v
}
