package e2e

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tradelens/internal/analysis"
	"tradelens/internal/cluster"
	"tradelens/internal/convert"
	"tradelens/internal/export"
	"tradelens/internal/normalize"
	"tradelens/internal/rates"
	"tradelens/internal/table"
)

const sampleCSV = `Supplier,Product,Unit,Quantity,Currency,Value,Month
"Acme Ltd","Widget X (AR-740) heavy",Tons,2,EUR,"1,000",mar--2021
"ACME LIMITED","Widget X (AR-740)",kg,500,USD,800,apr--2021
"Globex Corp","Gadget Y (PQ0015066)",g,"250000 units",INR,"50,000",apr--2021
"Acme Gmbh","Widget X (AR-740) spare",pcs,10,EUR,75,may--2021
`

type staticRates map[string]float64

func (s staticRates) ConvertRate(_ context.Context, from string) (*rates.Quote, error) {
	q := s[from]
	return &rates.Quote{Rate: q, Total: q}, nil
}

// Runs the full flow one sheet goes through: load, standardize, unit and
// currency conversion, clustering, aggregation, and workbook export.
func TestPipelineEndToEnd(t *testing.T) {
	tbl, err := table.LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Len())

	normalize.Table(tbl, normalize.DetectStringColumns(tbl))
	assert.Equal(t, "acme ltd", tbl.Cell(0, "Supplier").String())

	// Unit conversion drops the pcs row and rewrites the rest to kgs.
	unitRes, err := convert.ToKilograms(tbl, "Unit", "Quantity")
	require.NoError(t, err)
	tbl = unitRes.Table
	require.Equal(t, 3, tbl.Len())
	require.Len(t, unitRes.Deleted, 1)
	assert.Equal(t, "pcs", unitRes.Deleted[0].Unit)

	qty0, _ := tbl.Cell(0, "Quantity").Float()
	assert.InDelta(t, 2000, qty0, 1e-9)
	qty2, _ := tbl.Cell(2, "Quantity").Float()
	assert.InDelta(t, 250, qty2, 1e-9)

	// Currency conversion adds the USD companion column.
	conv := convert.NewCurrencyConverter(staticRates{"EUR": 1.1, "INR": 0.012}, nil)
	tbl, err = conv.SheetToUSD(context.Background(), tbl, "Currency", []string{"Value"}, nil)
	require.NoError(t, err)
	usd0, _ := tbl.Cell(0, "Value_USD").Float()
	assert.InDelta(t, 1100, usd0, 1e-9)
	usd1, _ := tbl.Cell(1, "Value_USD").Float()
	assert.InDelta(t, 800, usd1, 1e-9, "USD rows pass through")

	// Supplier variants collapse into one fuzzy cluster.
	asg, err := cluster.AddClusterColumn(tbl, "Supplier", cluster.Fuzzy, 0)
	require.NoError(t, err)
	assert.Len(t, asg.Canonicals, 2)
	assert.Equal(t, tbl.Cell(0, "Supplier_cluster").String(), tbl.Cell(1, "Supplier_cluster").String())

	// Product labels collapse by core name.
	_, err = cluster.AddClusterColumn(tbl, "Product", cluster.Deterministic, 0)
	require.NoError(t, err)
	assert.Equal(t, "widget x ar-740", tbl.Cell(0, "Product_cluster").String())
	assert.Equal(t, "widget x ar-740", tbl.Cell(1, "Product_cluster").String())

	// Aggregate USD value per supplier cluster.
	summary, msg := analysis.ClusterAnalysis(tbl, analysis.ClusterRequest{
		Type:       analysis.ClusterSummary,
		ClusterCol: "Supplier_cluster",
		TargetCol:  "Value_USD",
	})
	require.NotNil(t, summary, msg)
	require.Equal(t, 2, summary.Len())
	total0, _ := summary.Cell(0, "Value_USD_Total").Float()
	assert.InDelta(t, 1900, total0, 1e-9, "acme cluster totals both rows")

	// Period averages read the custom month format.
	periods, msg := analysis.FullPeriodicAnalysis(tbl, "Month", "Value_USD")
	require.NotNil(t, periods, msg)
	assert.Equal(t, "FY 2020-21", periods.FiscalYear.Cell(0, "Financial Year").String())

	// The colored workbook reimports cleanly.
	wb, err := export.ColoredWorkbook(tbl, "Supplier")
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(wb))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Clustered_Data")
	require.NoError(t, err)
	assert.Len(t, rows, 4, "header plus three data rows")
}
