package forecast

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelens/internal/table"
)

func monthlySheet(cluster string, months []string, values []float64) *table.Table {
	t := table.New("Product_cluster", "Month", "Quantity")
	for i, m := range months {
		t.AppendRow(table.Text(cluster), table.Text(m), table.Number(values[i]))
	}
	return t
}

func TestForecastClusterIncreasingTrend(t *testing.T) {
	months := []string{"jan--2021", "feb--2021", "mar--2021", "apr--2021", "may--2021", "jun--2021", "jul--2021"}
	values := []float64{10, 20, 30, 40, 50, 60, 70}
	sheet := monthlySheet("widget", months, values)

	res, msg := ForecastCluster(sheet, NewHolt(), Request{
		ClusterCol: "Product_cluster",
		ItemName:   "widget",
		ValueCol:   "Quantity",
		DateCol:    "Month",
	})
	require.NotNil(t, res, msg)
	assert.Equal(t, "Analysis completed successfully", msg)

	assert.Len(t, res.History, 7)
	assert.Len(t, res.Forecast, DefaultHorizon)
	assert.Equal(t, "📈 Increasing trend in forecasted values.", res.Trend)

	require.Len(t, res.ForecastMonths, DefaultHorizon)
	assert.Equal(t, "2021-08", res.ForecastMonths[0].Format("2006-01"))
	assert.Equal(t, "2022-07", res.ForecastMonths[11].Format("2006-01"))

	assert.Greater(t, res.Forecast[0], res.History[len(res.History)-1],
		"steady growth projects above the last observation")
}

func TestForecastClusterDecreasingTrend(t *testing.T) {
	months := []string{"jan--2021", "feb--2021", "mar--2021", "apr--2021", "may--2021", "jun--2021"}
	values := []float64{120, 100, 80, 60, 40, 20}
	sheet := monthlySheet("widget", months, values)

	res, msg := ForecastCluster(sheet, NewHolt(), Request{
		ClusterCol: "Product_cluster",
		ItemName:   "widget",
		ValueCol:   "Quantity",
		DateCol:    "Month",
	})
	require.NotNil(t, res, msg)
	assert.Equal(t, "📉 Decreasing trend in forecasted values.", res.Trend)
}

func TestForecastClusterNotEnoughData(t *testing.T) {
	months := []string{"jan--2021", "feb--2021", "mar--2021"}
	values := []float64{10, 20, 30}
	sheet := monthlySheet("widget", months, values)

	res, msg := ForecastCluster(sheet, NewHolt(), Request{
		ClusterCol: "Product_cluster",
		ItemName:   "widget",
		ValueCol:   "Quantity",
		DateCol:    "Month",
	})
	assert.Nil(t, res)
	assert.Equal(t, "Not enough monthly data to reliably forecast. Please ensure at least 6 data points.", msg)
}

func TestForecastClusterGapFilling(t *testing.T) {
	// Jan and Jun observed: interior months count as zero, so the
	// zero-filled series reaches the six-point minimum.
	months := []string{"jan--2021", "jun--2021"}
	values := []float64{100, 200}
	sheet := monthlySheet("widget", months, values)

	res, msg := ForecastCluster(sheet, NewHolt(), Request{
		ClusterCol: "Product_cluster",
		ItemName:   "widget",
		ValueCol:   "Quantity",
		DateCol:    "Month",
	})
	require.NotNil(t, res, msg)
	require.Len(t, res.History, 6)
	assert.Equal(t, []float64{100, 0, 0, 0, 0, 200}, res.History)
}

func TestForecastClusterMonthlySums(t *testing.T) {
	t1 := monthlySheet("widget",
		[]string{"jan--2021", "jan--2021", "feb--2021", "mar--2021", "apr--2021", "may--2021", "jun--2021"},
		[]float64{10, 15, 20, 30, 40, 50, 60})

	res, msg := ForecastCluster(t1, NewHolt(), Request{
		ClusterCol: "Product_cluster",
		ItemName:   "widget",
		ValueCol:   "Quantity",
		DateCol:    "Month",
	})
	require.NotNil(t, res, msg)
	assert.Equal(t, 25.0, res.History[0], "same-month rows sum")
}

func TestForecastClusterFiltersByItem(t *testing.T) {
	sheet := monthlySheet("other",
		[]string{"jan--2021", "feb--2021", "mar--2021", "apr--2021", "may--2021", "jun--2021"},
		[]float64{1, 2, 3, 4, 5, 6})

	res, msg := ForecastCluster(sheet, NewHolt(), Request{
		ClusterCol: "Product_cluster",
		ItemName:   "widget",
		ValueCol:   "Quantity",
		DateCol:    "Month",
	})
	assert.Nil(t, res)
	assert.Equal(t, "Not enough monthly data to reliably forecast. Please ensure at least 6 data points.", msg)
}

func TestForecastClusterMissingColumns(t *testing.T) {
	res, msg := ForecastCluster(table.New("A"), NewHolt(), Request{
		ClusterCol: "Product_cluster",
		ItemName:   "widget",
		ValueCol:   "Quantity",
		DateCol:    "Month",
	})
	assert.Nil(t, res)
	assert.Equal(t, "Required columns not found", msg)
}

type panickyForecaster struct{}

func (panickyForecaster) Fit([]float64) (Model, error) { panic("model blew up") }

func TestForecastClusterRecoversPanic(t *testing.T) {
	months := []string{"jan--2021", "feb--2021", "mar--2021", "apr--2021", "may--2021", "jun--2021"}
	values := []float64{1, 2, 3, 4, 5, 6}
	sheet := monthlySheet("widget", months, values)

	res, msg := ForecastCluster(sheet, panickyForecaster{}, Request{
		ClusterCol: "Product_cluster",
		ItemName:   "widget",
		ValueCol:   "Quantity",
		DateCol:    "Month",
	})
	assert.Nil(t, res)
	assert.Equal(t, "Forecast error: model blew up", msg)
}

func TestHoltLinearSeries(t *testing.T) {
	series := []float64{10, 20, 30, 40, 50}
	m, err := NewHolt().Fit(series)
	require.NoError(t, err)

	pred := m.Predict(3)
	require.Len(t, pred, 3)
	for i := 1; i < len(pred); i++ {
		assert.Greater(t, pred[i], pred[i-1], "projection continues upward")
	}
	assert.Greater(t, pred[0], series[len(series)-1])
}

func TestHoltErrors(t *testing.T) {
	_, err := NewHolt().Fit([]float64{1})
	assert.Error(t, err)

	_, err = Holt{Alpha: 0, Beta: 0.3}.Fit([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestRenderPNG(t *testing.T) {
	base := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	res := &Result{Trend: "📈 Increasing trend in forecasted values."}
	for i := 0; i < 6; i++ {
		res.HistoryMonths = append(res.HistoryMonths, base.AddDate(0, i, 0))
		res.History = append(res.History, float64(10*(i+1)))
	}
	for i := 0; i < 3; i++ {
		res.ForecastMonths = append(res.ForecastMonths, base.AddDate(0, 6+i, 0))
		res.Forecast = append(res.Forecast, float64(70+10*i))
	}

	png, err := RenderPNG(res, fmt.Sprintf("Quantity Forecast for %s", "widget"))
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestRenderPNGNilResult(t *testing.T) {
	_, err := RenderPNG(nil, "title")
	assert.Error(t, err)
}
