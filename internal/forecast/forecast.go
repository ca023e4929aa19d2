package forecast

import (
	"fmt"
	"time"

	"tradelens/internal/analysis"
	"tradelens/internal/table"
)

// DefaultHorizon is how many months ahead a forecast projects.
const DefaultHorizon = 12

// minMonthlyPoints is the smallest history a forecast will be fit on.
const minMonthlyPoints = 6

// Request selects the slice of a sheet to forecast.
type Request struct {
	ClusterCol string
	ItemName   string
	ValueCol   string
	DateCol    string
	Horizon    int
}

// Result is the monthly history alongside the projection.
type Result struct {
	HistoryMonths  []time.Time
	History        []float64
	ForecastMonths []time.Time
	Forecast       []float64
	Trend          string
}

// ForecastCluster sums the value column per calendar month for rows matching
// the selected cluster, fills interior month gaps with zero, fits the given
// model, and projects it forward. It is fail-soft: any failure, including a
// panic inside the model, comes back as a message with a nil result.
func ForecastCluster(t *table.Table, f Forecaster, req Request) (res *Result, msg string) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			msg = fmt.Sprintf("Forecast error: %v", r)
		}
	}()

	if t == nil || !t.HasColumn(req.ClusterCol) || !t.HasColumn(req.ValueCol) || !t.HasColumn(req.DateCol) {
		return nil, "Required columns not found"
	}
	if req.Horizon <= 0 {
		req.Horizon = DefaultHorizon
	}

	months, series := monthlySums(t, req)
	if len(series) < minMonthlyPoints {
		return nil, "Not enough monthly data to reliably forecast. Please ensure at least 6 data points."
	}

	model, err := f.Fit(series)
	if err != nil {
		return nil, fmt.Sprintf("Forecast error: %v", err)
	}
	predicted := model.Predict(req.Horizon)

	last := months[len(months)-1]
	forecastMonths := make([]time.Time, 0, len(predicted))
	for i := range predicted {
		forecastMonths = append(forecastMonths, last.AddDate(0, i+1, 0))
	}

	return &Result{
		HistoryMonths:  months,
		History:        series,
		ForecastMonths: forecastMonths,
		Forecast:       predicted,
		Trend:          describeTrend(predicted),
	}, "Analysis completed successfully"
}

// monthlySums buckets matching rows by calendar month and returns a
// contiguous series from the earliest to the latest month, zero-filled.
func monthlySums(t *table.Table, req Request) ([]time.Time, []float64) {
	sums := make(map[time.Time]float64)
	var minMonth, maxMonth time.Time
	for i := 0; i < t.Len(); i++ {
		if t.Cell(i, req.ClusterCol).String() != req.ItemName {
			continue
		}
		d, ok := analysis.ParseDate(t.Cell(i, req.DateCol).String())
		if !ok {
			continue
		}
		v, ok := t.Cell(i, req.ValueCol).Float()
		if !ok {
			continue
		}
		m := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		sums[m] += v
		if minMonth.IsZero() || m.Before(minMonth) {
			minMonth = m
		}
		if maxMonth.IsZero() || m.After(maxMonth) {
			maxMonth = m
		}
	}
	if len(sums) == 0 {
		return nil, nil
	}

	var months []time.Time
	var series []float64
	for m := minMonth; !m.After(maxMonth); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
		series = append(series, sums[m])
	}
	return months, series
}

// describeTrend classifies a projection by the mean of its successive
// differences.
func describeTrend(series []float64) string {
	if len(series) < 2 {
		return "⚖️ No significant trend detected in forecast."
	}
	var total float64
	for i := 1; i < len(series); i++ {
		total += series[i] - series[i-1]
	}
	mean := total / float64(len(series)-1)
	switch {
	case mean > 0:
		return "📈 Increasing trend in forecasted values."
	case mean < 0:
		return "📉 Decreasing trend in forecasted values."
	default:
		return "⚖️ No significant trend detected in forecast."
	}
}
