package forecast

import "fmt"

// Forecaster fits a model to an evenly spaced monthly series.
type Forecaster interface {
	Fit(series []float64) (Model, error)
}

// Model projects fitted values forward.
type Model interface {
	Predict(horizon int) []float64
}

// Holt is double exponential smoothing with an additive linear trend.
// Alpha smooths the level, Beta the trend; both must lie in (0, 1].
type Holt struct {
	Alpha float64
	Beta  float64
}

// NewHolt returns a Holt forecaster with commonly used smoothing weights.
func NewHolt() Holt {
	return Holt{Alpha: 0.5, Beta: 0.3}
}

func (h Holt) Fit(series []float64) (Model, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("holt: need at least 2 points, got %d", len(series))
	}
	if h.Alpha <= 0 || h.Alpha > 1 || h.Beta <= 0 || h.Beta > 1 {
		return nil, fmt.Errorf("holt: smoothing weights must be in (0, 1], got alpha=%v beta=%v", h.Alpha, h.Beta)
	}

	level := series[0]
	trend := series[1] - series[0]
	for _, y := range series[1:] {
		prevLevel := level
		level = h.Alpha*y + (1-h.Alpha)*(level+trend)
		trend = h.Beta*(level-prevLevel) + (1-h.Beta)*trend
	}
	return holtModel{level: level, trend: trend}, nil
}

type holtModel struct {
	level float64
	trend float64
}

func (m holtModel) Predict(horizon int) []float64 {
	out := make([]float64, 0, horizon)
	for i := 1; i <= horizon; i++ {
		out = append(out, m.level+float64(i)*m.trend)
	}
	return out
}
