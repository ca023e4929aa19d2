package forecast

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	historicalColor = color.RGBA{G: 0x80, A: 0xff}
	forecastColor   = color.RGBA{R: 0xc0, A: 0xff}
)

// RenderPNG draws the historical series in green and the projection in red
// on a shared monthly time axis and returns the encoded PNG.
func RenderPNG(res *Result, title string) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("render: nil forecast result")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Quantity"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true

	hist, err := plotter.NewLine(timeXYs(res.HistoryMonths, res.History))
	if err != nil {
		return nil, fmt.Errorf("render historical line: %w", err)
	}
	hist.Color = historicalColor
	p.Add(hist)
	p.Legend.Add("Historical", hist)

	fc, err := plotter.NewLine(timeXYs(res.ForecastMonths, res.Forecast))
	if err != nil {
		return nil, fmt.Errorf("render forecast line: %w", err)
	}
	fc.Color = forecastColor
	p.Add(fc)
	p.Legend.Add("Forecast", fc)

	w, err := p.WriterTo(12*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("encode plot: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write plot: %w", err)
	}
	return buf.Bytes(), nil
}

func timeXYs(months []time.Time, values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(months[i].Unix())
		pts[i].Y = v
	}
	return pts
}
