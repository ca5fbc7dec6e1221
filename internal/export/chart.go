package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/rshade/ecofocus/internal/engine"
)

// Chart dimensions.
const (
	ChartWidth  = 8 * vg.Inch
	ChartHeight = 4 * vg.Inch
)

// ErrEmptyChart is returned when there is nothing to plot.
var ErrEmptyChart = errors.New("no history to chart")

//nolint:gochecknoglobals // Palette.
var (
	historyColor  = color.RGBA{R: 46, G: 125, B: 50, A: 255}
	forecastColor = color.RGBA{R: 230, G: 81, B: 0, A: 255}
)

// ForecastChart plots the daily totals of fc.History as a solid line with
// markers and the projection as a dashed line continuing from the last day.
func ForecastChart(fc engine.ForecastResult) (*plot.Plot, error) {
	if len(fc.History) == 0 {
		return nil, ErrEmptyChart
	}

	p := plot.New()
	p.Title.Text = "Daily carbon footprint"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "kg CO2"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02"}
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	hist := make(plotter.XYs, len(fc.History))
	for i, r := range fc.History {
		hist[i].X = float64(r.Date.Unix())
		hist[i].Y = r.Total
	}
	line, points, err := plotter.NewLinePoints(hist)
	if err != nil {
		return nil, fmt.Errorf("history line: %w", err)
	}
	line.Color = historyColor
	line.Width = vg.Points(2)
	points.Color = historyColor
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(2)
	p.Add(line, points)
	p.Legend.Add("history", line, points)

	if n := min(len(fc.Dates), len(fc.Projected)); n > 0 {
		proj := make(plotter.XYs, 0, n+1)
		proj = append(proj, hist[len(hist)-1])
		for i := range n {
			proj = append(proj, plotter.XY{X: float64(fc.Dates[i].Unix()), Y: fc.Projected[i]})
		}
		fl, err := plotter.NewLine(proj)
		if err != nil {
			return nil, fmt.Errorf("forecast line: %w", err)
		}
		fl.Color = forecastColor
		fl.Width = vg.Points(2)
		fl.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(fl)
		p.Legend.Add("forecast", fl)
	}
	p.Legend.Top = true
	return p, nil
}

// WriteChartPNG renders ForecastChart(fc) as a PNG image.
func WriteChartPNG(w io.Writer, fc engine.ForecastResult) error {
	p, err := ForecastChart(fc)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(ChartWidth, ChartHeight, "png")
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}

// SaveChart writes the chart to path; the format follows the extension
// (png, svg, pdf, ...).
func SaveChart(path string, fc engine.ForecastResult) error {
	p, err := ForecastChart(fc)
	if err != nil {
		return err
	}
	return p.Save(ChartWidth, ChartHeight, path)
}
