// Package chartexport writes chart results to PNG files.
package chartexport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 1024
	defaultHeight = 576
)

var (
	// ErrNoChart is returned for results that carry neither an image nor data.
	ErrNoChart = errors.New("chart result has nothing to export")
	// ErrUnsupportedType is returned for structured charts of unknown type.
	ErrUnsupportedType = errors.New("unsupported chart type")
)

var seriesColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorRed,
	chart.ColorCyan,
	chart.ColorAlternateGray,
}

// Export writes res as a PNG. Image results are written verbatim; structured
// results are rendered.
func Export(res *analysis.ChartResult, w io.Writer) error {
	switch res.Kind() {
	case analysis.ChartImage:
		img, err := res.Image()
		if err != nil {
			return err
		}
		_, err = w.Write(img)
		return err
	case analysis.ChartStructured:
		return render(res, w)
	default:
		return ErrNoChart
	}
}

// ExportFile renders res into a buffer first so a failed render leaves no
// partial file at path.
func ExportFile(res *analysis.ChartResult, path string) error {
	var buf bytes.Buffer
	if err := Export(res, &buf); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func render(res *analysis.ChartResult, w io.Writer) error {
	if res.Data == nil || len(res.Data.Datasets) == 0 {
		return ErrNoChart
	}
	meta := analysis.ChartMetadata{}
	if res.Metadata != nil {
		meta = *res.Metadata
	}

	switch strings.ToLower(res.Type) {
	case "bar", "":
		return barChart(res.Data, meta).Render(chart.PNG, w)
	case "line":
		return lineChart(res.Data, meta, false).Render(chart.PNG, w)
	case "scatter":
		return lineChart(res.Data, meta, true).Render(chart.PNG, w)
	case "pie":
		return chart.PieChart{
			Title:  meta.Title,
			Width:  defaultHeight,
			Height: defaultHeight,
			Values: sliceValues(res.Data),
		}.Render(chart.PNG, w)
	case "doughnut", "donut":
		return chart.DonutChart{
			Title:  meta.Title,
			Width:  defaultHeight,
			Height: defaultHeight,
			Values: sliceValues(res.Data),
		}.Render(chart.PNG, w)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedType, res.Type)
	}
}

func label(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprint(i + 1)
}

// barChart draws the first dataset.
func barChart(data *analysis.ChartData, meta analysis.ChartMetadata) chart.BarChart {
	ds := data.Datasets[0]
	bars := make([]chart.Value, 0, len(ds.Data))
	for i, v := range ds.Data {
		bars = append(bars, chart.Value{Label: label(data.Labels, i), Value: v})
	}
	return chart.BarChart{
		Title:    meta.Title,
		Width:    defaultWidth,
		Height:   defaultHeight,
		BarWidth: 40,
		XAxis:    chart.Shown(),
		YAxis:    chart.YAxis{Name: meta.YLabel, Style: chart.Shown()},
		Bars:     bars,
	}
}

// lineChart draws every dataset against the label index. Scatter charts get
// dots and no connecting lines.
func lineChart(data *analysis.ChartData, meta analysis.ChartMetadata, scatter bool) chart.Chart {
	// Explicit ticks set the x range, so a lone label would collapse it.
	var ticks []chart.Tick
	if len(data.Labels) > 1 {
		for i, l := range data.Labels {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
		}
	}

	series := make([]chart.Series, 0, len(data.Datasets))
	for i, ds := range data.Datasets {
		col := seriesColors[i%len(seriesColors)]
		st := chart.Style{StrokeColor: col, StrokeWidth: 2}
		if scatter {
			st = chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4, DotColor: col}
		}
		xs := make([]float64, len(ds.Data))
		for j := range ds.Data {
			xs[j] = float64(j)
		}
		ys := ds.Data
		// A single point has a zero x range and does not render.
		if len(xs) == 1 {
			xs = []float64{xs[0], xs[0] + 1}
			ys = []float64{ys[0], ys[0]}
		}
		series = append(series, chart.ContinuousSeries{Name: ds.Label, Style: st, XValues: xs, YValues: ys})
	}

	c := chart.Chart{
		Title:      meta.Title,
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: meta.XLabel, Ticks: ticks},
		YAxis:      chart.YAxis{Name: meta.YLabel},
		Series:     series,
	}
	if lo, hi, ok := yBounds(data); ok && lo == hi {
		c.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	if len(series) > 1 {
		c.Elements = []chart.Renderable{chart.Legend(&c)}
	}
	return c
}

func yBounds(data *analysis.ChartData) (lo, hi float64, ok bool) {
	for _, ds := range data.Datasets {
		for _, v := range ds.Data {
			if !ok || v < lo {
				lo = v
			}
			if !ok || v > hi {
				hi = v
			}
			ok = true
		}
	}
	return lo, hi, ok
}

// sliceValues maps the first dataset onto pie slices.
func sliceValues(data *analysis.ChartData) []chart.Value {
	ds := data.Datasets[0]
	values := make([]chart.Value, 0, len(ds.Data))
	for i, v := range ds.Data {
		values = append(values, chart.Value{Label: label(data.Labels, i), Value: v})
	}
	return values
}
