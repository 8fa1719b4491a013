package components

import (
	"bytes"
	"fmt"
	"image/png"
	"math"
	"strings"

	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/interpretive-systems/futuresight/internal/session"
	"github.com/interpretive-systems/futuresight/internal/theme"
	tansi "github.com/interpretive-systems/futuresight/internal/tui/ansi"
)

// ChartView renders a chart result as text: a summary of an image chart, or
// the type, axis labels and horizontal bars of a structured chart.
type ChartView struct {
	result   *analysis.ChartResult
	status   *session.Status
	busy     string
	expanded bool
}

// NewChartView creates an empty chart view.
func NewChartView() *ChartView {
	return &ChartView{}
}

// SetResult sets the chart to show.
func (c *ChartView) SetResult(r *analysis.ChartResult) { c.result = r }

// SetStatus sets the outcome line of the last request.
func (c *ChartView) SetStatus(s *session.Status) { c.status = s }

// SetBusy sets the in-progress line; empty when idle.
func (c *ChartView) SetBusy(s string) { c.busy = s }

// SetExpanded switches between the compact and expanded panel.
func (c *ChartView) SetExpanded(v bool) { c.expanded = v }

// Render renders at most height lines of the given width.
func (c *ChartView) Render(width, height int, th theme.Theme) []string {
	var lines []string
	if c.busy != "" {
		lines = append(lines, th.Accent(c.busy))
	}
	if c.status != nil {
		lines = append(lines, th.Status(c.status.Success, c.status.Message))
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}

	switch c.result.Kind() {
	case analysis.ChartImage:
		lines = append(lines, c.imageLines(th)...)
	case analysis.ChartStructured:
		lines = append(lines, c.structuredLines(width, th)...)
	default:
		lines = append(lines, th.Muted("No chart yet. Generate one from the dashboard."))
	}

	for i, l := range lines {
		lines[i] = tansi.TruncateToWidth(l, width)
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return lines
}

func (c *ChartView) imageLines(th theme.Theme) []string {
	img, err := c.result.Image()
	if err != nil {
		return []string{th.ErrorText("Chart image could not be decoded")}
	}
	desc := fmt.Sprintf("%.1f KB", float64(len(img))/1024)
	if cfg, err := png.DecodeConfig(bytes.NewReader(img)); err == nil {
		desc = fmt.Sprintf("%dx%d PNG, %s", cfg.Width, cfg.Height, desc)
	}
	lines := []string{th.Title("Generated chart"), "🖼  " + desc}
	if c.result.Message != "" {
		lines = append(lines, th.Muted(c.result.Message))
	}
	return append(lines, th.Muted("ctrl+x exports the image"))
}

func (c *ChartView) structuredLines(width int, th theme.Theme) []string {
	r := c.result
	title := "Chart"
	var xLabel, yLabel string
	if r.Metadata != nil {
		if r.Metadata.Title != "" {
			title = r.Metadata.Title
		}
		xLabel, yLabel = r.Metadata.XLabel, r.Metadata.YLabel
	}
	kind := r.Type
	if kind == "" {
		kind = "unknown"
	}
	lines := []string{
		th.Title(title),
		fmt.Sprintf("Chart type: %s", kind),
	}
	if xLabel != "" {
		lines = append(lines, fmt.Sprintf("X-axis: %s", xLabel))
	}
	if yLabel != "" {
		lines = append(lines, fmt.Sprintf("Y-axis: %s", yLabel))
	}
	if r.Data == nil || len(r.Data.Datasets) == 0 {
		return lines
	}

	ds := r.Data.Datasets[0]
	limit := len(ds.Data)
	if !c.expanded && limit > 8 {
		limit = 8
	}
	lines = append(lines, "")
	if ds.Label != "" {
		lines = append(lines, th.Muted(ds.Label))
	}
	lines = append(lines, Bars(r.Data.Labels, ds.Data[:limit], width, th)...)
	if limit < len(ds.Data) {
		lines = append(lines, th.Muted(fmt.Sprintf("… %d more (ctrl+e expands)", len(ds.Data)-limit)))
	}
	return lines
}

// Bars draws one horizontal bar per value, scaled to the largest magnitude.
func Bars(labels []string, values []float64, width int, th theme.Theme) []string {
	labelW := 0
	for i := range values {
		if w := tansi.VisualWidth(barLabel(labels, i)); w > labelW {
			labelW = w
		}
	}
	if labelW > width/3 {
		labelW = width / 3
	}
	maxV := 0.0
	for _, v := range values {
		maxV = math.Max(maxV, math.Abs(v))
	}

	lines := make([]string, 0, len(values))
	for i, v := range values {
		val := formatValue(v)
		barW := width - labelW - len(val) - 3
		if barW < 1 {
			barW = 1
		}
		n := 0
		if maxV > 0 {
			n = int(math.Round(math.Abs(v) / maxV * float64(barW)))
		}
		label := tansi.PadExact(barLabel(labels, i), labelW)
		lines = append(lines, fmt.Sprintf("%s %s %s", label, th.Bar(strings.Repeat("█", n)), val))
	}
	return lines
}

func barLabel(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprint(i + 1)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
