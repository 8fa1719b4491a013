package chartexport

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func structured(kind string) *analysis.ChartResult {
	return &analysis.ChartResult{
		Success: true,
		Type:    kind,
		Data: &analysis.ChartData{
			Labels: []string{"Jan", "Feb", "Mar", "Apr"},
			Datasets: []analysis.ChartDataset{
				{Label: "Revenue", Data: []float64{120, 150, 90, 180}},
				{Label: "Cost", Data: []float64{80, 95, 70, 110}},
			},
		},
		Metadata: &analysis.ChartMetadata{Title: "Monthly revenue", XLabel: "Month", YLabel: "USD"},
	}
}

func TestExportImageVerbatim(t *testing.T) {
	raw := []byte("not really a png")
	res := &analysis.ChartResult{Success: true, ChartImage: base64.StdEncoding.EncodeToString(raw)}

	var buf bytes.Buffer
	require.NoError(t, Export(res, &buf))
	assert.Equal(t, raw, buf.Bytes())
}

func TestExportStructured(t *testing.T) {
	for _, kind := range []string{"bar", "line", "scatter", "pie", "doughnut"} {
		t.Run(kind, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Export(structured(kind), &buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "output is a PNG")
		})
	}
}

func TestExportSinglePointLine(t *testing.T) {
	for _, typ := range []string{"line", "scatter"} {
		t.Run(typ, func(t *testing.T) {
			res := &analysis.ChartResult{
				Type: typ,
				Data: &analysis.ChartData{
					Labels:   []string{"Jan"},
					Datasets: []analysis.ChartDataset{{Label: "Revenue", Data: []float64{42}}},
				},
			}
			var buf bytes.Buffer
			require.NoError(t, Export(res, &buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestExportErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Export(&analysis.ChartResult{Success: true}, &buf), ErrNoChart)
	assert.ErrorIs(t, Export(nil, &buf), ErrNoChart)
	assert.ErrorIs(t, Export(&analysis.ChartResult{Type: "bar", Data: &analysis.ChartData{}}, &buf), ErrNoChart)
	assert.ErrorIs(t, Export(structured("radar"), &buf), ErrUnsupportedType)
	assert.Error(t, Export(&analysis.ChartResult{ChartImage: "!!!"}, &buf))
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "chart.png")
	require.NoError(t, ExportFile(structured("bar"), path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngMagic))

	bad := filepath.Join(dir, "bad.png")
	assert.Error(t, ExportFile(structured("radar"), bad))
	_, err = os.Stat(bad)
	assert.True(t, os.IsNotExist(err), "failed export leaves no file")
}
