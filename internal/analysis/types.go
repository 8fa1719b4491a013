// Package analysis is the client for the remote analysis service that parses
// uploaded datasets, generates charts and answers questions about the data.
package analysis

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Record is one sample row keyed by column name.
type Record map[string]any

// DatasetDescriptor is the service's summary of an uploaded table. It is
// immutable once decoded; a new upload replaces it wholesale.
type DatasetDescriptor struct {
	Columns     []string `json:"columns"`
	RowCount    int      `json:"row_count"`
	ColumnCount int      `json:"column_count"`
	SampleData  []Record `json:"sample_data"`
}

// DatasetContext is the part of a descriptor sent along with chat messages.
type DatasetContext struct {
	Columns    []string `json:"columns"`
	SampleData []Record `json:"sample_data"`
}

// Context returns a copy of the columns and sample rows of d. The rows are
// copied one level deep so later edits to the snapshot never reach d.
func (d *DatasetDescriptor) Context() *DatasetContext {
	if d == nil {
		return nil
	}
	ctx := &DatasetContext{
		Columns:    append([]string(nil), d.Columns...),
		SampleData: make([]Record, len(d.SampleData)),
	}
	for i, row := range d.SampleData {
		cp := make(Record, len(row))
		for k, v := range row {
			cp[k] = v
		}
		ctx.SampleData[i] = cp
	}
	return ctx
}

// ChartRequest asks the service for a chart of the current dataset.
type ChartRequest struct {
	Prompt      string             `json:"prompt"`
	DatasetInfo *DatasetDescriptor `json:"datasetInfo"`
}

// ChartKind classifies the payload of a chart result.
type ChartKind int

const (
	ChartEmpty ChartKind = iota
	ChartImage
	ChartStructured
)

// ChartDataset is one series of a structured chart.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData is the series payload of a structured chart.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartMetadata labels a structured chart.
type ChartMetadata struct {
	Title  string `json:"title,omitempty"`
	XLabel string `json:"xLabel,omitempty"`
	YLabel string `json:"yLabel,omitempty"`
}

// ChartResult is the response to a chart request.
type ChartResult struct {
	Success    bool           `json:"success"`
	ChartImage string         `json:"chart_image,omitempty"`
	Type       string         `json:"type,omitempty"`
	Data       *ChartData     `json:"data,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
	Metadata   *ChartMetadata `json:"metadata,omitempty"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Kind reports which payload the result carries.
func (r *ChartResult) Kind() ChartKind {
	switch {
	case r == nil:
		return ChartEmpty
	case r.ChartImage != "":
		return ChartImage
	case r.Type != "" || r.Data != nil:
		return ChartStructured
	default:
		return ChartEmpty
	}
}

// Image decodes the base64 chart image.
func (r *ChartResult) Image() ([]byte, error) {
	if r == nil || r.ChartImage == "" {
		return nil, fmt.Errorf("chart result has no image")
	}
	b, err := base64.StdEncoding.DecodeString(r.ChartImage)
	if err != nil {
		return nil, fmt.Errorf("decode chart image: %w", err)
	}
	return b, nil
}

// ChatRequest sends one message with the dataset context, or null context
// when no dataset is loaded.
type ChatRequest struct {
	Message     string          `json:"message"`
	DatasetInfo *DatasetContext `json:"datasetInfo"`
}

type chatResponse struct {
	Message *string `json:"message"`
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}
