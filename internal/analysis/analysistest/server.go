// Package analysistest runs an in-process stand-in for the analysis service.
package analysistest

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/labstack/echo/v4"
)

const sampleRows = 5

// ChartImage is the base64 PNG returned for every successful image chart.
var ChartImage = base64.StdEncoding.EncodeToString(pixelPNG)

// 1x1 transparent PNG.
var pixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// Upload records one multipart upload the server received.
type Upload struct {
	Filename    string
	ContentType string
	Size        int
}

type override struct {
	status int
	body   string
}

// Server is an httptest server speaking the analysis service protocol.
//
// Uploads of CSV files are parsed for real. Chart prompts containing "fail"
// produce success:false, prompts containing "structured" produce a bar chart
// payload, anything else an image. Chat replies echo the message.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	uploads   []Upload
	charts    []analysis.ChartRequest
	chats     []analysis.ChatRequest
	overrides map[string]override
	gates     map[string]chan struct{}
}

// NewServer starts a server. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		overrides: make(map[string]override),
		gates:     make(map[string]chan struct{}),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.intercept)
	e.POST("/upload", s.handleUpload)
	e.POST("/generate-chart", s.handleChart)
	e.POST("/chat", s.handleChat)

	s.Server = httptest.NewServer(e)
	return s
}

// Respond makes every later request to path answer with status and a raw
// body instead of the normal handler.
func (s *Server) Respond(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = override{status: status, body: body}
}

// Hold blocks requests to path until the returned function is called.
func (s *Server) Hold(path string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates[path] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, path)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Uploads returns the uploads received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// ChartRequests returns the chart requests received so far.
func (s *Server) ChartRequests() []analysis.ChartRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]analysis.ChartRequest(nil), s.charts...)
}

// ChatRequests returns the chat requests received so far.
func (s *Server) ChatRequests() []analysis.ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]analysis.ChatRequest(nil), s.chats...)
}

func (s *Server) intercept(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		s.mu.Lock()
		gate := s.gates[path]
		s.mu.Unlock()
		if gate != nil {
			select {
			case <-gate:
			case <-c.Request().Context().Done():
				return c.Request().Context().Err()
			}
		}

		s.mu.Lock()
		o, ok := s.overrides[path]
		s.mu.Unlock()
		if !ok {
			return next(c)
		}
		return c.Blob(o.status, echo.MIMEApplicationJSON, []byte(o.body))
	}
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

func (s *Server) handleUpload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return detail(c, http.StatusBadRequest, "No file provided")
	}
	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        int(file.Size),
	})
	s.mu.Unlock()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".csv":
	case ".xlsx", ".xls":
		return detail(c, http.StatusInternalServerError, "Error processing file: spreadsheet parsing is unavailable")
	default:
		return detail(c, http.StatusBadRequest, "File must be CSV or Excel format")
	}

	src, err := file.Open()
	if err != nil {
		return detail(c, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
	}
	defer src.Close()

	rows, err := csv.NewReader(src).ReadAll()
	if err != nil || len(rows) == 0 {
		return detail(c, http.StatusInternalServerError, "Error processing file: no columns to parse from file")
	}
	columns := rows[0]
	body := rows[1:]

	sample := make([]analysis.Record, 0, sampleRows)
	for _, row := range body {
		if len(sample) == sampleRows {
			break
		}
		rec := make(analysis.Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = cell(row[i])
			}
		}
		sample = append(sample, rec)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":      "File uploaded successfully",
		"columns":      columns,
		"row_count":    len(body),
		"column_count": len(columns),
		"sample_data":  sample,
	})
}

func cell(v string) any {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

func (s *Server) handleChart(c echo.Context) error {
	var req analysis.ChartRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusUnprocessableEntity, "Invalid request body")
	}
	s.mu.Lock()
	s.charts = append(s.charts, req)
	s.mu.Unlock()

	if req.DatasetInfo == nil {
		return detail(c, http.StatusBadRequest, "No data uploaded. Please upload a file first.")
	}

	prompt := strings.ToLower(req.Prompt)
	switch {
	case strings.Contains(prompt, "fail"):
		return c.JSON(http.StatusOK, analysis.ChartResult{
			Success: false,
			Error:   "Could not build a chart for that request",
		})
	case strings.Contains(prompt, "structured"):
		return c.JSON(http.StatusOK, structuredChart(req))
	default:
		return c.JSON(http.StatusOK, analysis.ChartResult{
			Success:    true,
			ChartImage: ChartImage,
			Message:    "Chart generated successfully",
		})
	}
}

// structuredChart builds a bar chart of the first numeric column against the
// first column of the sample rows.
func structuredChart(req analysis.ChartRequest) analysis.ChartResult {
	info := req.DatasetInfo
	data := &analysis.ChartData{}
	var label, value string
	if len(info.Columns) > 0 {
		label = info.Columns[0]
	}
	for _, col := range info.Columns {
		if len(info.SampleData) > 0 {
			if _, ok := info.SampleData[0][col].(float64); ok {
				value = col
				break
			}
		}
	}
	ds := analysis.ChartDataset{Label: value}
	for _, row := range info.SampleData {
		data.Labels = append(data.Labels, fmt.Sprint(row[label]))
		f, _ := row[value].(float64)
		ds.Data = append(ds.Data, f)
	}
	data.Datasets = []analysis.ChartDataset{ds}

	return analysis.ChartResult{
		Success: true,
		Type:    "bar",
		Data:    data,
		Metadata: &analysis.ChartMetadata{
			Title:  req.Prompt,
			XLabel: label,
			YLabel: value,
		},
	}
}

func (s *Server) handleChat(c echo.Context) error {
	var req analysis.ChatRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusUnprocessableEntity, "Invalid request body")
	}
	s.mu.Lock()
	s.chats = append(s.chats, req)
	s.mu.Unlock()

	if req.DatasetInfo == nil {
		return detail(c, http.StatusBadRequest, "No data uploaded. Please upload a file first.")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Echo: " + req.Message,
	})
}
