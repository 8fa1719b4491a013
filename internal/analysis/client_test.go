package analysis_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/interpretive-systems/futuresight/internal/analysis/analysistest"
	"github.com/interpretive-systems/futuresight/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func salesCSV(rows int) string {
	var b strings.Builder
	b.WriteString("Date,Region,Product,Revenue\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "2024-%02d-01,North,Widget,%d\n", i%12+1, 100+i)
	}
	return b.String()
}

func newClient(t *testing.T, srv *analysistest.Server) *analysis.Client {
	t.Helper()
	return analysis.NewClient(srv.URL+"/", 0, zap.NewNop())
}

func TestUploadDecodesDescriptor(t *testing.T) {
	srv := analysistest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)

	desc, err := c.Upload(context.Background(), "sales.csv", "text/csv", strings.NewReader(salesCSV(200)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Region", "Product", "Revenue"}, desc.Columns)
	assert.Equal(t, 200, desc.RowCount)
	assert.Equal(t, 4, desc.ColumnCount)
	require.Len(t, desc.SampleData, 5)
	assert.Equal(t, "North", desc.SampleData[0]["Region"])
	assert.Equal(t, float64(100), desc.SampleData[0]["Revenue"])

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "sales.csv", uploads[0].Filename)
	assert.Equal(t, "text/csv", uploads[0].ContentType)
}

func TestUploadServerDetail(t *testing.T) {
	srv := analysistest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)

	_, err := c.Upload(context.Background(), "notes.txt", "text/plain", strings.NewReader("hello"))
	require.Error(t, err)
	assert.True(t, apperrors.IsServerLogic(err))
	assert.False(t, apperrors.IsTransport(err))
	assert.Equal(t, "File must be CSV or Excel format", apperrors.UserMessage(err, "generic"))
}

func TestUploadMissingColumnsIsServerLogic(t *testing.T) {
	srv := analysistest.NewServer()
	defer srv.Close()
	srv.Respond("/upload", http.StatusOK, `{"row_count": 3}`)
	c := newClient(t, srv)

	_, err := c.Upload(context.Background(), "sales.csv", "text/csv", strings.NewReader("a\n1\n"))
	require.Error(t, err)
	assert.True(t, apperrors.IsServerLogic(err))
	assert.Equal(t, "generic", apperrors.UserMessage(err, "generic"))
}

func TestNon2xxWithoutDetailIsTransport(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "html body", body: "<html>bad gateway</html>"},
		{name: "json without detail", body: `{"error": "nope"}`},
		{name: "empty detail", body: `{"detail": ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := analysistest.NewServer()
			defer srv.Close()
			srv.Respond("/chat", http.StatusBadGateway, tt.body)
			c := newClient(t, srv)

			_, err := c.Chat(context.Background(), analysis.ChatRequest{Message: "hi"})
			require.Error(t, err)
			assert.True(t, apperrors.IsTransport(err))
			var te *analysis.TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, http.StatusBadGateway, te.StatusCode)
		})
	}
}

func TestValidationDetailList(t *testing.T) {
	srv := analysistest.NewServer()
	defer srv.Close()
	srv.Respond("/generate-chart", http.StatusUnprocessableEntity,
		`{"detail":[{"loc":["body","prompt"],"msg":"field required","type":"value_error.missing"}]}`)
	c := newClient(t, srv)

	_, err := c.GenerateChart(context.Background(), analysis.ChartRequest{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsServerLogic(err))
	assert.Equal(t, "field required", apperrors.UserMessage(err, "generic"))
}

func TestUnreachableIsTransport(t *testing.T) {
	srv := analysistest.NewServer()
	url := srv.URL
	srv.Close()

	c := analysis.NewClient(url, 0, nil)
	_, err := c.Chat(context.Background(), analysis.ChatRequest{Message: "hi"})
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	assert.Equal(t, "generic", apperrors.UserMessage(err, "generic"))
}

func TestGenerateChart(t *testing.T) {
	srv := analysistest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)

	desc := &analysis.DatasetDescriptor{
		Columns:     []string{"Month", "Revenue"},
		RowCount:    2,
		ColumnCount: 2,
		SampleData: []analysis.Record{
			{"Month": "Jan", "Revenue": 10.0},
			{"Month": "Feb", "Revenue": 12.5},
		},
	}

	res, err := c.GenerateChart(context.Background(), analysis.ChartRequest{Prompt: "Show monthly sales trend as a bar chart", DatasetInfo: desc})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, analysis.ChartImage, res.Kind())
	img, err := res.Image()
	require.NoError(t, err)
	assert.NotEmpty(t, img)

	got := srv.ChartRequests()
	require.Len(t, got, 1)
	if diff := cmp.Diff(desc, got[0].DatasetInfo); diff != "" {
		t.Fatalf("datasetInfo sent (-want +got):\n%s", diff)
	}

	res, err = c.GenerateChart(context.Background(), analysis.ChartRequest{Prompt: "structured please", DatasetInfo: desc})
	require.NoError(t, err)
	assert.Equal(t, analysis.ChartStructured, res.Kind())
	assert.Equal(t, "bar", res.Type)
	require.NotNil(t, res.Data)
	assert.Equal(t, []string{"Jan", "Feb"}, res.Data.Labels)
	assert.Equal(t, []float64{10, 12.5}, res.Data.Datasets[0].Data)
	assert.Equal(t, "Revenue", res.Metadata.YLabel)

	res, err = c.GenerateChart(context.Background(), analysis.ChartRequest{Prompt: "please fail", DatasetInfo: desc})
	require.NoError(t, err, "success:false is a result, not an error")
	assert.False(t, res.Success)
	assert.Equal(t, "Could not build a chart for that request", res.Error)
}

func TestChatSendsNullContext(t *testing.T) {
	srv := analysistest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)

	_, err := c.Chat(context.Background(), analysis.ChatRequest{Message: "anything?"})
	require.Error(t, err)
	assert.Equal(t, "No data uploaded. Please upload a file first.", apperrors.UserMessage(err, "generic"))

	ctx := &analysis.DatasetContext{Columns: []string{"a"}, SampleData: []analysis.Record{{"a": 1.0}}}
	reply, err := c.Chat(context.Background(), analysis.ChatRequest{Message: "What trends do you see?", DatasetInfo: ctx})
	require.NoError(t, err)
	assert.Equal(t, "Echo: What trends do you see?", reply)

	reqs := srv.ChatRequests()
	require.Len(t, reqs, 2)
	assert.Nil(t, reqs[0].DatasetInfo)
	assert.Equal(t, []string{"a"}, reqs[1].DatasetInfo.Columns)
}

func TestChatMissingMessageIsServerLogic(t *testing.T) {
	srv := analysistest.NewServer()
	defer srv.Close()
	srv.Respond("/chat", http.StatusOK, `{"reply": "wrong field"}`)
	c := newClient(t, srv)

	_, err := c.Chat(context.Background(), analysis.ChatRequest{Message: "hi"})
	require.Error(t, err)
	assert.True(t, apperrors.IsServerLogic(err))
}
