package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	uploadPath = "/upload"
	chartPath  = "/generate-chart"
	chatPath   = "/chat"
)

// Client talks to the analysis service over HTTP. It never retries and never
// cancels on its own; a zero timeout leaves hangs to the transport.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// BaseURL returns the service root the client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Upload posts a file as multipart form field "file" and decodes the dataset
// descriptor verbatim.
func (c *Client) Upload(ctx context.Context, name, mimeType string, content io.Reader) (*DatasetDescriptor, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to copy file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	raw, status, err := c.do(req, "upload")
	if err != nil {
		return nil, err
	}

	var desc DatasetDescriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, &ServerError{Op: "upload", StatusCode: status}
	}
	if desc.Columns == nil {
		return nil, &ServerError{Op: "upload", StatusCode: status}
	}
	return &desc, nil
}

// GenerateChart submits a chart prompt. A decoded result with Success false
// is returned as-is; only transport and malformed responses are errors.
func (c *Client) GenerateChart(ctx context.Context, req ChartRequest) (*ChartResult, error) {
	raw, status, err := c.postJSON(ctx, "generate-chart", chartPath, req)
	if err != nil {
		return nil, err
	}
	var res ChartResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &ServerError{Op: "generate-chart", StatusCode: status}
	}
	return &res, nil
}

// Chat sends one message and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	raw, status, err := c.postJSON(ctx, "chat", chatPath, req)
	if err != nil {
		return "", err
	}
	var res chatResponse
	if err := json.Unmarshal(raw, &res); err != nil || res.Message == nil {
		return "", &ServerError{Op: "chat", StatusCode: status}
	}
	return *res.Message, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, v any) ([]byte, int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal %s request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op)
}

// do sends req and returns the body of a 2xx response. Non-2xx responses
// become a ServerError when they carry a detail and a TransportError
// otherwise.
func (c *Client) do(req *http.Request, op string) ([]byte, int, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Sending request to analysis service",
		zap.String("op", op),
		zap.String("url", req.URL.String()),
		zap.String("request_id", requestID))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Analysis service unreachable", zap.String("op", op), zap.Error(err))
		return nil, 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("Analysis service responded",
		zap.String("op", op),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if detail, ok := parseDetail(body); ok {
			return nil, resp.StatusCode, &ServerError{Op: op, StatusCode: resp.StatusCode, Detail: detail}
		}
		return nil, resp.StatusCode, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}
	return body, resp.StatusCode, nil
}

// parseDetail extracts the "detail" of an error body. Request validation
// failures carry a list of {msg} objects instead of a string.
func parseDetail(body []byte) (string, bool) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s, s != ""
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; "), len(msgs) > 0
	}
	return "", false
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
