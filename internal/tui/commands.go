package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/interpretive-systems/futuresight/internal/chartexport"
	"github.com/interpretive-systems/futuresight/internal/session"
)

// Backend is the remote analysis service. *analysis.Client implements it.
type Backend interface {
	Upload(ctx context.Context, name, mimeType string, content io.Reader) (*analysis.DatasetDescriptor, error)
	GenerateChart(ctx context.Context, req analysis.ChartRequest) (*analysis.ChartResult, error)
	Chat(ctx context.Context, req analysis.ChatRequest) (string, error)
}

// uploadFile posts the ticket's file.
func uploadFile(b Backend, t session.UploadTicket) tea.Cmd {
	return func() tea.Msg {
		f := t.File
		desc, err := b.Upload(context.Background(), f.Name, f.MIMEType, bytes.NewReader(f.Content))
		return uploadDoneMsg{ticket: t, desc: desc, err: err}
	}
}

// generateChart requests a chart for the ticket's prompt.
func generateChart(b Backend, t session.ChartTicket) tea.Cmd {
	return func() tea.Msg {
		res, err := b.GenerateChart(context.Background(), t.Request)
		return chartDoneMsg{ticket: t, result: res, err: err}
	}
}

// sendChat sends one chat message.
func sendChat(b Backend, t session.ChatTicket) tea.Cmd {
	return func() tea.Msg {
		reply, err := b.Chat(context.Background(), t.Request)
		return chatDoneMsg{ticket: t, reply: reply, err: err}
	}
}

// exportChart writes the chart as a timestamped PNG under dir.
func exportChart(res *analysis.ChartResult, dir string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, fmt.Sprintf("futuresight-chart-%s.png", now.Format("20060102-150405")))
		if err := chartexport.ExportFile(res, path); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}
