package tui

import (
	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/interpretive-systems/futuresight/internal/session"
)

// uploadDoneMsg carries the outcome of an upload request.
type uploadDoneMsg struct {
	ticket session.UploadTicket
	desc   *analysis.DatasetDescriptor
	err    error
}

// chartDoneMsg carries the outcome of a chart request.
type chartDoneMsg struct {
	ticket session.ChartTicket
	result *analysis.ChartResult
	err    error
}

// chatDoneMsg carries the assistant's reply to one chat message.
type chatDoneMsg struct {
	ticket session.ChatTicket
	reply  string
	err    error
}

// exportDoneMsg reports where the chart was written.
type exportDoneMsg struct {
	path string
	err  error
}
