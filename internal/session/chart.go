package session

import (
	"strings"

	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/interpretive-systems/futuresight/internal/apperrors"
	"go.uber.org/zap"
)

const (
	chartSucceeded = "Chart generated successfully!"
	chartFailed    = "Failed to generate chart. Please try again."
)

var (
	// ErrNoDataset blocks chart generation until an upload has completed.
	ErrNoDataset = &apperrors.ValidationError{Notice: "Please upload a dataset first"}
	// ErrEmptyPrompt blocks chart generation with a blank prompt.
	ErrEmptyPrompt = &apperrors.ValidationError{Notice: "Please enter a prompt"}
)

// ChartTicket identifies one chart request.
type ChartTicket struct {
	epoch   uint64
	Request analysis.ChartRequest
}

// Chart returns the last successful chart result, or nil.
func (s *Session) Chart() *analysis.ChartResult { return s.chart }

// ChartStatus returns the outcome of the last completed chart request, or nil.
func (s *Session) ChartStatus() *Status { return s.chartStatus }

// CanGenerate reports whether the generate control is enabled.
func (s *Session) CanGenerate() bool {
	return s.dataset != nil && !s.ui.Generating
}

// BeginChart checks the chart preconditions and starts a request. The dataset
// is checked before the prompt. On a violation the notice is set and no
// ticket is issued.
func (s *Session) BeginChart(prompt string) (ChartTicket, error) {
	if s.dataset == nil {
		s.setNotice(ErrNoDataset.Notice)
		return ChartTicket{}, ErrNoDataset
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		s.setNotice(ErrEmptyPrompt.Notice)
		return ChartTicket{}, ErrEmptyPrompt
	}

	s.chartEpoch++
	s.chartStatus = nil
	s.ui.Generating = true
	s.notice = ""

	s.logger.Info("Chart requested", zap.String("prompt", prompt), zap.Uint64("epoch", s.chartEpoch))
	return ChartTicket{
		epoch:   s.chartEpoch,
		Request: analysis.ChartRequest{Prompt: prompt, DatasetInfo: s.dataset},
	}, nil
}

// CompleteChart applies a chart response. It returns false for a ticket
// superseded by a later BeginChart or BeginUpload, or never issued. A failed
// request, or a success carrying neither image nor data, keeps the previous
// chart.
func (s *Session) CompleteChart(t ChartTicket, res *analysis.ChartResult, err error) bool {
	if t.epoch == 0 || t.epoch != s.chartEpoch {
		s.logger.Debug("Discarding stale chart response",
			zap.Uint64("epoch", t.epoch), zap.Uint64("current", s.chartEpoch))
		return false
	}
	s.ui.Generating = false

	switch {
	case err != nil:
		s.chartStatus = &Status{Success: false, Message: apperrors.UserMessage(err, chartFailed)}
		s.logger.Warn("Chart request failed", zap.Error(err))
	case res == nil:
		s.chartStatus = &Status{Success: false, Message: chartFailed}
	case !res.Success:
		msg := res.Error
		if msg == "" {
			msg = res.Message
		}
		if msg == "" {
			msg = chartFailed
		}
		s.chartStatus = &Status{Success: false, Message: msg}
		s.logger.Warn("Chart generation rejected", zap.String("reason", msg))
	case res.Kind() == analysis.ChartEmpty:
		msg := res.Message
		if msg == "" {
			msg = chartFailed
		}
		s.chartStatus = &Status{Success: false, Message: msg}
		s.logger.Warn("Chart response has neither image nor data")
	default:
		s.chart = res
		s.chartStatus = &Status{Success: true, Message: chartSucceeded}
		s.logger.Info("Chart generated", zap.String("type", res.Type))
	}
	return true
}

// resetChart drops the chart and invalidates in-flight chart requests.
func (s *Session) resetChart() {
	s.chartEpoch++
	s.chart = nil
	s.chartStatus = nil
	s.ui.Generating = false
}
