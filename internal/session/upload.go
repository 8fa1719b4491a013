package session

import (
	"errors"

	"github.com/interpretive-systems/futuresight/internal/acquire"
	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/interpretive-systems/futuresight/internal/apperrors"
	"go.uber.org/zap"
)

const (
	uploadSucceeded = "File uploaded successfully!"
	uploadFailed    = "Failed to upload file. Please try again."
)

// ErrNothingStaged is returned by BeginUpload when no file is staged.
var ErrNothingStaged = &apperrors.ValidationError{Notice: "Please select a file to upload"}

// UploadTicket identifies one upload attempt.
type UploadTicket struct {
	epoch uint64
	File  *acquire.CandidateFile
}

// Stage validates src and, when accepted, replaces the staged file. A
// rejection sets the notice and leaves the previously staged file alone.
func (s *Session) Stage(src acquire.Source) error {
	c, err := acquire.Acquire(src)
	return s.applyStage(c, err)
}

// Drag applies a drop-zone event that carries no file.
func (s *Session) Drag(ev acquire.DragEvent) {
	s.drag.Handle(ev)
}

// Dragging reports whether a drag is over the drop zone.
func (s *Session) Dragging() bool {
	return s.drag.Dragging()
}

// Drop validates a dropped file. The drop zone returns to idle whatever the
// outcome.
func (s *Session) Drop(src acquire.Source) error {
	c, err := s.drag.Drop(src)
	return s.applyStage(c, err)
}

func (s *Session) applyStage(c *acquire.CandidateFile, err error) error {
	if err != nil {
		s.setNotice(apperrors.UserMessage(err, err.Error()))
		return err
	}
	s.staged = c
	s.notice = ""
	s.logger.Info("Staged file",
		zap.String("name", c.Name),
		zap.String("mime", c.MIMEType),
		zap.Int64("size", c.Size))
	return nil
}

// Staged returns the staged file, or nil.
func (s *Session) Staged() *acquire.CandidateFile { return s.staged }

// UploadResult returns the outcome of the last completed upload, or nil while
// none has completed since the last BeginUpload.
func (s *Session) UploadResult() *Status { return s.uploadResult }

// CanUpload reports whether the upload control is enabled.
func (s *Session) CanUpload() bool {
	return s.staged != nil && !s.ui.Uploading
}

// BeginUpload starts an upload of the staged file. It drops the current
// dataset and chart, resets the chart flow so in-flight chart responses are
// discarded, and returns the ticket the completion must present.
func (s *Session) BeginUpload() (UploadTicket, error) {
	if s.staged == nil {
		s.setNotice(ErrNothingStaged.Notice)
		return UploadTicket{}, ErrNothingStaged
	}
	s.uploadEpoch++
	s.uploadResult = nil
	s.dataset = nil
	s.resetChart()
	s.ui.Uploading = true
	s.notice = ""

	s.logger.Info("Upload started", zap.String("name", s.staged.Name), zap.Uint64("epoch", s.uploadEpoch))
	return UploadTicket{epoch: s.uploadEpoch, File: s.staged}, nil
}

// CompleteUpload applies the outcome of an upload. It returns false when the
// ticket was superseded by a later BeginUpload or never issued; nothing
// changes then.
func (s *Session) CompleteUpload(t UploadTicket, desc *analysis.DatasetDescriptor, err error) bool {
	if t.epoch == 0 || t.epoch != s.uploadEpoch {
		s.logger.Debug("Discarding stale upload response",
			zap.Uint64("epoch", t.epoch), zap.Uint64("current", s.uploadEpoch))
		return false
	}
	s.ui.Uploading = false

	if err == nil && desc == nil {
		err = errors.New("upload returned no dataset")
	}
	if err != nil {
		s.uploadResult = &Status{Success: false, Message: apperrors.UserMessage(err, uploadFailed)}
		s.logger.Warn("Upload failed", zap.Error(err))
		return true
	}

	s.setDataset(desc)
	s.uploadResult = &Status{Success: true, Message: uploadSucceeded}
	if s.opts.ClearStagedOnUpload && t.File == s.staged {
		s.staged = nil
	}
	s.logger.Info("Upload complete",
		zap.Int("rows", desc.RowCount),
		zap.Int("columns", desc.ColumnCount))
	return true
}
