package session

import "github.com/interpretive-systems/futuresight/internal/analysis"

// Dataset returns the current dataset descriptor, or nil when no upload has
// completed since the last BeginUpload. The descriptor is never modified in
// place; a new upload replaces the reference.
func (s *Session) Dataset() *analysis.DatasetDescriptor { return s.dataset }

// HasDataset reports whether chart and chat requests have a dataset to refer
// to.
func (s *Session) HasDataset() bool { return s.dataset != nil }

func (s *Session) setDataset(d *analysis.DatasetDescriptor) {
	s.dataset = d
}
