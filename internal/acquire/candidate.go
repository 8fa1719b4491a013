// Package acquire validates and stages tabular data files chosen by the user.
package acquire

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/interpretive-systems/futuresight/internal/apperrors"
)

// CandidateFile is a validated file held locally until it is uploaded.
type CandidateFile struct {
	Name      string
	MIMEType  string
	Extension string
	Size      int64
	Content   []byte
}

// SizeKB formats the size the way the staging panel shows it.
func (c *CandidateFile) SizeKB() string {
	return fmt.Sprintf("%.1f KB", float64(c.Size)/1024)
}

var allowedExtensions = map[string]bool{
	"csv":  true,
	"xlsx": true,
	"xls":  true,
}

var allowedMIMETypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/excel":        true,
	"application/x-excel":      true,
	"application/x-msexcel":    true,
	"application/vnd.ms-excel": true,

	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// Origin tells how a file reached the client.
type Origin int

const (
	Picked Origin = iota // file picker, typed path or CLI argument
	Dropped              // paste of a path into the terminal
)

func (o Origin) String() string {
	if o == Dropped {
		return "drop"
	}
	return "pick"
}

// Source describes a file the user wants to stage. Path-backed sources are
// read from disk; otherwise Name, MIMEType and Content are used as given.
type Source struct {
	Origin   Origin
	Path     string
	Name     string
	MIMEType string
	Content  []byte
}

// FromPath returns a pick-dialog source for a file on disk.
func FromPath(path string) Source {
	return Source{Origin: Picked, Path: path}
}

// FromDrop returns a drop source for a path delivered by a paste event.
func FromDrop(raw string) Source {
	return Source{Origin: Dropped, Path: normalizeDropped(raw)}
}

// FromBytes returns a source for in-memory content with a declared MIME type.
func FromBytes(name, mimeType string, content []byte) Source {
	return Source{Origin: Picked, Name: name, MIMEType: mimeType, Content: content}
}

// Extension returns the lower-cased substring after the last '.', or "" when
// the name has no dot.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// Accepts reports whether a file with the given extension and declared MIME
// type may be staged.
func Accepts(ext, mimeType string) bool {
	return allowedExtensions[strings.ToLower(ext)] || allowedMIMETypes[baseMIME(mimeType)]
}

// Acquire validates src and returns the staged candidate. Rejections are
// *apperrors.ValidationError values whose notice names the offending type.
func Acquire(src Source) (*CandidateFile, error) {
	if src.Path == "" {
		return stage(src.Name, src.MIMEType, src.Content)
	}

	info, err := os.Stat(src.Path)
	if err != nil {
		return nil, apperrors.Validation("Cannot read %s", src.Path)
	}
	if info.IsDir() {
		return nil, apperrors.Validation("%s is a directory, not a file", src.Path)
	}

	name := filepath.Base(src.Path)
	mimeType := src.MIMEType
	if mimeType == "" {
		mimeType = declaredType(src.Path)
	}
	if err := check(name, mimeType); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, apperrors.Validation("Cannot read %s", src.Path)
	}
	return &CandidateFile{
		Name:      name,
		MIMEType:  baseMIME(mimeType),
		Extension: Extension(name),
		Size:      int64(len(content)),
		Content:   content,
	}, nil
}

var extensionTypes = map[string]string{
	"csv":  "text/csv",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// declaredType is the type a file dialog would report for path: it follows
// the extension, and content is sniffed only when the name has none.
func declaredType(path string) string {
	ext := Extension(filepath.Base(path))
	if ext == "" {
		if m, err := mimetype.DetectFile(path); err == nil {
			return m.String()
		}
		return ""
	}
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension("." + ext)
}

func stage(name, mimeType string, content []byte) (*CandidateFile, error) {
	if err := check(name, mimeType); err != nil {
		return nil, err
	}
	return &CandidateFile{
		Name:      name,
		MIMEType:  baseMIME(mimeType),
		Extension: Extension(name),
		Size:      int64(len(content)),
		Content:   content,
	}, nil
}

func check(name, mimeType string) error {
	ext := Extension(name)
	if Accepts(ext, mimeType) {
		return nil
	}
	return apperrors.Validation("Please select a CSV or Excel file. File type: %s, Extension: %s", baseMIME(mimeType), ext)
}

func baseMIME(s string) string {
	s, _, _ = strings.Cut(s, ";")
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeDropped turns what a terminal pastes for a dropped file into a
// path: quotes, a file:// prefix and backslash-escaped spaces are removed.
func normalizeDropped(raw string) string {
	p := strings.TrimSpace(raw)
	if len(p) >= 2 && (p[0] == '\'' || p[0] == '"') && p[len(p)-1] == p[0] {
		p = p[1 : len(p)-1]
	}
	p = strings.TrimPrefix(p, "file://")
	return strings.ReplaceAll(p, `\ `, " ")
}
