package acquire

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/interpretive-systems/futuresight/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"sales.csv":        "csv",
		"Report.XLSX":      "xlsx",
		"archive.tar.xls":  "xls",
		"noext":            "",
		"trailing.":        "",
		".hidden":          "hidden",
		"dir.v2/sales.Csv": "csv",
	}
	for name, want := range tests {
		assert.Equal(t, want, Extension(name), name)
	}
}

func TestAcquireFromBytes(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		mimeType string
		accept   bool
	}{
		{name: "csv extension", file: "sales.csv", mimeType: "", accept: true},
		{name: "upper-case extension", file: "SALES.XLS", mimeType: "application/octet-stream", accept: true},
		{name: "xlsx extension", file: "q3.xlsx", mimeType: "", accept: true},
		{name: "allowed mime, odd extension", file: "export.dat", mimeType: "text/csv", accept: true},
		{name: "mime with params", file: "export.dat", mimeType: "text/csv; charset=utf-8", accept: true},
		{name: "excel mime", file: "book", mimeType: "application/x-msexcel", accept: true},
		{name: "pdf", file: "report.pdf", mimeType: "application/pdf", accept: false},
		{name: "json", file: "data.json", mimeType: "application/json", accept: false},
		{name: "no extension, no mime", file: "csv", mimeType: "", accept: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Acquire(FromBytes(tt.file, tt.mimeType, []byte("a,b\n1,2\n")))
			if !tt.accept {
				require.Error(t, err)
				assert.Nil(t, c)
				assert.True(t, apperrors.IsValidation(err))
				assert.Contains(t, err.Error(), "Please select a CSV or Excel file")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.file, c.Name)
			assert.Equal(t, int64(8), c.Size)
			assert.Equal(t, Extension(tt.file), c.Extension)
		})
	}
}

func TestAcquireFromPath(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Date,Revenue\n2024-01-01,10\n"), 0o644))
	c, err := Acquire(FromPath(csvPath))
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", c.Name)
	assert.Equal(t, "csv", c.Extension)
	assert.Equal(t, int64(len("Date,Revenue\n2024-01-01,10\n")), c.Size)
	assert.NotEmpty(t, c.MIMEType)

	pdfPath := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n"), 0o644))
	c, err = Acquire(FromPath(pdfPath))
	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "application/pdf")
	assert.Contains(t, err.Error(), "Extension: pdf")

	_, err = Acquire(FromPath(filepath.Join(dir, "missing.csv")))
	assert.True(t, apperrors.IsValidation(err))

	_, err = Acquire(FromPath(dir))
	assert.True(t, apperrors.IsValidation(err))
}

func TestFromDropNormalizesPastedPaths(t *testing.T) {
	tests := map[string]string{
		"  /tmp/a.csv  ":     "/tmp/a.csv",
		"'/tmp/my data.csv'": "/tmp/my data.csv",
		`"/tmp/my data.csv"`: "/tmp/my data.csv",
		`/tmp/my\ data.csv`:  "/tmp/my data.csv",
		"file:///tmp/a.csv":  "/tmp/a.csv",
	}
	for raw, want := range tests {
		src := FromDrop(raw)
		assert.Equal(t, Dropped, src.Origin)
		assert.Equal(t, want, src.Path, raw)
	}
}

func TestDragTracker(t *testing.T) {
	var d DragTracker
	assert.Equal(t, DragIdle, d.State())

	d.Handle(DragEnter)
	assert.True(t, d.Dragging())
	d.Handle(DragOver)
	assert.Equal(t, Dragging, d.State())
	d.Handle(DragLeave)
	assert.Equal(t, DragIdle, d.State())

	d.Handle(DragEnter)
	_, err := d.Drop(FromBytes("report.pdf", "application/pdf", nil))
	require.Error(t, err)
	assert.Equal(t, DragIdle, d.State(), "drop returns to idle after a rejection")

	d.Handle(DragOver)
	c, err := d.Drop(FromBytes("sales.csv", "text/csv", []byte("x")))
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", c.Name)
	assert.Equal(t, DragIdle, d.State(), "drop returns to idle after staging")
}

func TestSizeKB(t *testing.T) {
	c := &CandidateFile{Size: 1536}
	assert.Equal(t, "1.5 KB", c.SizeKB())
}

func TestAcquireFromPathFollowsExtension(t *testing.T) {
	dir := t.TempDir()
	body := []byte("a,b,c\n1,2,3\n4,5,6\n")

	for _, name := range []string{"notes.txt", "report.pdf"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, body, 0o644))
		c, err := Acquire(FromPath(p))
		require.Error(t, err, name)
		assert.Nil(t, c)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "Extension: "+Extension(name))
	}

	p := filepath.Join(dir, "export")
	require.NoError(t, os.WriteFile(p, body, 0o644))
	c, err := Acquire(FromPath(p))
	require.NoError(t, err)
	assert.Equal(t, "text/csv", c.MIMEType)
	assert.Empty(t, c.Extension)

	p = filepath.Join(dir, "q3.xlsx")
	require.NoError(t, os.WriteFile(p, []byte("not really a workbook"), 0o644))
	c, err = Acquire(FromPath(p))
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", c.MIMEType)
}
