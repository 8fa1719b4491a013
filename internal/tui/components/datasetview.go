package components

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/interpretive-systems/futuresight/internal/acquire"
	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/interpretive-systems/futuresight/internal/theme"
	tansi "github.com/interpretive-systems/futuresight/internal/tui/ansi"
)

// StagedLines renders the staged file line.
func StagedLines(c *acquire.CandidateFile, width int, th theme.Theme) []string {
	if c == nil {
		return []string{th.Muted("No file selected")}
	}
	line := fmt.Sprintf("📄 %s %s", c.Name, th.Muted("("+c.SizeKB()+")"))
	return []string{tansi.TruncateToWidth(line, width)}
}

// DatasetLines renders the dataset info panel: counts, column tags and the
// sample rows as indented JSON.
func DatasetLines(d *analysis.DatasetDescriptor, width int, th theme.Theme) []string {
	if d == nil {
		return nil
	}
	lines := []string{
		th.Title("Dataset Information"),
		fmt.Sprintf("Columns: %s   Rows: %s",
			th.Accent(fmt.Sprint(d.ColumnCount)),
			th.Accent(fmt.Sprint(d.RowCount))),
		"",
		th.Muted("Column names:"),
	}
	lines = append(lines, tansi.WrapLine(columnTags(d.Columns), width)...)

	if len(d.SampleData) > 0 {
		lines = append(lines, "", th.Muted("Sample data:"))
		b, err := json.MarshalIndent(d.SampleData, "", "  ")
		if err != nil {
			lines = append(lines, th.ErrorText(err.Error()))
		} else {
			lines = append(lines, tansi.WrapText(string(b), width)...)
		}
	}
	return lines
}

func columnTags(cols []string) string {
	tags := make([]string, len(cols))
	for i, c := range cols {
		tags[i] = "[" + c + "]"
	}
	return strings.Join(tags, " ")
}
