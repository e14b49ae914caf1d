package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateTableCellKeepsShortValues(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth-1) + "é"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellNormalizesLineBreaks(t *testing.T) {
	value := "Hello\nWorld\r\nAgain\tTab"

	got := TruncateTableCell(value)

	if got != "Hello World Again Tab" {
		t.Fatalf("expected line breaks to normalize, got %q", got)
	}
}

func TestTruncateTableCellIgnoresANSICodes(t *testing.T) {
	value := "\x1b[1m\x1b[36m" + strings.Repeat("a", tableCellMaxWidth) + "\x1b[0m"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellCountsWideRunes(t *testing.T) {
	value := strings.Repeat("網", tableCellMaxWidth)

	got := TruncateTableCell(value)

	if width := lipgloss.Width(got); width > tableCellMaxWidth {
		t.Fatalf("expected at most %d cells, got %d (%q)", tableCellMaxWidth, width, got)
	}
	if !strings.HasSuffix(got, tableCellEllipsis) {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestFormatTableNormalizesLineBreaks(t *testing.T) {
	headers := []string{"COL"}
	rows := [][]string{{"Hello\nWorld\r\nAgain\tTab"}}

	got := FormatTable(headers, rows)

	expected := "COL\nHello World Again Tab\n"
	if got != expected {
		t.Fatalf("expected normalized table output, got %q", got)
	}
}

func TestFormatTableAlignsWideColumns(t *testing.T) {
	builder := NewTableBuilder([]string{"TASK", "ID"}, 2)
	builder.AddRow([]string{"更新網站內容", "4"})
	builder.AddRow([]string{"Buy milk", "6"})

	got := builder.String()

	expected := "TASK          ID\n" +
		"更新網站內容  4\n" +
		"Buy milk      6\n"
	if got != expected {
		t.Fatalf("expected aligned table, got %q", got)
	}
}
