package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ihower/todoapp/todo"
)

func TestFormatTodoTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	now := time.Date(2024, 7, 21, 8, 0, 0, 0, time.UTC)

	got := formatTodoTable(todo.SeedTodos()[:2], now, true)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", got)
	}
	if !strings.HasPrefix(lines[0], "ID  DONE  TASK") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "[x]") || !strings.Contains(lines[1], "完成專案報告") || !strings.Contains(lines[1], "16h ago") {
		t.Errorf("unexpected completed row %q", lines[1])
	}
	if !strings.Contains(lines[2], "[ ]") || !strings.HasSuffix(lines[2], "-") {
		t.Errorf("unexpected open row %q", lines[2])
	}
}

func TestFormatTodoTableTruncates(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	long := strings.Repeat("a", 80)
	items := []todo.Todo{{ID: 1, Task: long}}

	if got := formatTodoTable(items, time.Now(), true); strings.Contains(got, long) {
		t.Error("expected task to be truncated")
	}
	if got := formatTodoTable(items, time.Now(), false); !strings.Contains(got, long) {
		t.Error("expected wide output to keep the full task")
	}
}

func TestTodoChecklist(t *testing.T) {
	got := todoChecklist(todo.SeedTodos()[:2])
	want := "- [x] 完成專案報告\n- [ ] 準備團隊會議\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPrintTodoMarkdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := printTodoMarkdown(&buf, nil); err != nil {
		t.Fatalf("print: %v", err)
	}
	if buf.String() != "No todos found.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1", " 42 "})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 42 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if _, err := parseIDs([]string{"1", "x"}); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}
