package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ihower/todoapp/todo"
)

func TestRenderTodoTOML(t *testing.T) {
	done := time.Date(2024, 7, 20, 15, 30, 0, 0, time.UTC)
	data := DataFromTodo(todo.Todo{ID: 1, Task: `完成 "專案" 報告`, CompletedAt: &done})

	content, err := RenderTodoTOML(data)
	if err != nil {
		t.Fatalf("RenderTodoTOML failed: %v", err)
	}

	if !strings.Contains(content, `task = "完成 \"專案\" 報告"`) {
		t.Errorf("expected quoted task, got:\n%s", content)
	}
	if !strings.Contains(content, "completed = true") {
		t.Errorf("expected completed flag, got:\n%s", content)
	}
	if !strings.Contains(content, "# Editing todo 1.") {
		t.Errorf("expected header comment, got:\n%s", content)
	}
}

func TestRenderThenParseRoundTrip(t *testing.T) {
	original := todo.Todo{ID: 4, Task: "更新網站內容"}
	content, err := RenderTodoTOML(DataFromTodo(original))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	parsed, err := ParseTodoTOML(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Task != original.Task {
		t.Errorf("expected task %q, got %q", original.Task, parsed.Task)
	}
	if parsed.TaskChanged(original) || parsed.CompletionChanged(original) {
		t.Error("expected no changes after round trip")
	}
}

func TestParseTodoTOML_DetectsChanges(t *testing.T) {
	original := todo.Todo{ID: 2, Task: "準備團隊會議"}

	parsed, err := ParseTodoTOML("task = \"準備團隊會議 v2\"\ncompleted = true\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.TaskChanged(original) {
		t.Error("expected task change")
	}
	if !parsed.CompletionChanged(original) {
		t.Error("expected completion change")
	}
}

func TestParseTodoTOML_CompletedOptional(t *testing.T) {
	parsed, err := ParseTodoTOML(`task = "x"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Completed != nil {
		t.Errorf("expected nil completed, got %v", *parsed.Completed)
	}
	if parsed.CompletionChanged(todo.Todo{Task: "x"}) {
		t.Error("missing completed should not count as a change")
	}
}

func TestParseTodoTOML_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{name: "blank task", content: `task = "   "`},
		{name: "missing task", content: `completed = false`},
		{name: "invalid toml", content: `task = `},
		{name: "unknown key", content: "task = \"x\"\ntitle = \"y\""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseTodoTOML(tc.content); err == nil {
				t.Fatalf("expected error for %q", tc.content)
			}
		})
	}

	if _, err := ParseTodoTOML(`task = ""`); !errors.Is(err, todo.ErrEmptyTask) {
		t.Fatalf("expected ErrEmptyTask, got %v", err)
	}
}

func TestEditTodoWithData_UsesEditor(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor.sh")
	body := "#!/bin/sh\nprintf 'task = \"edited\"\\ncompleted = true\\n' > \"$1\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write editor script: %v", err)
	}
	t.Setenv("EDITOR", script)

	parsed, err := EditTodo(todo.Todo{ID: 3, Task: "original"})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if parsed.Task != "edited" || parsed.Completed == nil || !*parsed.Completed {
		t.Fatalf("unexpected parse result %+v", parsed)
	}
}

func TestEdit_NonZeroExit(t *testing.T) {
	t.Setenv("EDITOR", "false")
	if err := Edit(filepath.Join(t.TempDir(), "x.toml")); err == nil {
		t.Fatal("expected error from failing editor")
	}
}

func TestCommand_DefaultsToVi(t *testing.T) {
	t.Setenv("EDITOR", "")
	if got := Command(); got != "vi" {
		t.Fatalf("expected vi, got %q", got)
	}
}
