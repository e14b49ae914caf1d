package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/ihower/todoapp/todo"
)

// TodoData represents the data used to render the TOML template.
type TodoData struct {
	// ID is the todo being edited.
	ID int64
	// Task is the current task text.
	Task string
	// Completed reports whether the todo is done.
	Completed bool
}

// DataFromTodo creates TodoData from an existing todo for editing.
func DataFromTodo(t todo.Todo) TodoData {
	return TodoData{
		ID:        t.ID,
		Task:      t.Task,
		Completed: t.IsCompleted(),
	}
}

var todoTemplate = template.Must(template.New("todo").Parse(`# Editing todo {{ .ID }}. Lines starting with # are ignored.
task = {{ printf "%q" .Task }}
completed = {{ .Completed }}
`))

// RenderTodoTOML renders the todo data as a TOML string for editing.
func RenderTodoTOML(data TodoData) (string, error) {
	var buf bytes.Buffer
	if err := todoTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTodo represents the parsed result from the TOML editor output.
type ParsedTodo struct {
	Task      string `toml:"task"`
	Completed *bool  `toml:"completed"`
}

// ParseTodoTOML parses the TOML content from the editor.
func ParseTodoTOML(content string) (*ParsedTodo, error) {
	var parsed ParsedTodo
	meta, err := toml.Decode(content, &parsed)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse TOML: unknown key %s", undecoded[0])
	}

	if err := todo.ValidateTask(parsed.Task); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// CompletionChanged reports whether the edited completion differs from t.
func (p *ParsedTodo) CompletionChanged(t todo.Todo) bool {
	return p.Completed != nil && *p.Completed != t.IsCompleted()
}

// TaskChanged reports whether the edited task differs from t.
func (p *ParsedTodo) TaskChanged(t todo.Todo) bool {
	return strings.TrimSpace(p.Task) != strings.TrimSpace(t.Task)
}

func createTodoTempFile() (*os.File, error) {
	return os.CreateTemp("", "todo-*.toml")
}

// EditTodo opens the editor for a todo and returns the parsed result.
func EditTodo(existing todo.Todo) (*ParsedTodo, error) {
	return EditTodoWithData(DataFromTodo(existing))
}

// EditTodoWithData opens the editor with pre-populated data and returns the parsed result.
func EditTodoWithData(data TodoData) (*ParsedTodo, error) {
	content, err := RenderTodoTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := createTodoTempFile()
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTodoTOML(string(edited))
}
