package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ihower/todoapp/internal/markdown"
	"github.com/ihower/todoapp/internal/ui"
	"github.com/ihower/todoapp/todo"
)

func formatTodoTable(todos []todo.Todo, now time.Time, truncate bool) string {
	builder := ui.NewTableBuilder([]string{"ID", "DONE", "TASK", "COMPLETED"}, len(todos))
	for _, item := range todos {
		task := item.Task
		if truncate {
			task = ui.TruncateTableCell(task)
		}
		builder.AddRow([]string{
			ui.FormatID(item.ID),
			ui.FormatCheckbox(item.IsCompleted()),
			task,
			ui.FormatCompletion(item.CompletedAt, now),
		})
	}
	return builder.String()
}

func printTodoTable(w io.Writer, todos []todo.Todo, now time.Time, truncate bool) {
	fmt.Fprint(w, formatTodoTable(todos, now, truncate))
}

// printResultingList prints the collection as it stands after a one-shot
// command, separated from the confirmation lines by a blank line.
func printResultingList(w io.Writer, store *todo.Store) {
	fmt.Fprintln(w)
	todos := store.Todos()
	if len(todos) == 0 {
		fmt.Fprintln(w, "No todos found.")
		return
	}
	printTodoTable(w, todos, time.Now(), true)
}

func todoChecklist(todos []todo.Todo) string {
	var b strings.Builder
	for _, item := range todos {
		mark := " "
		if item.IsCompleted() {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, item.Task)
	}
	return b.String()
}

func printTodoMarkdown(w io.Writer, todos []todo.Todo) error {
	if len(todos) == 0 {
		_, err := fmt.Fprintln(w, "No todos found.")
		return err
	}
	rendered := markdown.SafeRender(ui.TerminalWidth(), 0, []byte(todoChecklist(todos)))
	_, err := fmt.Fprintf(w, "%s\n", rendered)
	return err
}

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
