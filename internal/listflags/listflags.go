// Package listflags holds flags shared by commands that print todo lists.
package listflags

import (
	"fmt"

	"github.com/ihower/todoapp/todo"
	"github.com/spf13/cobra"
)

// Filter selects which todos a list shows.
type Filter struct {
	Pending bool
	Done    bool
}

// AddFilterFlags adds the shared --pending and --done flags to a command.
func AddFilterFlags(cmd *cobra.Command, target *Filter) {
	cmd.Flags().BoolVar(&target.Pending, "pending", false, "Only show todos that are not completed")
	cmd.Flags().BoolVar(&target.Done, "done", false, "Only show completed todos")
	cmd.MarkFlagsMutuallyExclusive("pending", "done")
}

// Validate rejects contradictory filters.
func (f Filter) Validate() error {
	if f.Pending && f.Done {
		return fmt.Errorf("--pending and --done cannot be combined")
	}
	return nil
}

// Apply returns the todos that match the filter, keeping their order.
func (f Filter) Apply(todos []todo.Todo) []todo.Todo {
	if !f.Pending && !f.Done {
		return todos
	}
	out := make([]todo.Todo, 0, len(todos))
	for _, item := range todos {
		if f.Done == item.IsCompleted() {
			out = append(out, item)
		}
	}
	return out
}
