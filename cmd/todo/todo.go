package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ihower/todoapp/internal/editor"
	"github.com/ihower/todoapp/internal/listflags"
	"github.com/ihower/todoapp/todo"
	"github.com/spf13/cobra"
)

// todo list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List todos",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var (
	listJSON     bool
	listMarkdown bool
	listWide     bool
	listFilter   listflags.Filter
)

// todo add
var addCmd = &cobra.Command{
	Use:   "add <task>...",
	Short: "Add a todo",
	Long: `Add a todo. Arguments are joined with spaces to form the task text,
which is stored exactly as given. The resulting list is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

// todo toggle
var toggleCmd = &cobra.Command{
	Use:   "toggle <id>...",
	Short: "Mark todos completed, or not completed if they already are",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runToggle,
}

// todo delete
var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete todos",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

// todo edit
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the task text of a todo",
	Long: `Change the task text of a todo.

With --task the new text is saved directly. Otherwise $EDITOR opens a
TOML representation of the todo when running interactively; use --edit
to open the editor even when not interactive.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTask  string
	editForce bool
)

func init() {
	rootCmd.AddCommand(listCmd, addCmd, toggleCmd, deleteCmd, editCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listMarkdown, "markdown", false, "Output as a markdown checklist")
	listCmd.Flags().BoolVar(&listWide, "wide", false, "Do not truncate task text")
	listCmd.MarkFlagsMutuallyExclusive("json", "markdown")
	listflags.AddFilterFlags(listCmd, &listFilter)

	editCmd.Flags().StringVar(&editTask, "task", "", "New task text")
	editCmd.Flags().BoolVar(&editForce, "edit", false, "Open $EDITOR even when not interactive")
	addTaskFlagAliases(editCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFilter.Validate(); err != nil {
		return err
	}
	store, closeStore, err := current.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	todos := listFilter.Apply(store.Todos())
	if todos == nil {
		todos = []todo.Todo{}
	}
	out := cmd.OutOrStdout()

	switch {
	case listJSON:
		return encodeJSON(out, todos)
	case listMarkdown:
		return printTodoMarkdown(out, todos)
	}

	if len(todos) == 0 {
		fmt.Fprintln(out, "No todos found.")
		return nil
	}
	printTodoTable(out, todos, time.Now(), !listWide)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	task := strings.Join(args, " ")
	if err := todo.ValidateTask(task); err != nil {
		return err
	}

	store, closeStore, err := current.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	created, err := store.Add(cmd.Context(), task)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added todo %d: %s\n", created.ID, created.Task)
	printResultingList(cmd.OutOrStdout(), store)
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	store, closeStore, err := current.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	for _, id := range ids {
		updated, err := store.ToggleComplete(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("toggle %d: %w", id, err)
		}
		verb := "Reopened"
		if updated.IsCompleted() {
			verb = "Completed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s todo %d: %s\n", verb, updated.ID, updated.Task)
	}
	printResultingList(cmd.OutOrStdout(), store)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	store, closeStore, err := current.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	for _, id := range ids {
		if err := store.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted todo %d\n", id)
	}
	printResultingList(cmd.OutOrStdout(), store)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := todo.ParseID(args[0])
	if err != nil {
		return err
	}

	useEditor := !cmd.Flags().Changed("task")
	if useEditor && !editForce && !editor.IsInteractive() {
		return errors.New("--task is required when not running interactively")
	}
	if !useEditor {
		if err := todo.ValidateTask(editTask); err != nil {
			return err
		}
	}

	store, closeStore, err := current.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	existing, ok := store.Get(id)
	if !ok {
		return fmt.Errorf("edit %d: %w", id, todo.ErrTodoNotFound)
	}

	task := editTask
	toggle := false
	if useEditor {
		parsed, err := editor.EditTodo(existing)
		if err != nil {
			return err
		}
		task = parsed.Task
		toggle = parsed.CompletionChanged(existing)
	}

	updated := existing
	if task != existing.Task {
		if err := store.StartEdit(id, existing.Task); err != nil {
			return err
		}
		store.SetEditDraft(task)
		if err := store.SaveEdit(cmd.Context(), id); err != nil {
			return fmt.Errorf("edit %d: %w", id, err)
		}
		updated, _ = store.Get(id)
	}
	if toggle {
		if updated, err = store.ToggleComplete(cmd.Context(), id); err != nil {
			return fmt.Errorf("toggle %d: %w", id, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated todo %d: %s\n", updated.ID, updated.Task)
	printResultingList(cmd.OutOrStdout(), store)
	return nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := todo.ParseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
