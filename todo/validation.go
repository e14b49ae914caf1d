package todo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyTask is returned when a todo's task text is blank.
	ErrEmptyTask = errors.New("task cannot be empty")

	// ErrTodoNotFound is returned when a todo with the given ID doesn't exist.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrNoEditSession is returned when saving without a matching edit in progress.
	ErrNoEditSession = errors.New("no edit in progress for todo")

	// ErrDuplicateID is returned when inserting a todo whose ID is already taken.
	ErrDuplicateID = errors.New("duplicate todo id")

	// ErrInvalidID is returned when a todo ID is not a positive integer.
	ErrInvalidID = errors.New("invalid todo id")
)

// SyncError reports a backend failure observed by the Store.
type SyncError struct {
	// Op is the store operation that failed, such as "add" or "toggle".
	Op string

	// ID is the todo involved, or zero for list-wide operations.
	ID int64

	// Err is the backend error.
	Err error
}

func (e *SyncError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s todo %d: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s todos: %v", e.Op, e.Err)
}

// Unwrap returns the underlying backend error.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// IsBlank reports whether text has no non-whitespace characters.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// ValidateTask checks if the task text can be saved.
func ValidateTask(task string) error {
	if IsBlank(task) {
		return ErrEmptyTask
	}
	return nil
}

// ValidateTodo checks if a todo struct is valid.
func ValidateTodo(t *Todo) error {
	if t.ID < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, t.ID)
	}
	return ValidateTask(t.Task)
}

// ParseID parses a todo ID from user input.
func ParseID(input string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, input)
	}
	return id, nil
}
