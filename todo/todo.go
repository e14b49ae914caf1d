package todo

import "time"

// Todo represents a single task record.
type Todo struct {
	// ID is unique within a collection. Local backends derive it from the
	// creation time; hosted backends assign it on insert.
	ID int64 `json:"id"`

	// Task is the text shown for the todo. Never blank once saved.
	Task string `json:"task"`

	// CompletedAt is when the todo was completed (nil if not completed).
	CompletedAt *time.Time `json:"completed_at"`
}

// IsCompleted reports whether the todo has a completion timestamp.
func (t Todo) IsCompleted() bool {
	return t.CompletedAt != nil
}

// Completion describes the completion state written by a Patch.
type Completion struct {
	// At is the completion instant, or nil to mark the todo not completed.
	At *time.Time
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Task       *string
	Completion *Completion
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Task == nil && p.Completion == nil
}

// Apply returns a copy of t with the patch applied.
func (p Patch) Apply(t Todo) Todo {
	if p.Task != nil {
		t.Task = *p.Task
	}
	if p.Completion != nil {
		t.CompletedAt = cloneTime(p.Completion.At)
	}
	return t
}

// Fields returns the patch as a column map for wire and SQL encodings.
// A cleared completion maps to a nil value.
func (p Patch) Fields() map[string]any {
	fields := make(map[string]any, 2)
	if p.Task != nil {
		fields["task"] = *p.Task
	}
	if p.Completion != nil {
		if p.Completion.At == nil {
			fields["completed_at"] = nil
		} else {
			fields["completed_at"] = p.Completion.At.UTC()
		}
	}
	return fields
}

// TaskPatch returns a patch that replaces the task text.
func TaskPatch(task string) Patch {
	return Patch{Task: &task}
}

// CompletionPatch returns a patch that sets or clears completed_at.
func CompletionPatch(at *time.Time) Patch {
	return Patch{Completion: &Completion{At: cloneTime(at)}}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func cloneTodos(todos []Todo) []Todo {
	if todos == nil {
		return nil
	}
	out := make([]Todo, len(todos))
	for i, item := range todos {
		item.CompletedAt = cloneTime(item.CompletedAt)
		out[i] = item
	}
	return out
}
