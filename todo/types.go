// Package todo implements the task list state model for the todo app.
//
// A Store holds the ordered collection of todos shown to the user, the
// new-task input draft, and the single edit session. Every mutation goes
// through a Backend, which declares how local state follows persistence:
//   - PolicyOptimistic backends are applied locally first and rolled back
//     when persisting fails (the in-memory seed list).
//   - PolicyConfirmed backends are persisted first and mirrored locally only
//     after the backend confirms (hosted REST and SQL backends).
//
// The public API mirrors the UI actions:
//   - Load, Add, Submit, Delete, ToggleComplete for the list
//   - StartEdit, SetEditDraft, SaveEdit, CancelEdit for the edit session
package todo

import "context"

// SyncPolicy describes when a Store mirrors a mutation locally.
type SyncPolicy string

const (
	// PolicyOptimistic applies changes locally before persisting them and
	// reverts them if persisting fails. The Store assigns ids.
	PolicyOptimistic SyncPolicy = "optimistic"

	// PolicyConfirmed persists changes first and applies them locally only
	// after success. The backend assigns ids.
	PolicyConfirmed SyncPolicy = "confirmed"
)

// ValidPolicies returns all valid sync policies.
func ValidPolicies() []SyncPolicy {
	return []SyncPolicy{PolicyOptimistic, PolicyConfirmed}
}

// IsValid returns true if the policy is a known value.
func (p SyncPolicy) IsValid() bool {
	for _, valid := range ValidPolicies() {
		if p == valid {
			return true
		}
	}
	return false
}

// Backend persists todos for a Store.
type Backend interface {
	// Name is a short label for the backend, such as "local" or "remote".
	Name() string

	// Policy reports how the Store should sequence local and remote changes.
	Policy() SyncPolicy

	// List returns every todo in display order.
	List(ctx context.Context) ([]Todo, error)

	// Insert stores a new todo. When item.ID is zero the backend assigns
	// one. The stored record is returned.
	Insert(ctx context.Context, item Todo) (Todo, error)

	// Update applies a partial update to the todo with the given id.
	Update(ctx context.Context, id int64, patch Patch) error

	// Delete removes the todo with the given id.
	Delete(ctx context.Context, id int64) error
}

// EditSession tracks the todo currently being edited.
type EditSession struct {
	// ID is the todo being edited, or zero when no edit is active.
	ID int64

	// Draft is the uncommitted task text.
	Draft string
}

// Active reports whether an edit is in progress.
func (e EditSession) Active() bool {
	return e.ID != 0
}
