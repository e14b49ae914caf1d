package todo

import (
	"context"
)

// Load replaces the collection with the backend's records.
// On failure the previous collection is kept.
func (s *Store) Load(ctx context.Context) error {
	ctx = s.backendCtx(ctx)
	s.logger.Debug("load")

	todos, err := s.backend.List(ctx)
	if err != nil {
		return s.fail("load", 0, err)
	}

	s.mu.Lock()
	s.todos = cloneTodos(todos)
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Debug("loaded", "count", len(todos))
	return nil
}

// Add creates a todo with the exact text given. Blank text is ignored and
// returns (nil, nil) without touching the input draft. Otherwise the input
// draft is cleared whether or not the backend accepts the record.
func (s *Store) Add(ctx context.Context, text string) (*Todo, error) {
	if IsBlank(text) {
		s.logger.Debug("add ignored", "reason", "blank")
		return nil, nil
	}
	ctx = s.backendCtx(ctx)
	defer s.SetInput("")

	if s.Policy() == PolicyConfirmed {
		return s.addConfirmed(ctx, text)
	}
	return s.addOptimistic(ctx, text)
}

func (s *Store) addConfirmed(ctx context.Context, text string) (*Todo, error) {
	s.logger.Debug("add", "task", text)

	created, err := s.backend.Insert(ctx, Todo{Task: text})
	if err != nil {
		return nil, s.fail("add", 0, err)
	}

	s.mu.Lock()
	if i := indexOf(s.todos, created.ID); i >= 0 {
		s.todos[i] = created
	} else {
		s.todos = append(s.todos, created)
	}
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Debug("added", "id", created.ID)
	result := created
	result.CompletedAt = cloneTime(created.CompletedAt)
	return &result, nil
}

func (s *Store) addOptimistic(ctx context.Context, text string) (*Todo, error) {
	s.mu.Lock()
	item := Todo{ID: GenerateID(s.now(), s.todos), Task: text}
	s.todos = append(s.todos, item)
	s.mu.Unlock()

	s.logger.Debug("add", "id", item.ID, "task", text)

	if _, err := s.backend.Insert(ctx, item); err != nil {
		s.mu.Lock()
		if i := indexOf(s.todos, item.ID); i >= 0 {
			s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
		}
		s.mu.Unlock()
		return nil, s.fail("add", item.ID, err)
	}

	s.succeed()
	return &item, nil
}

// Submit adds the current input draft.
func (s *Store) Submit(ctx context.Context) (*Todo, error) {
	return s.Add(ctx, s.Input())
}

// Delete removes the todo with the given id, keeping the order of the rest.
func (s *Store) Delete(ctx context.Context, id int64) error {
	ctx = s.backendCtx(ctx)
	s.logger.Debug("delete", "id", id)

	if s.Policy() == PolicyConfirmed {
		if _, ok := s.Get(id); !ok {
			return ErrTodoNotFound
		}
		if err := s.backend.Delete(ctx, id); err != nil {
			return s.fail("delete", id, err)
		}
		s.mu.Lock()
		if i := indexOf(s.todos, id); i >= 0 {
			s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
		}
		s.lastErr = nil
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	i := indexOf(s.todos, id)
	if i < 0 {
		s.mu.Unlock()
		return ErrTodoNotFound
	}
	removed := s.todos[i]
	s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
	s.mu.Unlock()

	if err := s.backend.Delete(ctx, id); err != nil {
		s.mu.Lock()
		if indexOf(s.todos, id) < 0 {
			at := min(i, len(s.todos))
			s.todos = append(s.todos[:at:at], append([]Todo{removed}, s.todos[at:]...)...)
		}
		s.mu.Unlock()
		return s.fail("delete", id, err)
	}

	s.succeed()
	return nil
}

// ToggleComplete marks an open todo completed now, or reopens a completed
// one. It returns the todo as it stands after the call.
func (s *Store) ToggleComplete(ctx context.Context, id int64) (Todo, error) {
	ctx = s.backendCtx(ctx)

	current, ok := s.Get(id)
	if !ok {
		return Todo{}, ErrTodoNotFound
	}

	var completion Completion
	if !current.IsCompleted() {
		now := s.now()
		completion.At = &now
	}
	patch := Patch{Completion: &completion}
	s.logger.Debug("toggle", "id", id, "completed", completion.At != nil)

	if s.Policy() == PolicyConfirmed {
		if err := s.backend.Update(ctx, id, patch); err != nil {
			return current, s.fail("toggle", id, err)
		}
		updated, _ := s.apply(id, patch)
		s.succeed()
		return updated, nil
	}

	updated, _ := s.apply(id, patch)
	if err := s.backend.Update(ctx, id, patch); err != nil {
		s.restore(current)
		return current, s.fail("toggle", id, err)
	}
	s.succeed()
	return updated, nil
}

// StartEdit opens an edit session for id with text as the draft.
// Any session already open is replaced.
func (s *Store) StartEdit(id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.todos, id) < 0 {
		return ErrTodoNotFound
	}
	s.edit = EditSession{ID: id, Draft: text}
	s.logger.Debug("edit started", "id", id)
	return nil
}

// SetEditDraft replaces the draft of the open edit session.
func (s *Store) SetEditDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit.Active() {
		s.edit.Draft = text
	}
}

// CancelEdit discards the edit session.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit.Active() {
		s.logger.Debug("edit cancelled", "id", s.edit.ID)
	}
	s.edit = EditSession{}
}

// SaveEdit commits the draft of the edit session for id. A blank draft is
// ignored and the session stays open. Otherwise the session is closed
// whether or not the backend accepts the change.
func (s *Store) SaveEdit(ctx context.Context, id int64) error {
	ctx = s.backendCtx(ctx)

	s.mu.Lock()
	session := s.edit
	if !session.Active() || session.ID != id {
		s.mu.Unlock()
		return ErrNoEditSession
	}
	if IsBlank(session.Draft) {
		s.mu.Unlock()
		s.logger.Debug("save ignored", "id", id, "reason", "blank")
		return nil
	}
	s.edit = EditSession{}
	i := indexOf(s.todos, id)
	var current Todo
	if i >= 0 {
		current = s.todos[i]
	}
	s.mu.Unlock()

	if i < 0 {
		return ErrTodoNotFound
	}

	patch := TaskPatch(session.Draft)
	s.logger.Debug("save", "id", id, "task", session.Draft)

	if s.Policy() == PolicyConfirmed {
		if err := s.backend.Update(ctx, id, patch); err != nil {
			return s.fail("edit", id, err)
		}
		s.apply(id, patch)
		s.succeed()
		return nil
	}

	s.apply(id, patch)
	if err := s.backend.Update(ctx, id, patch); err != nil {
		s.restore(current)
		return s.fail("edit", id, err)
	}
	s.succeed()
	return nil
}

// apply patches the local record for id if it is still present.
func (s *Store) apply(id int64, patch Patch) (Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.todos, id)
	if i < 0 {
		return Todo{}, false
	}
	s.todos[i] = patch.Apply(s.todos[i])
	item := s.todos[i]
	item.CompletedAt = cloneTime(item.CompletedAt)
	return item, true
}

// restore puts back a record captured before an optimistic change.
func (s *Store) restore(prior Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.todos, prior.ID); i >= 0 {
		s.todos[i] = prior
	}
}
