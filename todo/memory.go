package todo

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryBackend keeps todos in process memory in insertion order.
// Nothing survives the process.
type MemoryBackend struct {
	mu    sync.RWMutex
	todos []Todo
	now   func() time.Time
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{now: time.Now}
}

// NewSeededMemoryBackend returns an in-memory backend holding SeedTodos.
func NewSeededMemoryBackend() *MemoryBackend {
	backend := NewMemoryBackend()
	backend.todos = SeedTodos()
	return backend
}

// Name implements Backend.
func (b *MemoryBackend) Name() string { return "local" }

// Policy implements Backend.
func (b *MemoryBackend) Policy() SyncPolicy { return PolicyOptimistic }

// List implements Backend.
func (b *MemoryBackend) List(ctx context.Context) ([]Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneTodos(b.todos), nil
}

// Insert implements Backend.
func (b *MemoryBackend) Insert(ctx context.Context, item Todo) (Todo, error) {
	if err := ctx.Err(); err != nil {
		return Todo{}, err
	}
	if err := ValidateTodo(&item); err != nil {
		return Todo{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if item.ID == 0 {
		item.ID = GenerateID(b.now(), b.todos)
	} else if indexOf(b.todos, item.ID) >= 0 {
		return Todo{}, fmt.Errorf("%w: %d", ErrDuplicateID, item.ID)
	}
	item.CompletedAt = cloneTime(item.CompletedAt)
	b.todos = append(b.todos, item)
	return item, nil
}

// Update implements Backend.
func (b *MemoryBackend) Update(ctx context.Context, id int64, patch Patch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if patch.Task != nil {
		if err := ValidateTask(*patch.Task); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := indexOf(b.todos, id)
	if i < 0 {
		return ErrTodoNotFound
	}
	b.todos[i] = patch.Apply(b.todos[i])
	return nil
}

// Delete implements Backend.
func (b *MemoryBackend) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := indexOf(b.todos, id)
	if i < 0 {
		return ErrTodoNotFound
	}
	b.todos = append(b.todos[:i:i], b.todos[i+1:]...)
	return nil
}
