package todo

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryBackend_Seeded(t *testing.T) {
	backend := NewSeededMemoryBackend()

	todos, err := backend.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(todos) != 5 {
		t.Fatalf("expected 5 seeded todos, got %d", len(todos))
	}
	for i, item := range todos {
		if item.ID != int64(i+1) {
			t.Errorf("todo %d: expected id %d, got %d", i, i+1, item.ID)
		}
	}
	if backend.Name() != "local" || backend.Policy() != PolicyOptimistic {
		t.Errorf("unexpected backend identity %s/%s", backend.Name(), backend.Policy())
	}
}

func TestMemoryBackend_SeedIsNotShared(t *testing.T) {
	a := NewSeededMemoryBackend()
	b := NewSeededMemoryBackend()

	if err := a.Delete(context.Background(), 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	todos, _ := b.List(context.Background())
	if len(todos) != 5 {
		t.Errorf("deleting from one backend changed another: %d todos", len(todos))
	}
}

func TestMemoryBackend_InsertAssignsID(t *testing.T) {
	backend := NewMemoryBackend()

	created, err := backend.Insert(context.Background(), Todo{Task: "Buy milk"})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if created.ID <= 0 {
		t.Errorf("expected an assigned id, got %d", created.ID)
	}
}

func TestMemoryBackend_InsertRejects(t *testing.T) {
	backend := NewSeededMemoryBackend()
	ctx := context.Background()

	if _, err := backend.Insert(ctx, Todo{ID: 1, Task: "dup"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := backend.Insert(ctx, Todo{Task: " "}); !errors.Is(err, ErrEmptyTask) {
		t.Errorf("expected ErrEmptyTask, got %v", err)
	}
}

func TestMemoryBackend_UpdateAndDelete(t *testing.T) {
	backend := NewSeededMemoryBackend()
	ctx := context.Background()

	if err := backend.Update(ctx, 2, TaskPatch("renamed")); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := backend.Update(ctx, 2, CompletionPatch(nil)); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := backend.Update(ctx, 99, TaskPatch("x")); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("expected ErrTodoNotFound, got %v", err)
	}
	if err := backend.Update(ctx, 2, TaskPatch("")); !errors.Is(err, ErrEmptyTask) {
		t.Errorf("expected ErrEmptyTask, got %v", err)
	}
	if err := backend.Delete(ctx, 99); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("expected ErrTodoNotFound, got %v", err)
	}
	if err := backend.Delete(ctx, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	todos, _ := backend.List(ctx)
	if len(todos) != 4 || todos[0].ID != 2 || todos[0].Task != "renamed" {
		t.Errorf("unexpected state after update/delete: %+v", todos)
	}
}

func TestMemoryBackend_CancelledContext(t *testing.T) {
	backend := NewSeededMemoryBackend()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := backend.List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPatch_Fields(t *testing.T) {
	fields := CompletionPatch(nil).Fields()
	if value, ok := fields["completed_at"]; !ok || value != nil {
		t.Errorf("cleared completion should encode as nil, got %#v", fields)
	}
	if _, ok := fields["task"]; ok {
		t.Errorf("task should be absent from a completion patch")
	}
	if !(Patch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
}
