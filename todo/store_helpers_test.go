package todo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errBackendDown = errors.New("backend down")

// fakeBackend wraps a MemoryBackend with a configurable policy, failure
// injection, and call counting.
type fakeBackend struct {
	*MemoryBackend

	policy SyncPolicy

	mu     sync.Mutex
	fail   map[string]error
	calls  map[string]int
	nextID int64
}

func newFakeBackend(policy SyncPolicy, seed []Todo) *fakeBackend {
	mem := NewMemoryBackend()
	mem.todos = cloneTodos(seed)
	return &fakeBackend{
		MemoryBackend: mem,
		policy:        policy,
		fail:          make(map[string]error),
		calls:         make(map[string]int),
		nextID:        100,
	}
}

func (b *fakeBackend) Name() string {
	if b.policy == PolicyConfirmed {
		return "remote"
	}
	return "local"
}

func (b *fakeBackend) Policy() SyncPolicy { return b.policy }

func (b *fakeBackend) failOn(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[op] = err
}

func (b *fakeBackend) count(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *fakeBackend) record(op string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[op]++
	return b.fail[op]
}

func (b *fakeBackend) List(ctx context.Context) ([]Todo, error) {
	if err := b.record("list"); err != nil {
		return nil, err
	}
	return b.MemoryBackend.List(ctx)
}

func (b *fakeBackend) Insert(ctx context.Context, item Todo) (Todo, error) {
	if err := b.record("insert"); err != nil {
		return Todo{}, err
	}
	if b.policy == PolicyConfirmed {
		b.mu.Lock()
		b.nextID++
		item.ID = b.nextID
		b.mu.Unlock()
	}
	return b.MemoryBackend.Insert(ctx, item)
}

func (b *fakeBackend) Update(ctx context.Context, id int64, patch Patch) error {
	if err := b.record("update"); err != nil {
		return err
	}
	return b.MemoryBackend.Update(ctx, id, patch)
}

func (b *fakeBackend) Delete(ctx context.Context, id int64) error {
	if err := b.record("delete"); err != nil {
		return err
	}
	return b.MemoryBackend.Delete(ctx, id)
}

var fixedNow = time.Date(2024, 7, 21, 8, 0, 0, 0, time.UTC)

// newTestStore returns a loaded Store over a seeded fake backend.
func newTestStore(t *testing.T, policy SyncPolicy) (*Store, *fakeBackend) {
	t.Helper()

	backend := newFakeBackend(policy, SeedTodos())
	store, err := NewStore(backend, Options{Now: func() time.Time { return fixedNow }})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	return store, backend
}

func ids(todos []Todo) []int64 {
	out := make([]int64, len(todos))
	for i, item := range todos {
		out[i] = item.ID
	}
	return out
}
