package todo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ihower/todoapp/internal/logging"
)

// Store holds the todo list shown to the user and keeps it in step with a
// Backend. It is safe for concurrent use; the lock is never held while the
// backend is called, so overlapping operations on one todo resolve in
// response order.
type Store struct {
	backend Backend
	logger  *log.Logger
	now     func() time.Time

	mu      sync.Mutex
	todos   []Todo
	input   string
	edit    EditSession
	lastErr error
}

// Options configures a Store.
type Options struct {
	// Logger receives the operation trace. If nil, output is discarded.
	Logger *log.Logger

	// Now returns the current time. If nil, time.Now is used.
	Now func() time.Time
}

// NewStore returns a Store that persists through backend.
// The collection starts empty until Load is called.
func NewStore(backend Backend, opts Options) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("todo backend is required")
	}
	if policy := backend.Policy(); !policy.IsValid() {
		return nil, fmt.Errorf("backend %s has unknown sync policy %q", backend.Name(), policy)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		backend: backend,
		logger:  logger.With("backend", backend.Name()),
		now:     now,
	}, nil
}

// Mode returns the backend name, such as "local" or "remote".
func (s *Store) Mode() string {
	return s.backend.Name()
}

// Policy returns the backend's sync policy.
func (s *Store) Policy() SyncPolicy {
	return s.backend.Policy()
}

// Todos returns a copy of the collection in display order.
func (s *Store) Todos() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTodos(s.todos)
}

// Get returns the todo with the given id.
func (s *Store) Get(id int64) (Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.todos, id)
	if i < 0 {
		return Todo{}, false
	}
	item := s.todos[i]
	item.CompletedAt = cloneTime(item.CompletedAt)
	return item, true
}

// Len returns the number of todos in the collection.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.todos)
}

// Input returns the new-task input draft.
func (s *Store) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// SetInput replaces the new-task input draft.
func (s *Store) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// Editing returns the current edit session.
func (s *Store) Editing() EditSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edit
}

// Err returns the most recent backend failure, or nil if the last
// operation that reached the backend succeeded.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearErr forgets the recorded backend failure.
func (s *Store) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// fail records and logs a backend failure and returns it wrapped.
func (s *Store) fail(op string, id int64, err error) error {
	syncErr := &SyncError{Op: op, ID: id, Err: err}
	s.logger.Error("todo operation failed", "op", op, "id", id, "err", err)

	s.mu.Lock()
	s.lastErr = syncErr
	s.mu.Unlock()
	return syncErr
}

func (s *Store) succeed() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Store) backendCtx(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
