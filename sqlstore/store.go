// Package sqlstore persists todos in a MySQL or PostgreSQL table.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ihower/todoapp/todo"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "todos"

// Options configures Open.
type Options struct {
	Driver Driver
	DSN    string

	// Table defaults to DefaultTable.
	Table string
}

// Store is a todo.Backend over a SQL table. The database assigns ids and
// every change is confirmed before a todo.Store applies it.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects, pings, and creates the table if it is missing.
func Open(ctx context.Context, opts Options) (*Store, error) {
	table := opts.Table
	if table == "" {
		table = DefaultTable
	}
	d, err := newDialect(opts.Driver, table)
	if err != nil {
		return nil, err
	}
	dsn, err := prepareDSN(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(opts.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", opts.Driver, err)
	}

	s := &Store{db: db, dialect: d}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database handle without migrating it.
func New(db *sql.DB, driver Driver, table string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	d, err := newDialect(driver, table)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, dialect: d}, nil
}

// Close closes the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Migrate creates the todos table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.createTable()); err != nil {
		return fmt.Errorf("create table %s: %w", s.dialect.table, err)
	}
	return nil
}

// Name implements todo.Backend.
func (s *Store) Name() string { return "sql" }

// Policy implements todo.Backend.
func (s *Store) Policy() todo.SyncPolicy { return todo.PolicyConfirmed }

// List returns every row ordered by ascending id.
func (s *Store) List(ctx context.Context) ([]todo.Todo, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.selectAll())
	if err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	defer rows.Close()

	out := []todo.Todo{}
	for rows.Next() {
		var item todo.Todo
		var completedAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.Task, &completedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		if completedAt.Valid {
			at := completedAt.Time.UTC()
			item.CompletedAt = &at
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	return out, nil
}

// Insert adds a row and returns it with the database-assigned id.
// Any id on item is ignored.
func (s *Store) Insert(ctx context.Context, item todo.Todo) (todo.Todo, error) {
	if err := todo.ValidateTask(item.Task); err != nil {
		return todo.Todo{}, err
	}
	completedAt := nullTime(item.CompletedAt)

	if s.dialect.driver == DriverPostgres {
		var id int64
		if err := s.db.QueryRowContext(ctx, s.dialect.insert(), item.Task, completedAt).Scan(&id); err != nil {
			return todo.Todo{}, fmt.Errorf("insert todo: %w", err)
		}
		item.ID = id
		return item, nil
	}

	result, err := s.db.ExecContext(ctx, s.dialect.insert(), item.Task, completedAt)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return todo.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	item.ID = id
	return item, nil
}

// Update writes the patched columns of the row with the given id.
func (s *Store) Update(ctx context.Context, id int64, patch todo.Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	var columns []string
	var args []any
	if patch.Task != nil {
		if err := todo.ValidateTask(*patch.Task); err != nil {
			return err
		}
		columns = append(columns, "task")
		args = append(args, *patch.Task)
	}
	if patch.Completion != nil {
		columns = append(columns, "completed_at")
		args = append(args, nullTime(patch.Completion.At))
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, s.dialect.update(columns), args...)
	if err != nil {
		return fmt.Errorf("update todo %d: %w", id, err)
	}
	return requireAffected(result)
}

// Delete removes the row with the given id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.dialect.delete(), id)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return todo.ErrTodoNotFound
	}
	return nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: value.UTC(), Valid: true}
}
