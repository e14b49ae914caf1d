package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ihower/todoapp/todo"
)

// ServerOptions configures a Server.
type ServerOptions struct {
	// Backend stores the rows served. Required.
	Backend todo.Backend

	// Table is the only table served. Defaults to DefaultTable.
	Table string

	// Key, when set, must be presented in the apikey header.
	Key string

	// Pages, when set, handles every path outside the REST prefix.
	Pages http.Handler

	// Logger defaults to a stderr logger with the "remote" prefix.
	Logger *log.Logger
}

// Server exposes a todo.Backend over the same REST dialect Client speaks.
type Server struct {
	backend todo.Backend
	table   string
	key     string
	pages   http.Handler
	logger  *log.Logger
}

const shutdownTimeout = 5 * time.Second

const codeUndefinedTable = "42P01"

// NewServer creates a server.
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	table := strings.TrimSpace(opts.Table)
	if table == "" {
		table = DefaultTable
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "remote", ReportTimestamp: true})
	}
	return &Server{
		backend: opts.Backend,
		table:   table,
		key:     opts.Key,
		pages:   opts.Pages,
		logger:  logger,
	}, nil
}

// Handler returns the HTTP handler for the REST endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/v1/{table}", s.handleSelect)
	mux.HandleFunc("POST /rest/v1/{table}", s.handleInsert)
	mux.HandleFunc("PATCH /rest/v1/{table}", s.handleUpdate)
	mux.HandleFunc("DELETE /rest/v1/{table}", s.handleDelete)
	if s.pages != nil {
		mux.Handle("/", s.pages)
	}
	return s.recoverHandler(mux)
}

// ShutdownSignals are the signals that stop a server gracefully.
func ShutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

// Serve runs the server on the given address until it fails, ctx is
// done, or the process receives one of ShutdownSignals.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, ShutdownSignals()...)
	defer stop()

	server := &http.Server{
		Addr:     addr,
		Handler:  s.Handler(),
		ErrorLog: s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	s.logger.Info("serving", "addr", addr, "table", s.table, "backend", s.backend.Name())

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) || !s.requireTable(w, r) {
		return
	}
	query := r.URL.Query()

	rows, err := s.backend.List(r.Context())
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}

	if query.Has("id") {
		id, err := parseIDFilter(query.Get("id"))
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, &APIError{Code: codeBadFilter, Message: err.Error()})
			return
		}
		rows = slices.DeleteFunc(rows, func(item todo.Todo) bool { return item.ID != id })
	}

	switch order := query.Get("order"); order {
	case "", "id.asc":
		slices.SortStableFunc(rows, func(a, b todo.Todo) int { return compareIDs(a.ID, b.ID) })
	case "id.desc":
		slices.SortStableFunc(rows, func(a, b todo.Todo) int { return compareIDs(b.ID, a.ID) })
	default:
		s.writeError(w, r, http.StatusBadRequest, &APIError{
			Code:    codeBadFilter,
			Message: fmt.Sprintf("unsupported order %q", order),
			Hint:    "use id.asc or id.desc",
		})
		return
	}

	if rows == nil {
		rows = []todo.Todo{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) || !s.requireTable(w, r) {
		return
	}
	rows, err := s.decodeInsertRows(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	created := make([]todo.Todo, 0, len(rows))
	for _, row := range rows {
		item, err := s.backend.Insert(r.Context(), row)
		if err != nil {
			s.writeBackendError(w, r, err)
			return
		}
		created = append(created, item)
	}

	if wantsRepresentation(r) {
		writeJSON(w, http.StatusCreated, created)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) || !s.requireTable(w, r) {
		return
	}
	id, ok := s.requireIDFilter(w, r)
	if !ok {
		return
	}
	patch, err := s.decodePatch(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	affected := []todo.Todo{}
	err = s.backend.Update(r.Context(), id, patch)
	switch {
	case errors.Is(err, todo.ErrTodoNotFound):
	case err != nil:
		s.writeBackendError(w, r, err)
		return
	default:
		if item, found, err := s.find(r.Context(), id); err != nil {
			s.writeBackendError(w, r, err)
			return
		} else if found {
			affected = append(affected, item)
		}
	}

	s.writeAffected(w, r, affected)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) || !s.requireTable(w, r) {
		return
	}
	id, ok := s.requireIDFilter(w, r)
	if !ok {
		return
	}

	affected := []todo.Todo{}
	item, found, err := s.find(r.Context(), id)
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	if found {
		err := s.backend.Delete(r.Context(), id)
		switch {
		case errors.Is(err, todo.ErrTodoNotFound):
		case err != nil:
			s.writeBackendError(w, r, err)
			return
		default:
			affected = append(affected, item)
		}
	}

	s.writeAffected(w, r, affected)
}

func (s *Server) find(ctx context.Context, id int64) (todo.Todo, bool, error) {
	rows, err := s.backend.List(ctx)
	if err != nil {
		return todo.Todo{}, false, err
	}
	for _, item := range rows {
		if item.ID == id {
			return item, true, nil
		}
	}
	return todo.Todo{}, false, nil
}

func (s *Server) writeAffected(w http.ResponseWriter, r *http.Request, rows []todo.Todo) {
	if wantsRepresentation(r) {
		writeJSON(w, http.StatusOK, rows)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	if s.key == "" || r.Header.Get("apikey") == s.key {
		return true
	}
	s.writeError(w, r, http.StatusUnauthorized, &APIError{
		Code:    codeUnauthorized,
		Message: "Invalid API key",
		Hint:    "Check the apikey header.",
	})
	return false
}

func (s *Server) requireTable(w http.ResponseWriter, r *http.Request) bool {
	if table := r.PathValue("table"); table != s.table {
		s.writeError(w, r, http.StatusNotFound, &APIError{
			Code:    codeUndefinedTable,
			Message: fmt.Sprintf("relation %q does not exist", table),
		})
		return false
	}
	return true
}

func (s *Server) requireIDFilter(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseIDFilter(r.URL.Query().Get("id"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, &APIError{
			Code:    codeBadFilter,
			Message: err.Error(),
			Hint:    "filter rows with id=eq.<id>",
		})
		return 0, false
	}
	return id, true
}

func parseIDFilter(value string) (int64, error) {
	raw, ok := strings.CutPrefix(value, "eq.")
	if !ok {
		return 0, fmt.Errorf("unsupported id filter %q", value)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id filter %q", value)
	}
	return id, nil
}

func wantsRepresentation(r *http.Request) bool {
	for _, pref := range strings.Split(r.Header.Get("Prefer"), ",") {
		if strings.TrimSpace(pref) == "return=representation" {
			return true
		}
	}
	return false
}

func compareIDs(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

var writableColumns = []string{"id", "task", "completed_at"}

func (s *Server) readColumns(data []byte) ([]map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &APIError{Code: codeInvalidBody, Message: "empty request body"}
	}

	var rows []map[string]json.RawMessage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, &APIError{Code: codeInvalidBody, Message: err.Error()}
		}
	} else {
		var row map[string]json.RawMessage
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, &APIError{Code: codeInvalidBody, Message: err.Error()}
		}
		rows = append(rows, row)
	}

	for _, row := range rows {
		for column := range row {
			if !slices.Contains(writableColumns, column) {
				return nil, &APIError{
					Code:    codeUnknownColumn,
					Message: fmt.Sprintf("Could not find the '%s' column of '%s'", column, s.table),
				}
			}
		}
	}
	return rows, nil
}

func (s *Server) decodeInsertRows(r *http.Request) ([]todo.Todo, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	columns, err := s.readColumns(data)
	if err != nil {
		return nil, err
	}

	rows := make([]todo.Todo, 0, len(columns))
	for _, row := range columns {
		var item todo.Todo
		if raw, ok := row["id"]; ok {
			if err := json.Unmarshal(raw, &item.ID); err != nil {
				return nil, &APIError{Code: codeInvalidBody, Message: fmt.Sprintf("invalid id: %v", err)}
			}
		}
		if raw, ok := row["task"]; ok {
			if err := json.Unmarshal(raw, &item.Task); err != nil {
				return nil, &APIError{Code: codeInvalidBody, Message: fmt.Sprintf("invalid task: %v", err)}
			}
		}
		if raw, ok := row["completed_at"]; ok {
			if err := json.Unmarshal(raw, &item.CompletedAt); err != nil {
				return nil, &APIError{Code: codeInvalidBody, Message: fmt.Sprintf("invalid completed_at: %v", err)}
			}
		}
		rows = append(rows, item)
	}
	return rows, nil
}

func (s *Server) decodePatch(r *http.Request) (todo.Patch, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return todo.Patch{}, err
	}
	columns, err := s.readColumns(data)
	if err != nil {
		return todo.Patch{}, err
	}
	if len(columns) != 1 {
		return todo.Patch{}, &APIError{Code: codeInvalidBody, Message: "update body must be a single object"}
	}
	row := columns[0]
	if _, ok := row["id"]; ok {
		return todo.Patch{}, &APIError{Code: codeInvalidBody, Message: "id cannot be updated"}
	}

	var patch todo.Patch
	if raw, ok := row["task"]; ok {
		var task string
		if err := json.Unmarshal(raw, &task); err != nil {
			return todo.Patch{}, &APIError{Code: codeInvalidBody, Message: fmt.Sprintf("invalid task: %v", err)}
		}
		patch.Task = &task
	}
	if raw, ok := row["completed_at"]; ok {
		var at *time.Time
		if err := json.Unmarshal(raw, &at); err != nil {
			return todo.Patch{}, &APIError{Code: codeInvalidBody, Message: fmt.Sprintf("invalid completed_at: %v", err)}
		}
		patch.Completion = &todo.Completion{At: at}
	}
	return patch, nil
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logger.Error("panic handling request", "method", r.Method, "path", r.URL.Path, "panic", recovered, "stack", string(debug.Stack()))
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, &APIError{Code: codeInternal, Message: "internal server error"})
			}
		}()
		next.ServeHTTP(writer, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", writer.status)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeBackendError maps backend failures onto the data service's error
// statuses.
func (s *Server) writeBackendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, todo.ErrEmptyTask), errors.Is(err, todo.ErrInvalidID):
		s.writeError(w, r, http.StatusBadRequest, &APIError{Code: codeCheckViolation, Message: err.Error()})
	case errors.Is(err, todo.ErrDuplicateID):
		s.writeError(w, r, http.StatusConflict, &APIError{Code: codeUniqueViolation, Message: err.Error()})
	default:
		s.writeError(w, r, http.StatusInternalServerError, &APIError{Code: codeInternal, Message: err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = &APIError{Message: err.Error()}
	}
	apiErr.Status = status
	writeJSON(w, status, apiErr)
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
	status      int
}

func (w *responseTracker) WriteHeader(status int) {
	w.wroteHeader = true
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(data)
}
