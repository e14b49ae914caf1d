// Package web serves the todo list as server-rendered HTML forms.
package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ihower/todoapp/internal/logging"
	"github.com/ihower/todoapp/internal/ui"
	"github.com/ihower/todoapp/todo"
)

// Title is the page heading.
const Title = "待辦事項"

// Options configures the web handler.
type Options struct {
	Store *todo.Store

	// Logger receives request diagnostics. Defaults to discarding output.
	Logger *log.Logger

	// Now is used for completion ages. Defaults to time.Now.
	Now func() time.Time
}

// Handler serves the todo page and its form actions.
type Handler struct {
	store     *todo.Store
	logger    *log.Logger
	now       func() time.Time
	mux       *http.ServeMux
	templates *templateWrapper

	mu    sync.Mutex
	flash string
}

// NewHandler creates a new web handler.
func NewHandler(opts Options) (*Handler, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("todo store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	handler := &Handler{
		store:     opts.Store,
		logger:    logger,
		now:       now,
		templates: newTemplateWrapper(),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", handler.handleIndex)
	mux.HandleFunc("POST /reload", handler.handleReload)
	mux.HandleFunc("POST /todos/add", handler.handleAdd)
	mux.HandleFunc("POST /todos/{id}/toggle", handler.handleToggle)
	mux.HandleFunc("POST /todos/{id}/edit", handler.handleEdit)
	mux.HandleFunc("POST /todos/{id}/save", handler.handleSave)
	mux.HandleFunc("POST /todos/{id}/cancel", handler.handleCancel)
	mux.HandleFunc("POST /todos/{id}/delete", handler.handleDelete)
	handler.mux = mux
	return handler, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, data pageData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tw.tmpl.ExecuteTemplate(w, "page", data)
}

type pageData struct {
	Title   string
	Mode    string
	Input   string
	Error   string
	Todos   []todoRow
	Pending int
}

type todoRow struct {
	ID         int64
	Task       string
	Completed  bool
	Completion string
	Editing    bool
	Draft      string
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	todos := h.store.Todos()
	editing := h.store.Editing()
	now := h.now()

	rows := make([]todoRow, 0, len(todos))
	pending := 0
	for _, item := range todos {
		row := todoRow{
			ID:         item.ID,
			Task:       item.Task,
			Completed:  item.IsCompleted(),
			Completion: ui.FormatCompletion(item.CompletedAt, now),
		}
		if editing.Active() && editing.ID == item.ID {
			row.Editing = true
			row.Draft = editing.Draft
		}
		if !row.Completed {
			pending++
		}
		rows = append(rows, row)
	}

	errText := h.consumeFlash()
	if err := h.store.Err(); err != nil && errText == "" {
		errText = err.Error()
	}

	data := pageData{
		Title:   Title,
		Mode:    h.store.Mode(),
		Input:   h.store.Input(),
		Error:   errText,
		Todos:   rows,
		Pending: pending,
	}
	if err := h.templates.Render(w, data); err != nil {
		h.logger.Error("render page", "err", err)
	}
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Load(r.Context()); err != nil {
		h.logger.Warn("reload failed", "err", err)
	}
	redirectHome(w, r)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.setFlash("invalid form input")
		redirectHome(w, r)
		return
	}
	h.store.SetInput(r.PostFormValue("task"))
	if _, err := h.store.Submit(r.Context()); err != nil {
		h.logger.Warn("add failed", "err", err)
	}
	redirectHome(w, r)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.store.ToggleComplete(r.Context(), id); err != nil {
		h.reportActionError("toggle", id, err)
	}
	redirectHome(w, r)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	item, found := h.store.Get(id)
	if !found {
		h.reportActionError("edit", id, todo.ErrTodoNotFound)
		redirectHome(w, r)
		return
	}
	if err := h.store.StartEdit(id, item.Task); err != nil {
		h.reportActionError("edit", id, err)
	}
	redirectHome(w, r)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.setFlash("invalid form input")
		redirectHome(w, r)
		return
	}
	if session := h.store.Editing(); session.Active() && session.ID == id {
		h.store.SetEditDraft(r.PostFormValue("task"))
	}
	if err := h.store.SaveEdit(r.Context(), id); err != nil {
		h.reportActionError("save", id, err)
	} else if h.store.Editing().Active() {
		h.setFlash(todo.ErrEmptyTask.Error())
	}
	redirectHome(w, r)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.pathID(w, r); !ok {
		return
	}
	h.store.CancelEdit()
	redirectHome(w, r)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.reportActionError("delete", id, err)
	}
	redirectHome(w, r)
}

// reportActionError flashes errors the store does not record itself.
func (h *Handler) reportActionError(op string, id int64, err error) {
	var syncErr *todo.SyncError
	if errors.As(err, &syncErr) {
		h.logger.Warn(op+" failed", "id", id, "err", err)
		return
	}
	h.logger.Debug(op+" rejected", "id", id, "err", err)
	h.setFlash(fmt.Sprintf("%s todo %d: %v", op, id, err))
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := todo.ParseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) setFlash(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flash = text
}

func (h *Handler) consumeFlash() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	text := h.flash
	h.flash = ""
	return text
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
