package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/ihower/todoapp/todo"
)

type panicBackend struct {
	*todo.MemoryBackend
}

func (panicBackend) List(context.Context) ([]todo.Todo, error) {
	panic("boom")
}

func newTestServer(t *testing.T, backend todo.Backend, key string) *httptest.Server {
	t.Helper()
	server, err := NewServer(ServerOptions{
		Backend: backend,
		Key:     key,
		Logger:  log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)
	return httpServer
}

func TestNewServer_RequiresBackend(t *testing.T) {
	if _, err := NewServer(ServerOptions{}); err == nil {
		t.Fatal("expected error for missing backend")
	}
}

func TestServerClientRoundTrip(t *testing.T) {
	httpServer := newTestServer(t, todo.NewSeededMemoryBackend(), "secret")
	client, err := NewClient(ClientOptions{URL: httpServer.URL, Key: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	todos, err := client.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	seed := todo.SeedTodos()
	if len(todos) != len(seed) {
		t.Fatalf("expected %d todos, got %d", len(seed), len(todos))
	}
	for i := range seed {
		if todos[i].ID != seed[i].ID || todos[i].Task != seed[i].Task {
			t.Errorf("todo %d: expected %+v, got %+v", i, seed[i], todos[i])
		}
		if (todos[i].CompletedAt == nil) != (seed[i].CompletedAt == nil) {
			t.Errorf("todo %d: completion mismatch", i)
		}
	}

	created, err := client.Insert(ctx, todo.Todo{Task: "Buy milk"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID <= 5 {
		t.Errorf("expected a fresh id, got %d", created.ID)
	}

	if err := client.Update(ctx, created.ID, todo.TaskPatch("Buy oat milk")); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := client.Delete(ctx, 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := client.Delete(ctx, 3); err != nil {
		t.Fatalf("second delete matched no rows and should still succeed: %v", err)
	}

	todos, err = client.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 5 || todos[len(todos)-1].Task != "Buy oat milk" {
		t.Fatalf("unexpected final list: %+v", todos)
	}
}

func TestServerStoreScenario(t *testing.T) {
	httpServer := newTestServer(t, todo.NewSeededMemoryBackend(), "")
	client, err := NewClient(ClientOptions{URL: httpServer.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	store, err := todo.NewStore(client, todo.Options{})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := store.ToggleComplete(ctx, 2); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := store.StartEdit(4, "更新網站內容"); err != nil {
		t.Fatalf("start edit: %v", err)
	}
	store.SetEditDraft("更新網站內容 v2")
	if err := store.SaveEdit(ctx, 4); err != nil {
		t.Fatalf("save edit: %v", err)
	}

	fresh, _ := todo.NewStore(client, todo.Options{})
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	two, _ := fresh.Get(2)
	four, _ := fresh.Get(4)
	if !two.IsCompleted() || four.Task != "更新網站內容 v2" {
		t.Fatalf("changes not persisted: %+v %+v", two, four)
	}
}

func TestServerRejectsBadKey(t *testing.T) {
	httpServer := newTestServer(t, todo.NewSeededMemoryBackend(), "secret")
	client, _ := NewClient(ClientOptions{URL: httpServer.URL, Key: "wrong"})

	_, err := client.List(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
}

func TestServerUnknownTable(t *testing.T) {
	httpServer := newTestServer(t, todo.NewSeededMemoryBackend(), "")
	client, _ := NewClient(ClientOptions{URL: httpServer.URL, Table: "tasks"})

	_, err := client.List(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Code != codeUndefinedTable {
		t.Fatalf("expected undefined table error, got %v", err)
	}
}

func TestServerRejectsBlankTask(t *testing.T) {
	httpServer := newTestServer(t, todo.NewSeededMemoryBackend(), "")

	resp := doRequest(t, http.MethodPost, httpServer.URL+"/rest/v1/todos", `[{"task":"  "}]`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	apiErr := decodeAPIError(t, resp)
	if apiErr.Code != codeCheckViolation {
		t.Errorf("expected check violation, got %+v", apiErr)
	}
}

func TestServerRejectsUnknownColumn(t *testing.T) {
	httpServer := newTestServer(t, todo.NewSeededMemoryBackend(), "")

	resp := doRequest(t, http.MethodPatch, httpServer.URL+"/rest/v1/todos?id=eq.1", `{"title":"x"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	apiErr := decodeAPIError(t, resp)
	if apiErr.Code != codeUnknownColumn || !strings.Contains(apiErr.Message, "title") {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestServerRequiresIDFilter(t *testing.T) {
	httpServer := newTestServer(t, todo.NewSeededMemoryBackend(), "")

	resp := doRequest(t, http.MethodDelete, httpServer.URL+"/rest/v1/todos", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServerInsertWithoutRepresentation(t *testing.T) {
	httpServer := newTestServer(t, todo.NewSeededMemoryBackend(), "")

	resp := doRequest(t, http.MethodPost, httpServer.URL+"/rest/v1/todos", `{"task":"single row"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 0 {
		t.Errorf("expected empty body, got %q", body)
	}
}

func TestServerOrderDesc(t *testing.T) {
	httpServer := newTestServer(t, todo.NewSeededMemoryBackend(), "")

	resp := doRequest(t, http.MethodGet, httpServer.URL+"/rest/v1/todos?select=*&order=id.desc", "")
	var rows []todo.Todo
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 5 || rows[0].ID != 5 || rows[4].ID != 1 {
		t.Fatalf("unexpected order: %+v", rows)
	}
}

func TestServerRecoversPanics(t *testing.T) {
	httpServer := newTestServer(t, panicBackend{todo.NewMemoryBackend()}, "")

	resp := doRequest(t, http.MethodGet, httpServer.URL+"/rest/v1/todos", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestServerPagesFallback(t *testing.T) {
	pages := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "page")
	})
	server, err := NewServer(ServerOptions{
		Backend: todo.NewSeededMemoryBackend(),
		Pages:   pages,
		Logger:  log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if recorder.Body.String() != "page" {
		t.Fatalf("expected pages handler, got %q", recorder.Body.String())
	}
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeAPIError(t *testing.T, resp *http.Response) APIError {
	t.Helper()
	var apiErr APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return apiErr
}
