package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ihower/todoapp/internal/logging"
	internalstrings "github.com/ihower/todoapp/internal/strings"
	"github.com/ihower/todoapp/todo"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "todos"

// ClientOptions configures a Client.
type ClientOptions struct {
	// URL is the project URL of the data service, such as
	// https://xyz.supabase.co. The REST prefix is added by the client.
	URL string

	// Key is sent as both the apikey header and the bearer token.
	Key string

	// Table defaults to DefaultTable.
	Table string

	// HTTPClient defaults to a new http.Client.
	HTTPClient *http.Client

	// Logger receives warnings about skipped rows. If nil, output is
	// discarded.
	Logger *log.Logger
}

// Client is a todo.Backend for the hosted data service's REST dialect.
// Changes are confirmed by the service before a Store applies them, and
// the service assigns ids.
type Client struct {
	endpoint string
	key      string
	table    string
	client   *http.Client
	logger   *log.Logger
}

// NewClient creates a client for the given project URL.
func NewClient(opts ClientOptions) (*Client, error) {
	if internalstrings.IsBlank(opts.URL) {
		return nil, fmt.Errorf("remote url is required")
	}
	baseURL := internalstrings.TrimTrailingSlash(strings.TrimSpace(opts.URL))
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse remote url: %w", err)
	}

	table := strings.TrimSpace(opts.Table)
	if table == "" {
		table = DefaultTable
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Client{
		endpoint: baseURL + "/rest/v1/" + url.PathEscape(table),
		key:      opts.Key,
		table:    table,
		client:   httpClient,
		logger:   logger,
	}, nil
}

// Name implements todo.Backend.
func (c *Client) Name() string { return "remote" }

// Policy implements todo.Backend.
func (c *Client) Policy() todo.SyncPolicy { return todo.PolicyConfirmed }

// Table returns the table the client reads and writes.
func (c *Client) Table() string { return c.table }

// List returns every row ordered by ascending id. Rows that do not match
// the table shape are skipped and logged.
func (c *Client) List(ctx context.Context) ([]todo.Todo, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "id.asc")

	data, err := c.do(ctx, http.MethodGet, query, nil, false)
	if err != nil {
		return nil, err
	}
	rows := []todo.Todo{}
	if data == nil {
		return rows, nil
	}

	valid, rejected, err := SplitRows(data)
	if err != nil {
		return nil, err
	}
	for _, rowErr := range rejected {
		c.logger.Warn("skipping todo row", "table", c.table, "err", rowErr)
	}
	for _, item := range valid {
		var row todo.Todo
		if err := json.Unmarshal(item, &row); err != nil {
			return nil, fmt.Errorf("decode todo rows: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Insert creates a row and returns it with the id assigned by the service.
// Any id on item is ignored.
func (c *Client) Insert(ctx context.Context, item todo.Todo) (todo.Todo, error) {
	if err := todo.ValidateTask(item.Task); err != nil {
		return todo.Todo{}, err
	}
	payload := []insertRow{{Task: item.Task, CompletedAt: item.CompletedAt}}

	data, err := c.do(ctx, http.MethodPost, nil, payload, true)
	if err != nil {
		return todo.Todo{}, err
	}
	rows, err := decodeRows(data)
	if err != nil {
		return todo.Todo{}, err
	}
	if len(rows) != 1 {
		return todo.Todo{}, fmt.Errorf("insert returned %d rows, expected 1", len(rows))
	}
	return rows[0], nil
}

// Update applies patch to the row with the given id. Any 2xx response is
// success, including one that matched no rows.
func (c *Client) Update(ctx context.Context, id int64, patch todo.Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	if patch.Task != nil {
		if err := todo.ValidateTask(*patch.Task); err != nil {
			return err
		}
	}

	_, err := c.do(ctx, http.MethodPatch, idFilter(id), patch.Fields(), false)
	return err
}

// Delete removes the row with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, idFilter(id), nil, false)
	return err
}

type insertRow struct {
	Task        string     `json:"task"`
	CompletedAt *time.Time `json:"completed_at"`
}

func idFilter(id int64) url.Values {
	query := url.Values{}
	query.Set("id", "eq."+strconv.FormatInt(id, 10))
	return query
}

// do sends one request and returns the response body, or nil when it is
// empty. When represent is true the service is asked to return the
// affected rows.
func (c *Client) do(ctx context.Context, method string, query url.Values, payload any, represent bool) ([]byte, error) {
	target := c.endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set("apikey", c.key)
		req.Header.Set("Authorization", "Bearer "+c.key)
	}
	if represent {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readErrorResponse(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return data, nil
}

// decodeRows validates every returned row before decoding.
func decodeRows(data []byte) ([]todo.Todo, error) {
	if data == nil {
		return nil, nil
	}
	if err := ValidateRows(data); err != nil {
		return nil, err
	}
	var rows []todo.Todo
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode todo rows: %w", err)
	}
	return rows, nil
}
