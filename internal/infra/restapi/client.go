// Package restapi implements domain.TaskAPI against the task REST backend.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/runoshun/todo/internal/domain"
)

// Ensure Client implements domain.TaskAPI.
var _ domain.TaskAPI = (*Client)(nil)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Options configures a Client.
// Fields are ordered to minimize memory padding.
type Options struct {
	HTTPClient *http.Client // Base transport (nil = http.DefaultClient)
	Logger     *slog.Logger
	BaseURL    string
	Token      string // Bearer token (optional)
	FindPath   string // "legacy" selects GET /tasks/:id
	Timeout    time.Duration
}

// Client talks to the REST backend.
type Client struct {
	http       *http.Client
	logger     *slog.Logger
	baseURL    *url.URL
	timeout    time.Duration
	legacyFind bool
}

// New creates a client. When a token is configured every request carries it
// as a bearer token.
func New(ctx context.Context, opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", base.Scheme)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if opts.Token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: opts.Token,
			TokenType:   "Bearer",
		}))
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultAPITimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		http:       httpClient,
		logger:     logger,
		baseURL:    base,
		timeout:    timeout,
		legacyFind: opts.FindPath == domain.LegacyFindPath,
	}, nil
}

// APIError is a non-2xx response other than 404 on a single task.
type APIError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

// errorEnvelope is the JSON error body: {"error":{"code","message"}}.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// List returns one page of tasks.
func (c *Client) List(ctx context.Context, q domain.TaskQuery) ([]domain.Task, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Overdue {
		params.Set("overdue", "true")
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/tasks", params, nil, &raw); err != nil {
		return nil, err
	}
	return decodeTaskList(raw)
}

// Count returns the number of tasks matching the filters.
func (c *Client) Count(ctx context.Context, q domain.TaskQuery) (int, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}
	if q.Overdue {
		params.Set("overdue", "true")
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/tasks/count", params, nil, &raw); err != nil {
		return 0, err
	}
	return decodeCount(raw)
}

// SearchByTitle returns tasks whose title contains title.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]domain.Task, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/tasks/search/"+segment(title), nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodeTaskList(raw)
}

// Get returns one task.
func (c *Client) Get(ctx context.Context, id string) (*domain.Task, error) {
	path := "/tasks/find/" + segment(id)
	if c.legacyFind {
		path = "/tasks/" + segment(id)
	}
	var task domain.Task
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &task); err != nil {
		return nil, notFound(err, id)
	}
	return &task, nil
}

// createBody is the POST payload; the server assigns the id.
type createBody struct {
	CreatedAt   time.Time     `json:"createdAt"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      domain.Status `json:"status"`
}

// Create posts a new task and returns it as stored.
func (c *Client) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	body := createBody{
		CreatedAt:   task.CreatedAt,
		DueDate:     task.DueDate,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
	}
	var created domain.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update sends a partial update. A clearing due date is sent as null.
func (c *Client) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Description != nil {
		body["description"] = *patch.Description
	}
	if patch.Status != nil {
		body["status"] = *patch.Status
	}
	if patch.ClearDueDate {
		body["dueDate"] = nil
	}
	if patch.DueDate != nil {
		body["dueDate"] = patch.DueDate
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+segment(id), nil, body, &raw); err != nil {
		return nil, notFound(err, id)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		// Some backends answer 204; read the task back.
		return c.Get(ctx, id)
	}
	var task domain.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &task, nil
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/tasks/"+segment(id), nil, nil, nil); err != nil {
		return notFound(err, id)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// path is already escaped and must not be cleaned: a search for ".."
	// would otherwise turn into GET /tasks.
	u := *c.baseURL
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + path
	p, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return fmt.Errorf("build request path: %w", err)
	}
	u.Path = p
	u.RawQuery = params.Encode()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("api call", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = data
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) error {
	apiErr := &APIError{StatusCode: status}
	var env errorEnvelope
	if json.Unmarshal(data, &env) == nil && (env.Error.Code != "" || env.Error.Message != "") {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
	} else if msg := strings.TrimSpace(string(data)); msg != "" && len(msg) < 200 {
		apiErr.Message = msg
	}
	return apiErr
}

// notFound maps a 404 on a single-task endpoint to domain.ErrTaskNotFound.
// segment escapes one path segment. Dot segments are percent-encoded so
// neither side of the connection resolves them.
func segment(s string) string {
	switch s {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return url.PathEscape(s)
}

func notFound(err error, id string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return err
}

// decodeTaskList accepts a bare array or an object wrapping it under
// "tasks" or "data".
func decodeTaskList(raw []byte) ([]domain.Task, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []domain.Task{}, nil
	}
	var tasks []domain.Task
	if raw[0] == '{' {
		var wrapped struct {
			Tasks []domain.Task `json:"tasks"`
			Data  []domain.Task `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode tasks: %w", err)
		}
		tasks = wrapped.Tasks
		if tasks == nil {
			tasks = wrapped.Data
		}
	} else if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// decodeCount accepts a bare number, a numeric string or {"count": n}.
func decodeCount(raw []byte) (int, error) {
	raw = bytes.TrimSpace(raw)
	var n json.Number
	if len(raw) > 0 && raw[0] == '{' {
		var wrapped struct {
			Count json.Number `json:"count"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return 0, fmt.Errorf("decode count: %w", err)
		}
		n = wrapped.Count
	} else {
		s := strings.Trim(string(raw), `"`)
		n = json.Number(s)
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return int(v), nil
}
