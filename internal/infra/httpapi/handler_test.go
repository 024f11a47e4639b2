package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/infra/sqlstore"
	"github.com/runoshun/todo/internal/testutil"
)

var now = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *sqlstore.Store
	handler http.Handler
}

func newFixture(t *testing.T, hardDelete bool) *fixture {
	t.Helper()
	store, err := sqlstore.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	n := 0
	h := NewHandler(store, Options{
		Clock:      &testutil.MockClock{NowTime: now},
		HardDelete: hardDelete,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	return &fixture{store: store, handler: h.Routes()}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) seed(t *testing.T, n int, status func(i int) domain.Status) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, f.store.Insert(context.Background(), &domain.Task{
			ID:        fmt.Sprintf("t%02d", i),
			Title:     fmt.Sprintf("Task %d", i),
			Status:    status(i),
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func pending(int) domain.Status { return domain.StatusPending }

func decodeTasks(t *testing.T, rec *httptest.ResponseRecorder) []domain.Task {
	t.Helper()
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	return tasks
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

func TestHandler_Healthz(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandler_List(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, 12, pending)

	t.Run("default page and limit", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks", "")
		require.Equal(t, http.StatusOK, rec.Code)
		tasks := decodeTasks(t, rec)
		require.Len(t, tasks, domain.DefaultLimit)
		assert.Equal(t, "t01", tasks[0].ID)
	})

	t.Run("explicit page", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks?page=3&limit=5", "")
		require.Equal(t, http.StatusOK, rec.Code)
		tasks := decodeTasks(t, rec)
		require.Len(t, tasks, 2)
		assert.Equal(t, "t11", tasks[0].ID)
	})

	t.Run("empty page is an empty array", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks?page=9", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestHandler_List_BadParams(t *testing.T) {
	f := newFixture(t, false)

	for _, target := range []string{
		"/tasks?page=0",
		"/tasks?page=x",
		"/tasks?limit=101",
		"/tasks?limit=0",
		"/tasks?status=7",
		"/tasks?overdue=maybe",
	} {
		t.Run(target, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_CountWithStatus(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, 9, func(i int) domain.Status {
		if i%3 == 0 {
			return domain.StatusInProgress
		}
		return domain.StatusPending
	})

	rec := f.do(t, http.MethodGet, "/tasks/count?status=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", strings.TrimSpace(rec.Body.String()))

	rec = f.do(t, http.MethodGet, "/tasks/count", "")
	assert.Equal(t, "9", strings.TrimSpace(rec.Body.String()))

	// Names are accepted too
	rec = f.do(t, http.MethodGet, "/tasks/count?status=IN_PROGRESS", "")
	assert.Equal(t, "3", strings.TrimSpace(rec.Body.String()))
}

func TestHandler_Search(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, 12, pending)

	rec := f.do(t, http.MethodGet, "/tasks/search/task%201", "")

	require.Equal(t, http.StatusOK, rec.Code)
	tasks := decodeTasks(t, rec)
	// "Task 1", "Task 10", "Task 11", "Task 12"
	assert.Len(t, tasks, 4)
}

func TestHandler_Get(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, 1, pending)

	for _, target := range []string{"/tasks/find/t01", "/tasks/t01"} {
		rec := f.do(t, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		var task domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		assert.Equal(t, "Task 1", task.Title)
	}

	rec := f.do(t, http.MethodGet, "/tasks/find/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

func TestHandler_Create(t *testing.T) {
	// Setup
	f := newFixture(t, false)

	// Execute
	rec := f.do(t, http.MethodPost, "/tasks", `{"title":"  Buy milk ","dueDate":"2026-03-01","status":"1"}`)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	var task domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, "id-1", task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, domain.StatusInProgress, task.Status)
	assert.True(t, now.Equal(task.CreatedAt))
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2026-03-01", task.DueDate.Format(domain.DueDateLayout))

	stored, err := f.store.Get(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", stored.Title)
}

func TestHandler_Create_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"empty title", `{"title":"  "}`, "invalid_title"},
		{"bad status", `{"title":"x","status":"9"}`, "invalid_status"},
		{"bad due date", `{"title":"x","dueDate":"tomorrow"}`, "invalid_due_date"},
		{"unknown field", `{"title":"x","priority":1}`, "invalid_request"},
		{"no body", ``, "invalid_request"},
		{"two objects", `{"title":"x"}{"title":"y"}`, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			rec := f.do(t, http.MethodPost, "/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestHandler_Update(t *testing.T) {
	// Setup
	f := newFixture(t, false)
	due := now.Add(72 * time.Hour)
	require.NoError(t, f.store.Insert(context.Background(), &domain.Task{
		ID: "a", Title: "old", Status: domain.StatusPending, CreatedAt: now, DueDate: &due,
	}))

	// Execute: change status, clear due date
	rec := f.do(t, http.MethodPatch, "/tasks/a", `{"status":"2","dueDate":null}`)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var task domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, "old", task.Title)
	assert.Equal(t, domain.StatusCompleted, task.Status)
	assert.Nil(t, task.DueDate)
	require.NotNil(t, task.UpdatedAt)
	assert.True(t, now.Equal(*task.UpdatedAt))
}

func TestHandler_Update_Errors(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, 1, pending)

	rec := f.do(t, http.MethodPatch, "/tasks/t01", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_update", decodeError(t, rec).Code)

	rec = f.do(t, http.MethodPatch, "/tasks/t01", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/tasks/missing", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Delete(t *testing.T) {
	t.Run("soft delete", func(t *testing.T) {
		f := newFixture(t, false)
		f.seed(t, 2, pending)

		rec := f.do(t, http.MethodDelete, "/tasks/t01", "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		// Gone from reads
		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/tasks/find/t01", "").Code)
		tasks := decodeTasks(t, f.do(t, http.MethodGet, "/tasks", ""))
		require.Len(t, tasks, 1)
		assert.Equal(t, "t02", tasks[0].ID)

		// Second delete is a 404
		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/tasks/t01", "").Code)
	})

	t.Run("hard delete", func(t *testing.T) {
		f := newFixture(t, true)
		f.seed(t, 1, pending)

		rec := f.do(t, http.MethodDelete, "/tasks/t01", "")
		require.Equal(t, http.StatusNoContent, rec.Code)
		n, err := f.store.Count(context.Background(), domain.TaskQuery{}, now)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodPut, "/tasks/t01", `{}`)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
