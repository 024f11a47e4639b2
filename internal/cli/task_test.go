package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/todo/internal/app"
	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/testutil"
)

var testNow = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

// newTestContainer creates an app.Container with mock dependencies.
func newTestContainer(api *testutil.MockTaskAPI) *app.Container {
	return app.NewWithDeps(
		domain.NewDefaultConfig(),
		api,
		&testutil.MockPreferenceStore{},
		&testutil.MockClock{NowTime: testNow},
		nil,
	)
}

// fixed returns a provider for an already built container.
func fixed(c *app.Container) provider {
	return func() *app.Container { return c }
}

// run executes cmd with args and returns stdout.
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// =============================================================================
// New Command Tests
// =============================================================================

func TestNewNewCommand_CreateTask(t *testing.T) {
	// Setup
	api := testutil.NewMockTaskAPI()
	container := newTestContainer(api)

	// Execute
	out, err := run(t, newNewCommand(fixed(container)), "--title", "Buy milk", "--due", "2026-02-01", "-d", "Two litres")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Created task task-1: Buy milk\n", out)

	task := api.Tasks["task-1"]
	require.NotNil(t, task)
	assert.Equal(t, "Two litres", task.Description)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, testNow, task.CreatedAt)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2026-02-01", task.DueDate.Format(domain.DueDateLayout))
}

func TestNewNewCommand_WithStatus(t *testing.T) {
	api := testutil.NewMockTaskAPI()
	container := newTestContainer(api)

	_, err := run(t, newNewCommand(fixed(container)), "-t", "Write report", "--status", "in progress")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, api.Tasks["task-1"].Status)
}

func TestNewNewCommand_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		args    []string
	}{
		{name: "blank title", args: []string{"--title", "   "}, wantErr: domain.ErrEmptyTitle},
		{name: "bad status", args: []string{"-t", "x", "--status", "later"}, wantErr: domain.ErrInvalidStatus},
		{name: "bad due date", args: []string{"-t", "x", "--due", "01/02/2026"}, wantErr: domain.ErrInvalidDueDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := testutil.NewMockTaskAPI()

			_, err := run(t, newNewCommand(fixed(newTestContainer(api))), tt.args...)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, api.Tasks)
		})
	}
}

func TestNewNewCommand_TitleRequired(t *testing.T) {
	_, err := run(t, newNewCommand(fixed(newTestContainer(testutil.NewMockTaskAPI()))))

	assert.ErrorContains(t, err, `"title"`)
}

// =============================================================================
// List Command Tests
// =============================================================================

func TestNewListCommand_FirstPage(t *testing.T) {
	// Setup
	api := testutil.NewMockTaskAPI(testutil.Tasks(12)...)
	container := newTestContainer(api)

	// Execute
	out, err := run(t, newListCommand(fixed(container)))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Task 1")
	assert.Contains(t, out, "Task 5")
	assert.NotContains(t, out, "Task 6")
	assert.Contains(t, out, "Page 1 of 3 (12 tasks)")
	assert.Equal(t, domain.TaskQuery{Page: 1, Limit: 5}, api.LastQuery())
}

func TestNewListCommand_StatusAndPage(t *testing.T) {
	// Setup
	tasks := testutil.Tasks(20)
	for i := range tasks {
		if i%2 == 1 {
			tasks[i].Status = domain.StatusInProgress
		}
	}
	api := testutil.NewMockTaskAPI(tasks...)
	container := newTestContainer(api)

	// Execute
	out, err := run(t, newListCommand(fixed(container)), "--status", "IN_PROGRESS", "--page", "2", "-o", "json")

	// Assert
	require.NoError(t, err)
	var got []domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 5)
	for _, task := range got {
		assert.Equal(t, domain.StatusInProgress, task.Status)
	}
	assert.Equal(t, "t12", got[0].ID)
	assert.Equal(t, domain.TaskQuery{Status: domain.StatusInProgress, Page: 2, Limit: 5}, api.LastQuery())
}

func TestNewListCommand_ViewQuery(t *testing.T) {
	api := testutil.NewMockTaskAPI(testutil.Tasks(25)...)
	container := newTestContainer(api)

	out, err := run(t, newListCommand(fixed(container)), "--view", "page=2&limit=10", "-o", "yaml")

	require.NoError(t, err)
	var got []domain.Task
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got, 10)
	assert.Equal(t, "t11", got[0].ID)
}

func TestNewListCommand_FlagOverridesView(t *testing.T) {
	api := testutil.NewMockTaskAPI(testutil.Tasks(25)...)
	container := newTestContainer(api)

	_, err := run(t, newListCommand(fixed(container)), "--view", "page=2&limit=10", "--page", "3")

	require.NoError(t, err)
	assert.Equal(t, domain.TaskQuery{Page: 3, Limit: 10}, api.LastQuery())
}

func TestNewListCommand_ConfigLimit(t *testing.T) {
	api := testutil.NewMockTaskAPI(testutil.Tasks(25)...)
	container := newTestContainer(api)
	container.AppConfig.View.Limit = 20

	out, err := run(t, newListCommand(fixed(container)))

	require.NoError(t, err)
	assert.Contains(t, out, "Page 1 of 2 (25 tasks)")
	assert.Equal(t, 20, api.LastQuery().Limit)
}

func TestNewListCommand_Search(t *testing.T) {
	// Setup
	api := testutil.NewMockTaskAPI(
		domain.Task{ID: "a", Title: "Buy milk"},
		domain.Task{ID: "b", Title: "Walk dog"},
		domain.Task{ID: "c", Title: "Buy MILK powder"},
	)
	container := newTestContainer(api)

	// Execute
	out, err := run(t, newListCommand(fixed(container)), "-q", "milk")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Buy MILK powder")
	assert.NotContains(t, out, "Walk dog")
	assert.Contains(t, out, "Page 1 of 1 (2 tasks)")
	assert.Equal(t, []string{"milk"}, api.Searches)
	assert.Empty(t, api.Queries)
}

func TestNewListCommand_OverdueMarked(t *testing.T) {
	past := testNow.AddDate(0, 0, -3)
	future := testNow.AddDate(0, 0, 3)
	api := testutil.NewMockTaskAPI(
		domain.Task{ID: "a", Title: "Late", DueDate: &past},
		domain.Task{ID: "b", Title: "Early", DueDate: &future},
	)

	out, err := run(t, newListCommand(fixed(newTestContainer(api))))

	require.NoError(t, err)
	assert.Contains(t, out, past.Format(domain.DueDateLayout)+" !")
	assert.NotContains(t, out, future.Format(domain.DueDateLayout)+" !")
}

func TestNewListCommand_Empty(t *testing.T) {
	out, err := run(t, newListCommand(fixed(newTestContainer(testutil.NewMockTaskAPI()))))

	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found")
	assert.Contains(t, out, "Page 1 of 1 (0 tasks)")
}

func TestNewListCommand_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		args    []string
	}{
		{name: "limit too large", args: []string{"--limit", "500"}, wantErr: domain.ErrInvalidLimit},
		{name: "page zero", args: []string{"--page", "0"}, wantErr: domain.ErrInvalidPage},
		{name: "bad status", args: []string{"--status", "x"}, wantErr: domain.ErrInvalidStatus},
		{name: "bad view", args: []string{"--view", "page=abc"}, wantErr: domain.ErrInvalidPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, newListCommand(fixed(newTestContainer(testutil.NewMockTaskAPI()))), tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewListCommand_BackendError(t *testing.T) {
	api := testutil.NewMockTaskAPI()
	api.ListErr = errors.New("connection refused")

	_, err := run(t, newListCommand(fixed(newTestContainer(api))))

	assert.ErrorContains(t, err, "list tasks: connection refused")
}

// =============================================================================
// Show Command Tests
// =============================================================================

func TestNewShowCommand_Text(t *testing.T) {
	// Setup
	due := testNow.AddDate(0, 0, -1)
	api := testutil.NewMockTaskAPI(domain.Task{
		ID:          "a1",
		Title:       "Pay rent",
		Description: "Transfer before noon",
		Status:      domain.StatusInProgress,
		DueDate:     &due,
		CreatedAt:   testNow.AddDate(0, 0, -10),
	})

	// Execute
	out, err := run(t, newShowCommand(fixed(newTestContainer(api))), "a1")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "a1: Pay rent")
	assert.Contains(t, out, "Status:  In progress")
	assert.Contains(t, out, "Due:     "+due.Format(domain.DueDateLayout)+" (overdue)")
	assert.Contains(t, out, "Transfer before noon")
}

func TestNewShowCommand_NoDueDate(t *testing.T) {
	api := testutil.NewMockTaskAPI(domain.Task{ID: "a1", Title: "Someday"})

	out, err := run(t, newShowCommand(fixed(newTestContainer(api))), "a1")

	require.NoError(t, err)
	assert.Contains(t, out, "Due:     No due date provided")
}

func TestNewShowCommand_JSON(t *testing.T) {
	api := testutil.NewMockTaskAPI(domain.Task{ID: "a1", Title: "Pay rent", Status: domain.StatusCompleted})

	out, err := run(t, newShowCommand(fixed(newTestContainer(api))), "a1", "-o", "json")

	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "2", got["status"])
	assert.Equal(t, "Pay rent", got["title"])
}

func TestNewShowCommand_NotFound(t *testing.T) {
	_, err := run(t, newShowCommand(fixed(newTestContainer(testutil.NewMockTaskAPI()))), "nope")

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

// =============================================================================
// Edit Command Tests
// =============================================================================

func TestNewEditCommand_Flags(t *testing.T) {
	// Setup
	due := testNow
	api := testutil.NewMockTaskAPI(domain.Task{ID: "a1", Title: "Old", DueDate: &due})
	container := newTestContainer(api)

	// Execute
	out, err := run(t, newEditCommand(fixed(container)), "a1", "--title", "New", "--status", "done", "--due", "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Updated task a1\n", out)
	task := api.Tasks["a1"]
	assert.Equal(t, "New", task.Title)
	assert.Equal(t, domain.StatusCompleted, task.Status)
	assert.Nil(t, task.DueDate)
}

func TestNewEditCommand_NotFound(t *testing.T) {
	_, err := run(t, newEditCommand(fixed(newTestContainer(testutil.NewMockTaskAPI()))), "zz", "--title", "x")

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestNewEditCommand_Editor(t *testing.T) {
	// Setup
	original := openEditorFunc
	defer func() { openEditorFunc = original }()

	var seen string
	openEditorFunc = func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		seen = string(data)
		edited := "---\ntitle: Edited title\nstatus: COMPLETED\ndue: 2026-03-01\n---\n\nNew body\n"
		return os.WriteFile(path, []byte(edited), 0o600)
	}

	api := testutil.NewMockTaskAPI(domain.Task{ID: "a1", Title: "Old", Description: "Old body"})
	container := newTestContainer(api)

	// Execute
	out, err := run(t, newEditCommand(fixed(container)), "a1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Updated task a1\n", out)
	assert.True(t, strings.HasPrefix(seen, "---\ntitle: Old\nstatus: PENDING\ndue: \n---\n"))

	task := api.Tasks["a1"]
	assert.Equal(t, "Edited title", task.Title)
	assert.Equal(t, "New body\n", task.Description)
	assert.Equal(t, domain.StatusCompleted, task.Status)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2026-03-01", task.DueDate.Format(domain.DueDateLayout))
}

func TestNewEditCommand_EditorNoChanges(t *testing.T) {
	original := openEditorFunc
	defer func() { openEditorFunc = original }()
	openEditorFunc = func(string) error { return nil }

	api := testutil.NewMockTaskAPI(domain.Task{ID: "a1", Title: "Same"})

	out, err := run(t, newEditCommand(fixed(newTestContainer(api))), "a1")

	require.NoError(t, err)
	assert.Equal(t, "No changes made\n", out)
	assert.Nil(t, api.Tasks["a1"].UpdatedAt)
}

func TestNewEditCommand_EditorInvalid(t *testing.T) {
	original := openEditorFunc
	defer func() { openEditorFunc = original }()
	openEditorFunc = func(path string) error {
		return os.WriteFile(path, []byte("---\ntitle: \n---\n"), 0o600)
	}

	api := testutil.NewMockTaskAPI(domain.Task{ID: "a1", Title: "Keep"})

	_, err := run(t, newEditCommand(fixed(newTestContainer(api))), "a1")

	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.Equal(t, "Keep", api.Tasks["a1"].Title)
}

// =============================================================================
// Rm Command Tests
// =============================================================================

func TestNewRmCommand_Confirmed(t *testing.T) {
	// Setup
	api := testutil.NewMockTaskAPI(testutil.Tasks(2)...)
	cmd := newRmCommand(fixed(newTestContainer(api)))
	cmd.SetIn(strings.NewReader("y\n"))

	// Execute
	out, err := run(t, cmd, "t1")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Delete task t1? [y/N]")
	assert.Contains(t, out, "Deleted task t1")
	assert.Equal(t, []string{"t1"}, api.DeletedIDs)
}

func TestNewRmCommand_Declined(t *testing.T) {
	for _, answer := range []string{"n\n", "\n", "maybe\n", ""} {
		t.Run(strings.TrimSpace(answer), func(t *testing.T) {
			api := testutil.NewMockTaskAPI(testutil.Tasks(2)...)
			cmd := newRmCommand(fixed(newTestContainer(api)))
			cmd.SetIn(strings.NewReader(answer))

			out, err := run(t, cmd, "t1")

			require.NoError(t, err)
			assert.Contains(t, out, "Cancelled")
			assert.Empty(t, api.DeletedIDs)
			assert.Len(t, api.Tasks, 2)
		})
	}
}

func TestNewRmCommand_Yes(t *testing.T) {
	api := testutil.NewMockTaskAPI(testutil.Tasks(1)...)

	out, err := run(t, newRmCommand(fixed(newTestContainer(api))), "t1", "--yes")

	require.NoError(t, err)
	assert.NotContains(t, out, "[y/N]")
	assert.Equal(t, []string{"t1"}, api.DeletedIDs)
}

func TestNewRmCommand_NotFound(t *testing.T) {
	api := testutil.NewMockTaskAPI()

	_, err := run(t, newRmCommand(fixed(newTestContainer(api))), "ghost", "-y")

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

// =============================================================================
// Count Command Tests
// =============================================================================

func TestNewCountCommand(t *testing.T) {
	tasks := testutil.Tasks(7)
	tasks[0].Status = domain.StatusCompleted
	tasks[3].Status = domain.StatusCompleted
	api := testutil.NewMockTaskAPI(tasks...)

	out, err := run(t, newCountCommand(fixed(newTestContainer(api))))
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)

	out, err = run(t, newCountCommand(fixed(newTestContainer(api))), "--status", "completed")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}
