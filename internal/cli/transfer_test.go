package cli

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/testutil"
)

const importYAML = `tasks:
  - title: Write report
    description: Quarterly numbers
    due: 2026-03-31
    status: in_progress
  - title: Book flights
`

func TestImportCommand_FromFile(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(importYAML), 0o600))
	api := testutil.NewMockTaskAPI()

	// Execute
	out, err := run(t, newImportCommand(fixed(newTestContainer(api))), path)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Created task task-1: Write report")
	assert.Contains(t, out, "Created task task-2: Book flights")
	assert.Contains(t, out, "Created 2 task(s)")
	require.Len(t, api.Tasks, 2)
	assert.Equal(t, domain.StatusInProgress, api.Tasks["task-1"].Status)
	assert.Equal(t, domain.StatusPending, api.Tasks["task-2"].Status)
}

func TestImportCommand_DryRunFromStdin(t *testing.T) {
	api := testutil.NewMockTaskAPI()
	cmd := newImportCommand(fixed(newTestContainer(api)))
	cmd.SetIn(strings.NewReader(importYAML))

	out, err := run(t, cmd, "-", "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
	assert.Contains(t, out, "1. Write report [In progress] due 2026-03-31")
	assert.Contains(t, out, "2. Book flights [Pending] due No due date provided")
	assert.Empty(t, api.Tasks)
}

func TestImportCommand_InvalidEntry(t *testing.T) {
	api := testutil.NewMockTaskAPI()
	cmd := newImportCommand(fixed(newTestContainer(api)))
	cmd.SetIn(strings.NewReader("tasks:\n  - title: ok\n  - title: \"\"\n"))

	_, err := run(t, cmd, "-")

	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.Empty(t, api.Tasks)
}

func TestImportCommand_MissingFile(t *testing.T) {
	_, err := run(t, newImportCommand(fixed(newTestContainer(testutil.NewMockTaskAPI()))), filepath.Join(t.TempDir(), "nope.yaml"))

	assert.ErrorContains(t, err, "read file")
}

func TestExportCommand_StdoutJSON(t *testing.T) {
	// Setup
	tasks := testutil.Tasks(130)
	tasks[4].Status = domain.StatusCompleted
	api := testutil.NewMockTaskAPI(tasks...)

	// Execute
	out, err := run(t, newExportCommand(fixed(newTestContainer(api))))

	// Assert
	require.NoError(t, err)
	var got []domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 130)
	assert.Equal(t, "t130", got[129].ID)
}

func TestExportCommand_CSVFileByExtension(t *testing.T) {
	// Setup
	tasks := testutil.Tasks(6)
	tasks[1].Status = domain.StatusCompleted
	tasks[2].Status = domain.StatusCompleted
	api := testutil.NewMockTaskAPI(tasks...)
	path := filepath.Join(t.TempDir(), "done.csv")

	// Execute
	out, err := run(t, newExportCommand(fixed(newTestContainer(api))), "--status", "completed", "-o", path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Exported 2 task(s) to "+path+"\n", out)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "t2", records[1][0])
	assert.Equal(t, "t3", records[2][0])
}

func TestExportCommand_UnknownFormatRemovesFile(t *testing.T) {
	api := testutil.NewMockTaskAPI(testutil.Tasks(2)...)
	path := filepath.Join(t.TempDir(), "tasks.out")

	_, err := run(t, newExportCommand(fixed(newTestContainer(api))), "--format", "docx", "-o", path)

	assert.ErrorContains(t, err, `unknown format "docx"`)
	assert.NoFileExists(t, path)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"":            "json",
		"-":           "json",
		"a.json":      "json",
		"a.YAML":      "yaml",
		"a.yml":       "yaml",
		"report.pdf":  "pdf",
		"dump.csv":    "csv",
		"notes.txt":   "json",
		"dir.v2/file": "json",
	}
	for path, want := range tests {
		assert.Equal(t, want, formatFromPath(path), path)
	}
}
