// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/todo/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Ensure MockTaskAPI implements domain.TaskAPI.
var _ domain.TaskAPI = (*MockTaskAPI)(nil)

// MockTaskAPI is an in-memory test double for domain.TaskAPI.
// It honours status, overdue and paging like the real backend.
// Fields are ordered to minimize memory padding.
type MockTaskAPI struct {
	Now        time.Time
	Tasks      map[string]*domain.Task
	ListErr    error
	CountErr   error
	SearchErr  error
	GetErr     error
	CreateErr  error
	UpdateErr  error
	DeleteErr  error
	Queries    []domain.TaskQuery
	Searches   []string
	DeletedIDs []string
	order      []string
	mu         sync.Mutex
	nextID     int
}

// NewMockTaskAPI creates a MockTaskAPI holding tasks in the given order.
func NewMockTaskAPI(tasks ...domain.Task) *MockTaskAPI {
	m := &MockTaskAPI{
		Tasks: make(map[string]*domain.Task),
		Now:   time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
	for i := range tasks {
		m.add(tasks[i])
	}
	return m
}

func (m *MockTaskAPI) add(t domain.Task) {
	m.Tasks[t.ID] = &t
	m.order = append(m.order, t.ID)
}

func (m *MockTaskAPI) filtered(q domain.TaskQuery) []domain.Task {
	out := []domain.Task{}
	for _, id := range m.order {
		t, ok := m.Tasks[id]
		if !ok {
			continue
		}
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.Overdue && !t.IsOverdue(m.Now) {
			continue
		}
		out = append(out, *t)
	}
	return out
}

// List returns one page of matching tasks.
func (m *MockTaskAPI) List(_ context.Context, q domain.TaskQuery) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, q)
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	tasks := domain.PageSlice(m.filtered(q), q.Page, q.Limit)
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Count returns the number of matching tasks.
func (m *MockTaskAPI) Count(_ context.Context, q domain.TaskQuery) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return len(m.filtered(q)), nil
}

// SearchByTitle returns tasks whose title contains title, case-insensitively.
func (m *MockTaskAPI) SearchByTitle(_ context.Context, title string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Searches = append(m.Searches, title)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	needle := strings.ToLower(title)
	out := []domain.Task{}
	for _, t := range m.filtered(domain.TaskQuery{}) {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Get returns a copy of the task or domain.ErrTaskNotFound.
func (m *MockTaskAPI) Get(_ context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	t, ok := m.Tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

// Create stores the task, assigning an id when empty.
func (m *MockTaskAPI) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	t := *task
	if t.ID == "" {
		m.nextID++
		t.ID = fmt.Sprintf("task-%d", m.nextID)
	}
	m.add(t)
	return &t, nil
}

// Update applies patch to the stored task.
func (m *MockTaskAPI) Update(_ context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	t, ok := m.Tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	patch.Apply(t)
	now := m.Now
	t.UpdatedAt = &now
	cp := *t
	return &cp, nil
}

// Delete removes the task.
func (m *MockTaskAPI) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	m.DeletedIDs = append(m.DeletedIDs, id)
	return nil
}

// LastQuery returns the most recent List query.
func (m *MockTaskAPI) LastQuery() domain.TaskQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Queries) == 0 {
		return domain.TaskQuery{}
	}
	return m.Queries[len(m.Queries)-1]
}

// MockPreferenceStore is a test double for domain.PreferenceStore.
type MockPreferenceStore struct {
	LoadErr error
	SaveErr error
	Prefs   domain.Preferences
	Saves   int
}

// Load returns the stored preferences.
func (m *MockPreferenceStore) Load() (domain.Preferences, error) {
	if m.LoadErr != nil {
		return domain.Preferences{}, m.LoadErr
	}
	return m.Prefs, nil
}

// Save records the preferences.
func (m *MockPreferenceStore) Save(p domain.Preferences) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Prefs = p
	m.Saves++
	return nil
}

// Tasks builds n pending tasks with ids "t1".."tn" and titles "Task 1".."Task n".
func Tasks(n int) []domain.Task {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Task, n)
	for i := range out {
		out[i] = domain.Task{
			ID:        fmt.Sprintf("t%d", i+1),
			Title:     fmt.Sprintf("Task %d", i+1),
			Status:    domain.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr    error
	InitConfig *domain.Config
	FileInfo   domain.ConfigInfo
	InitCalled bool
	InitForce  bool
}

// Info returns the configured file info.
func (m *MockConfigManager) Info() domain.ConfigInfo {
	return m.FileInfo
}

// Init records the call and marks the file as existing.
func (m *MockConfigManager) Init(cfg *domain.Config, force bool) error {
	m.InitCalled = true
	m.InitForce = force
	m.InitConfig = cfg
	if m.InitErr != nil {
		return m.InitErr
	}
	if m.FileInfo.Exists && !force {
		return domain.ErrConfigExists
	}
	m.FileInfo.Exists = true
	return nil
}
