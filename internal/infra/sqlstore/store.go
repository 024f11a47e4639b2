// Package sqlstore implements domain.TaskStore on database/sql for the
// reference backend. SQLite (modernc.org/sqlite) and MySQL are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/runoshun/todo/internal/domain"
)

// Ensure Store implements domain.TaskStore.
var _ domain.TaskStore = (*Store)(nil)

// tsLayout is fixed-width so stored timestamps sort chronologically as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

const taskColumns = `id, title, description, status, due_date, created_at, updated_at, deleted_at`

// Store is a SQL-backed task store.
type Store struct {
	db     *sql.DB
	driver string
}

// Open opens the store for the configured driver.
// For sqlite, dsn is a file path (empty = defaultPath).
func Open(driver, dsn, defaultPath string) (*Store, error) {
	switch driver {
	case domain.DriverSQLite, "":
		if strings.TrimSpace(dsn) == "" {
			dsn = defaultPath
		}
		return OpenSQLite(dsn)
	case domain.DriverMySQL:
		return OpenMySQL(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// OpenSQLite opens (and creates) a SQLite database file.
func OpenSQLite(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(domain.DriverSQLite, path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newStore(db, domain.DriverSQLite)
}

// OpenInMemory opens a private in-memory SQLite database.
func OpenInMemory() (*Store, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open(domain.DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	return newStore(db, domain.DriverSQLite)
}

// OpenMySQL connects to MySQL. dsn uses the go-sql-driver format,
// e.g. user:pass@tcp(host:3306)/todo.
func OpenMySQL(dsn string) (*Store, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	// Report matched rows so an update that changes nothing is not a 404.
	cfg.ClientFoundRows = true
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return newStore(db, domain.DriverMySQL)
}

func newStore(db *sql.DB, driver string) (*Store, error) {
	if driver == domain.DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db, driver: driver}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	var stmts []string
	switch s.driver {
	case domain.DriverMySQL:
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS tasks (
				id VARCHAR(36) PRIMARY KEY,
				title VARCHAR(500) NOT NULL,
				description TEXT NOT NULL,
				status VARCHAR(1) NOT NULL DEFAULT '0',
				due_date VARCHAR(32) NULL,
				created_at VARCHAR(32) NOT NULL,
				updated_at VARCHAR(32) NULL,
				deleted_at VARCHAR(32) NULL,
				INDEX idx_tasks_created_at (created_at)
			) DEFAULT CHARSET = utf8mb4`,
		}
	default:
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS tasks (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT '0',
				due_date TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT,
				deleted_at TEXT
			);`,
			`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);`,
		}
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// where builds the filter clause shared by List and Count.
func where(q domain.TaskQuery, now time.Time) (string, []any) {
	conds := []string{"deleted_at IS NULL"}
	var args []any
	if q.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(q.Status))
	}
	if q.Overdue {
		conds = append(conds, "due_date IS NOT NULL", "due_date < ?", "status <> ?")
		args = append(args, ts(now), string(domain.StatusCompleted))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of non-deleted tasks ordered by creation time.
func (s *Store) List(ctx context.Context, q domain.TaskQuery, now time.Time) ([]domain.Task, error) {
	clause, args := where(q, now)
	query := `SELECT ` + taskColumns + ` FROM tasks` + clause + ` ORDER BY created_at ASC, id ASC`
	if q.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, q.Offset())
	}
	return s.query(ctx, query, args...)
}

// Count returns the number of non-deleted tasks matching q. Paging is ignored.
func (s *Store) Count(ctx context.Context, q domain.TaskQuery, now time.Time) (int, error) {
	clause, args := where(q, now)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+clause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// Search matches title case-insensitively.
func (s *Store) Search(ctx context.Context, title string) ([]domain.Task, error) {
	pattern := "%" + escapeLike(strings.ToLower(title)) + "%"
	return s.query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		WHERE deleted_at IS NULL AND LOWER(title) LIKE ? ESCAPE '!'
		ORDER BY created_at ASC, id ASC`, pattern)
}

// Get returns a non-deleted task.
func (s *Store) Get(ctx context.Context, id string) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND deleted_at IS NULL`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// Insert stores a new task.
func (s *Store) Insert(ctx context.Context, t *domain.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Status),
		nullableTS(t.DueDate), ts(t.CreatedAt), nullableTS(t.UpdatedAt), nullableTS(t.DeletedAt))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a non-deleted task.
func (s *Store) Update(ctx context.Context, t *domain.Task) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, due_date = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		t.Title, t.Description, string(t.Status), nullableTS(t.DueDate), nullableTS(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return translateNoRows(res, t.ID)
}

// Delete soft-deletes a task, or removes it when hard is set.
func (s *Store) Delete(ctx context.Context, id string, at time.Time, hard bool) error {
	var (
		res sql.Result
		err error
	)
	if hard {
		res, err = s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	} else {
		stamp := ts(at)
		res, err = s.db.ExecContext(ctx,
			`UPDATE tasks SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
			stamp, stamp, id)
	}
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return translateNoRows(res, id)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (domain.Task, error) {
	var (
		t          domain.Task
		status     string
		createdRaw string
		dueRaw     sql.NullString
		updatedRaw sql.NullString
		deletedRaw sql.NullString
	)
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &status, &dueRaw, &createdRaw, &updatedRaw, &deletedRaw); err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.Status(status)
	t.CreatedAt = parseTS(createdRaw)
	t.DueDate = parseNullTS(dueRaw)
	t.UpdatedAt = parseNullTS(updatedRaw)
	t.DeletedAt = parseNullTS(deletedRaw)
	return t, nil
}

func translateNoRows(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return nil
}

// escapeLike escapes LIKE wildcards using '!' as the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func ts(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func nullableTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return ts(*t)
}

func parseTS(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func parseNullTS(v sql.NullString) *time.Time {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil
	}
	t := parseTS(v.String)
	return &t
}
