// Package prefstore persists client preferences in a TOML file.
package prefstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/todo/internal/domain"
)

// Ensure Store implements domain.PreferenceStore.
var _ domain.PreferenceStore = (*Store)(nil)

// Store implements domain.PreferenceStore using a TOML file.
type Store struct {
	path     string
	lockPath string
}

// New creates a Store for the given file path.
// The file does not need to exist; it is created on first save.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the preference file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the preferences. A missing file yields the zero value
// (light mode).
func (s *Store) Load() (domain.Preferences, error) {
	var prefs domain.Preferences
	err := s.withLock(syscall.LOCK_SH, func() error {
		var err error
		prefs, err = s.read()
		return err
	})
	return prefs, err
}

// Save writes the preferences.
func (s *Store) Save(prefs domain.Preferences) error {
	return s.withLock(syscall.LOCK_EX, func() error {
		return s.write(prefs)
	})
}

func (s *Store) withLock(lockType int, fn func() error) error {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create preference directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() { _ = lock.Close() }()

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN) }()

	return fn()
}

func (s *Store) read() (domain.Preferences, error) {
	var prefs domain.Preferences
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read preferences: %w", err)
	}
	if err := toml.Unmarshal(content, &prefs); err != nil {
		return domain.Preferences{}, fmt.Errorf("parse preferences: %w", err)
	}
	return prefs, nil
}

func (s *Store) write(prefs domain.Preferences) error {
	content, err := toml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	// Write to temp file first, then rename
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
