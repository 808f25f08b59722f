// Package jsonstore provides a JSON file-based implementation of CommentRepository.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/runoshun/crew-talk/internal/domain"
)

// formatVersion is the version of the file layout.
const formatVersion = 1

// storeData represents the JSON file structure.
type storeData struct {
	Comments []domain.Comment `json:"comments"`
	Version  int              `json:"version"`
}

// Store implements domain.CommentRepository using a JSON file.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; Initialize creates it.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Load retrieves the comments of one tab in stored order.
func (s *Store) Load(tab domain.Tab) ([]domain.Comment, error) {
	tab = tab.Resolve()
	comments := []domain.Comment{}
	err := s.withLock(func(data *storeData) error {
		for i := range data.Comments {
			if data.Comments[i].EffectiveTab() == tab {
				comments = append(comments, data.Comments[i])
			}
		}
		return nil
	})
	return comments, err
}

// LoadAll retrieves every comment in stored order.
func (s *Store) LoadAll() ([]domain.Comment, error) {
	comments := []domain.Comment{}
	err := s.withLock(func(data *storeData) error {
		comments = append(comments, data.Comments...)
		return nil
	})
	return comments, err
}

// Save replaces the stored collection.
func (s *Store) Save(comments []domain.Comment) error {
	return s.withLockWrite(func(data *storeData) error {
		data.Comments = domain.CloneComments(comments)
		return nil
	})
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	}

	return s.write(&storeData{Version: formatVersion})
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if data.Version > formatVersion {
		return nil, fmt.Errorf("unsupported store version %d", data.Version)
	}
	if data.Comments == nil {
		data.Comments = []domain.Comment{}
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	data.Version = formatVersion
	if data.Comments == nil {
		data.Comments = []domain.Comment{}
	}
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
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

// Ensure Store implements CommentRepository.
var _ domain.CommentRepository = (*Store)(nil)

// Ensure Store implements StoreInitializer.
var _ domain.StoreInitializer = (*Store)(nil)
