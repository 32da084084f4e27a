package history

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/segmentio/encoding/json"

	"github.com/lcalzada-xor/auditlens/pkg/models"
)

// Store persists the history list as a whole.
type Store interface {
	Load() ([]models.HistoryRecord, error)
	Save(records []models.HistoryRecord) error
	Clear() error
}

// FileStore keeps history as a JSON array in a single file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the file. A missing file is an empty history.
func (s *FileStore) Load() ([]models.HistoryRecord, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var records []models.HistoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Save replaces the file contents through a temp file and rename.
func (s *FileStore) Save(records []models.HistoryRecord) error {
	if records == nil {
		records = []models.HistoryRecord{}
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".history-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

// Clear removes the file.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryStore is an in-process Store, used by the MCP server and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []models.HistoryRecord

	// Err, when set, is returned by every operation.
	Err error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return slices.Clone(s.records), nil
}

func (s *MemoryStore) Save(records []models.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.records = slices.Clone(records)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.records = nil
	return nil
}
