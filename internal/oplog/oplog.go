// Package oplog persists the history of committed cleanups as a JSON array.
package oplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"

	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

const fileName = "cleanup.json"

// Store reads and appends log entries. Calls are serialised per Store.
type Store struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// New returns a store backed by fs at path.
func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Default returns the store in the application data directory.
func Default() *Store {
	return New(afero.NewOsFs(), filepath.Join(utils.AppDataDir(), fileName))
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Log appends entry to the history.
func (s *Store) Log(entry types.OperationLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.path, data, 0o644)
}

// LoadAll returns every entry, newest first. A missing file is an empty history.
func (s *Store) LoadAll() ([]types.OperationLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

// Clear deletes the history file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.fs.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) load() ([]types.OperationLogEntry, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.OperationLogEntry{}, nil
		}
		return nil, err
	}
	var entries []types.OperationLogEntry
	if len(data) == 0 {
		return []types.OperationLogEntry{}, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return entries, nil
}
