// Package state remembers where the user left off in each file.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileState is the view of one file at the time it was closed. Offsets are in
// UTF-16 units.
type FileState struct {
	Cursor int `json:"cursor"`
	Anchor int `json:"anchor,omitempty"`
	Scroll int `json:"scroll,omitempty"`
}

type fileEntry struct {
	FileState
	Seen time.Time `json:"seen"`
}

type snapshot struct {
	Files     map[string]fileEntry `json:"files"`
	LastSaved time.Time            `json:"last_saved"`
}

// MaxFiles bounds the number of files remembered; the least recently seen
// are forgotten first.
const MaxFiles = 500

// Store holds per-file state and persists it as JSON.
type Store struct {
	mu    sync.RWMutex
	data  snapshot
	path  string
	dirty bool
	now   func() time.Time
}

// DefaultPath returns $XDG_STATE_HOME/codepad/state.json, falling back to
// ~/.local/state.
func DefaultPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "codepad", "state.json"), nil
}

// Open loads the store at path. A missing file yields an empty store; a
// corrupt one is reported but the empty store is still usable.
func Open(path string) (*Store, error) {
	s := &Store{
		data: snapshot{Files: make(map[string]fileEntry)},
		path: path,
		now:  time.Now,
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read %s: %w", path, err)
	}
	var data snapshot
	if err := json.Unmarshal(raw, &data); err != nil {
		return s, fmt.Errorf("parse %s: %w", path, err)
	}
	if data.Files != nil {
		s.data = data
	}
	return s, nil
}

func (s *Store) Get(file string) (FileState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data.Files[key(file)]
	return e.FileState, ok
}

func (s *Store) Put(file string, st FileState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Files[key(file)] = fileEntry{FileState: st, Seen: s.now()}
	s.dirty = true
	s.evict()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Files)
}

// Save writes the store if anything changed since the last save.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	s.data.LastSaved = s.now()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func (s *Store) evict() {
	for len(s.data.Files) > MaxFiles {
		var oldest string
		var seen time.Time
		for k, e := range s.data.Files {
			if oldest == "" || e.Seen.Before(seen) {
				oldest, seen = k, e.Seen
			}
		}
		delete(s.data.Files, oldest)
	}
}

func key(file string) string {
	if abs, err := filepath.Abs(file); err == nil {
		return abs
	}
	return file
}
