// Package store owns the persisted assignment file and its timestamped
// backups. No other component writes these files.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pranavj/assignsync/models"
)

// AssignmentStore persists the merged assignment set as a single
// pretty-printed JSON array, overwritten in place on each successful
// run. Writes go through a temp file and rename so a failed write
// never leaves a partial document behind.
type AssignmentStore struct {
	filePath string
	flk      *flock.Flock
}

// NewAssignmentStore creates a store for the given data file path,
// creating the parent directory if needed.
func NewAssignmentStore(filePath string) (*AssignmentStore, error) {
	dir := filepath.Dir(filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	return &AssignmentStore{
		filePath: filePath,
		flk:      flock.New(filePath),
	}, nil
}

// Path returns the path of the persisted assignment file.
func (s *AssignmentStore) Path() string {
	return s.filePath
}

// Exists reports whether a persisted assignment file is present.
func (s *AssignmentStore) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}

// Load reads the persisted assignment set. A missing file is not an
// error; it returns an empty set, which callers treat as the cold-start
// case.
func (s *AssignmentStore) Load() ([]models.Assignment, error) {
	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("could not lock %s for load: %w", s.filePath, err)
	}
	defer func() { _ = s.flk.Unlock() }()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Assignment{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.filePath, err)
	}
	if len(data) == 0 {
		return []models.Assignment{}, nil
	}

	var assignments []models.Assignment
	if err := json.Unmarshal(data, &assignments); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.filePath, err)
	}
	return assignments, nil
}

// Save replaces the persisted assignment set. The write is
// all-or-nothing: on any failure the previous file is left untouched.
func (s *AssignmentStore) Save(assignments []models.Assignment) error {
	if assignments == nil {
		assignments = []models.Assignment{}
	}

	data, err := json.MarshalIndent(assignments, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal assignments: %w", err)
	}

	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock %s for save: %w", s.filePath, err)
	}
	defer func() { _ = s.flk.Unlock() }()

	tempPath := s.filePath + ".tmp"
	defer func() { _ = os.Remove(tempPath) }()

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary data file %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, s.filePath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.filePath, err)
	}
	return nil
}
