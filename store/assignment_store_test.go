package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pranavj/assignsync/models"
)

func setupAssignmentStore(t *testing.T) *AssignmentStore {
	t.Helper()

	s, err := NewAssignmentStore(filepath.Join(t.TempDir(), "data", "all_assignments.json"))
	if err != nil {
		t.Fatalf("NewAssignmentStore failed: %v", err)
	}
	return s
}

func sampleAssignments() []models.Assignment {
	due := time.Date(2025, time.October, 24, 23, 59, 0, 0, time.UTC)
	return []models.Assignment{
		{
			Name:          "Unit 3 Quiz",
			ClassName:     "Algebra II",
			DueDate:       "Oct 24, 2025",
			DueDateParsed: &due,
			URL:           "https://classroom.example/a/1",
			MaxPoints:     20,
			Source:        models.SourceGoogleClassroom,
		},
		{
			Name:      "Lab report",
			ClassName: "Chemistry",
			DueDate:   "No due date",
			Source:    models.SourceJupiter,
		},
	}
}

func TestAssignmentStore_SaveLoadRoundTrip(t *testing.T) {
	s := setupAssignmentStore(t)

	want := sampleAssignments()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	if got[0].Name != want[0].Name || got[0].Source != want[0].Source {
		t.Errorf("first record = %+v, want %+v", got[0], want[0])
	}
	if got[0].DueDateParsed == nil || !got[0].DueDateParsed.Equal(*want[0].DueDateParsed) {
		t.Errorf("DueDateParsed did not survive the round trip: %v", got[0].DueDateParsed)
	}
}

func TestAssignmentStore_LoadMissingFile(t *testing.T) {
	s := setupAssignmentStore(t)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want empty set", len(got))
	}
}

func TestAssignmentStore_SaveWritesPrettyJSONArray(t *testing.T) {
	s := setupAssignmentStore(t)

	if err := s.Save(sampleAssignments()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		t.Error("persisted file should be a JSON array")
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("persisted file should be pretty-printed with 2-space indent")
	}

	var parsed []models.Assignment
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("persisted file is not valid JSON: %v", err)
	}
}

func TestAssignmentStore_SaveNilPersistsEmptyArray(t *testing.T) {
	s := setupAssignmentStore(t)

	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil) failed: %v", err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("persisted file = %q, want empty JSON array", data)
	}
}

func TestAssignmentStore_SaveFailureLeavesFileIntact(t *testing.T) {
	s := setupAssignmentStore(t)

	if err := s.Save(sampleAssignments()); err != nil {
		t.Fatalf("seed Save failed: %v", err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read seeded file: %v", err)
	}

	// A directory squatting on the temp-file path makes the staged
	// write fail before the rename can happen.
	if err := os.Mkdir(s.Path()+".tmp", 0o755); err != nil {
		t.Fatalf("block temp path: %v", err)
	}

	if err := s.Save(sampleAssignments()[:1]); err == nil {
		t.Fatal("Save should fail when the staged write fails")
	}

	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read file after failed Save: %v", err)
	}
	if string(before) != string(after) {
		t.Error("failed Save must leave the previous file byte-identical")
	}
}

func TestAssignmentStore_SaveOverwritesInPlace(t *testing.T) {
	s := setupAssignmentStore(t)

	if err := s.Save(sampleAssignments()); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := s.Save(sampleAssignments()[:1]); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d records after overwrite, want 1", len(got))
	}
}
