package merge

import (
	"testing"
	"time"

	"github.com/pranavj/assignsync/models"
)

func TestResults_DedupFirstWins(t *testing.T) {
	shared := models.Assignment{Name: "HW1", ClassName: "Geometry", URL: "u1", DueDate: "No due date"}

	first := shared
	first.Source = models.SourceGoogleClassroom
	second := shared
	second.Source = models.SourceJupiter

	merged := Results([]models.ScrapeResult{
		{Success: true, Assignments: []models.Assignment{first}},
		{Success: true, Assignments: []models.Assignment{second}},
	})

	if len(merged) != 1 {
		t.Fatalf("got %d records, want 1", len(merged))
	}
	if merged[0].Source != models.SourceGoogleClassroom {
		t.Errorf("kept record from %q, want earlier-ordered source", merged[0].Source)
	}
}

func TestResults_SkipsFailedResults(t *testing.T) {
	merged := Results([]models.ScrapeResult{
		{Success: false, Assignments: []models.Assignment{{Name: "should not appear"}}},
		{Success: true, Assignments: []models.Assignment{{Name: "HW2", ClassName: "Bio", URL: "u2"}}},
	})

	if len(merged) != 1 || merged[0].Name != "HW2" {
		t.Fatalf("merged = %+v, want only the successful source's record", merged)
	}
}

func TestResults_DistinctRecordsKept(t *testing.T) {
	merged := Results([]models.ScrapeResult{
		{Success: true, Assignments: []models.Assignment{
			{Name: "HW1", ClassName: "Geometry", URL: "u1"},
			{Name: "HW1", ClassName: "Geometry", URL: "u2"},
			{Name: "HW1", ClassName: "Algebra II", URL: "u1"},
		}},
	})

	if len(merged) != 3 {
		t.Errorf("got %d records, want 3 (keys differ)", len(merged))
	}
}

func TestSortByDueDate(t *testing.T) {
	early := time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)

	assignments := []models.Assignment{
		{Name: "undated"},
		{Name: "late", DueDateParsed: &late},
		{Name: "early", DueDateParsed: &early},
	}
	SortByDueDate(assignments)

	want := []string{"early", "late", "undated"}
	for i, name := range want {
		if assignments[i].Name != name {
			t.Errorf("position %d = %q, want %q", i, assignments[i].Name, name)
		}
	}
}
