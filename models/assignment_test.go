package models

import (
	"testing"
	"time"

	"github.com/pranavj/assignsync/internal/dates"
)

func testBuilder() *Builder {
	fixed := time.Date(2025, time.October, 22, 10, 0, 0, 0, time.UTC)
	return &Builder{Dates: dates.New().WithClock(func() time.Time { return fixed })}
}

func TestCleanClassName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Algebra II 4-205", "Algebra II"},
		{"AP World History 2B", "AP World History"},
		{"Geometry", "Geometry"},
		// Stripping leaves a single word; keep the original instead.
		{"Room 12", "Room 12"},
		{"Spanish 3", "Spanish 3"},
		{"  Physics Lab  ", "Physics Lab"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CleanClassName(tc.in); got != tc.want {
			t.Errorf("CleanClassName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuild_ParsedDueDate(t *testing.T) {
	b := testBuilder()

	a := b.Build("Unit 3 Quiz", "Algebra II 4-205", "Oct 24, 2025", "https://classroom.example/a/1", "chapters 5-6", 20)

	if a.ClassName != "Algebra II" {
		t.Errorf("ClassName = %q, want %q", a.ClassName, "Algebra II")
	}
	if a.DueDateParsed == nil {
		t.Fatal("DueDateParsed should be set")
	}
	if got := a.DueDate; got != "Oct 24, 2025" {
		t.Errorf("DueDate = %q, want %q", got, "Oct 24, 2025")
	}
	if a.MaxPoints != 20 {
		t.Errorf("MaxPoints = %d, want 20", a.MaxPoints)
	}
}

func TestBuild_UnparseableDueDateKeepsRaw(t *testing.T) {
	b := testBuilder()

	a := b.Build("Essay", "English", "ask Mr. K", "", "", 0)
	if a.DueDateParsed != nil {
		t.Errorf("DueDateParsed = %v, want nil", a.DueDateParsed)
	}
	if a.DueDate != "ask Mr. K" {
		t.Errorf("DueDate = %q, want raw string", a.DueDate)
	}
}

func TestBuild_EmptyDueDateFallsBack(t *testing.T) {
	b := testBuilder()

	a := b.Build("Reading", "History", "   ", "", "", 0)
	if a.DueDate != NoDueDate {
		t.Errorf("DueDate = %q, want %q", a.DueDate, NoDueDate)
	}
	if a.DueDateParsed != nil {
		t.Error("DueDateParsed should be nil")
	}
}

func TestBuild_BlankClassNameFallsBack(t *testing.T) {
	b := testBuilder()

	for _, raw := range []string{"", "   "} {
		a := b.Build("HW", raw, "today", "", "", 0)
		if a.ClassName != UnknownClass {
			t.Errorf("Build with class %q: ClassName = %q, want %q", raw, a.ClassName, UnknownClass)
		}
	}

	// A non-blank class is never replaced.
	if a := b.Build("HW", "Geometry", "today", "", "", 0); a.ClassName != "Geometry" {
		t.Errorf("ClassName = %q, want %q", a.ClassName, "Geometry")
	}
}

func TestBuild_NegativePointsClamped(t *testing.T) {
	b := testBuilder()

	a := b.Build("HW", "Math", "today", "", "", -5)
	if a.MaxPoints != 0 {
		t.Errorf("MaxPoints = %d, want 0", a.MaxPoints)
	}
}

func TestParseSource(t *testing.T) {
	cases := []struct {
		in      string
		want    Source
		wantErr bool
	}{
		{"jupiter", SourceJupiter, false},
		{" Google_Classroom ", SourceGoogleClassroom, false},
		{"sheets_calendar", SourceSheetsCalendar, false},
		{"GoogleAccount0", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseSource(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseSource(%q) should fail", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSource(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSource(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAssignmentKey(t *testing.T) {
	a := Assignment{Name: "HW1", ClassName: "Geometry", URL: "u1", Source: SourceJupiter}
	b := Assignment{Name: "HW1", ClassName: "Geometry", URL: "u1", Source: SourceGoogleClassroom}

	if a.Key() != b.Key() {
		t.Error("records differing only in source should share a key")
	}

	c := Assignment{Name: "HW1", ClassName: "Geometry", URL: "u2"}
	if a.Key() == c.Key() {
		t.Error("records with different URLs must not share a key")
	}
}

func TestValidateStruct(t *testing.T) {
	good := Assignment{Name: "HW1", ClassName: "Geometry", DueDate: NoDueDate, Source: SourceJupiter}
	if err := ValidateStruct(good); err != nil {
		t.Errorf("valid assignment rejected: %v", err)
	}

	bad := Assignment{Name: "HW1", DueDate: NoDueDate, Source: Source("homeroom")}
	if err := ValidateStruct(bad); err == nil {
		t.Error("unknown source should fail validation")
	}

	noName := Assignment{DueDate: NoDueDate}
	if err := ValidateStruct(noName); err == nil {
		t.Error("missing name should fail validation")
	}
}
