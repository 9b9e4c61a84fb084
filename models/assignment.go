package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pranavj/assignsync/internal/dates"
)

// Source identifies where an assignment record was scraped from.
// Raw source strings are validated into this closed set at the boundary
// where scrape results enter the reconciliation core.
type Source string

const (
	SourceGoogleClassroom Source = "google_classroom"
	SourceJupiter         Source = "jupiter"
	SourceSheetsCalendar  Source = "sheets_calendar"
)

// AllSources lists the known sources in the fixed merge order.
var AllSources = []Source{SourceGoogleClassroom, SourceJupiter, SourceSheetsCalendar}

// ParseSource validates a raw source string against the known set.
func ParseSource(raw string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range AllSources {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown assignment source %q", raw)
}

// NoDueDate is the display fallback when a record carries no usable date.
const NoDueDate = "No due date"

// UnknownClass is the class-name fallback when a scraper could not
// determine the course a record belongs to.
const UnknownClass = "Unknown"

// displayLayout renders dates for the UI. Deliberately timezone-naive:
// the user should never see a UTC offset next to a homework deadline.
const displayLayout = "Jan 2, 2006"

// Assignment is one unit of homework, normalized from whatever shape a
// source scraper produced.
type Assignment struct {
	Name          string     `json:"name" validate:"required"`
	ClassName     string     `json:"class"`
	DueDate       string     `json:"due_date" validate:"required"`
	DueDateParsed *time.Time `json:"due_date_parsed,omitempty"`
	URL           string     `json:"url,omitempty"`
	Description   string     `json:"description,omitempty"`
	MaxPoints     int        `json:"max_points" validate:"min=0"`
	Source        Source     `json:"source,omitempty" validate:"omitempty,oneof=google_classroom jupiter sheets_calendar"`
}

// Key identifies duplicates across sources. Two records with equal
// name, class and URL are the same assignment; anything looser risks
// merging genuinely distinct work, since scraped text is deterministic
// per source.
type Key struct {
	Name      string
	ClassName string
	URL       string
}

// Key returns the deduplication key for the assignment.
func (a Assignment) Key() Key {
	return Key{Name: a.Name, ClassName: a.ClassName, URL: a.URL}
}

// ScrapeResult is the output of one collector run. It is created fresh
// per collection pass and never persisted; only its assignments survive
// merging.
type ScrapeResult struct {
	Success     bool         `json:"success"`
	Err         string       `json:"error,omitempty"`
	NeedsAuth   bool         `json:"needs_auth,omitempty"`
	Assignments []Assignment `json:"assignments"`
}

// Builder turns raw scraped fields into Assignments. It owns the date
// normalizer so all records of a run share one clock and one set of
// heuristics.
type Builder struct {
	Dates *dates.Normalizer
}

// NewBuilder returns a Builder with default date heuristics.
func NewBuilder() *Builder {
	return &Builder{Dates: dates.New()}
}

// Build assembles an Assignment from raw scraped fields. It is a pure
// transformation: the due date is normalized, the class name cleaned,
// and the display string computed, with no side effects.
func (b *Builder) Build(name, className, rawDueDate, url, description string, maxPoints int) Assignment {
	a := Assignment{
		Name:        strings.TrimSpace(name),
		ClassName:   CleanClassName(className),
		URL:         strings.TrimSpace(url),
		Description: description,
		MaxPoints:   maxPoints,
	}
	if a.MaxPoints < 0 {
		a.MaxPoints = 0
	}
	if a.ClassName == "" {
		a.ClassName = UnknownClass
	}

	if t, ok := b.Dates.Parse(rawDueDate); ok {
		a.DueDateParsed = &t
		a.DueDate = t.Format(displayLayout)
		return a
	}

	if raw := strings.TrimSpace(rawDueDate); raw != "" {
		a.DueDate = raw
	} else {
		a.DueDate = NoDueDate
	}
	return a
}

// CleanClassName strips the trailing section/room tokens schools append
// to course names ("Algebra II 4-205" -> "Algebra II"). It keeps
// consuming leading words until the first word containing a digit.
// When stripping leaves nothing usable (at most one lone word, as in
// "Room 12"), the original name is returned unchanged rather than an
// empty or mangled one.
func CleanClassName(name string) string {
	trimmed := strings.TrimSpace(name)
	words := strings.Fields(trimmed)

	kept := make([]string, 0, len(words))
	for _, w := range words {
		if strings.ContainsAny(w, "0123456789") {
			break
		}
		kept = append(kept, w)
	}

	if len(kept) == 0 || (len(kept) == 1 && len(kept) < len(words)) {
		return trimmed
	}
	return strings.Join(kept, " ")
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct carrying validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
