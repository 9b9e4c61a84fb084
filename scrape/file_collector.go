package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pranavj/assignsync/models"
)

// rawPayload is the per-source drop file the browser-automation side
// writes after a scrape pass: raw fields straight off the page, before
// normalization.
type rawPayload struct {
	Success     bool            `json:"success"`
	Err         string          `json:"error,omitempty"`
	NeedsAuth   bool            `json:"needs_auth,omitempty"`
	Assignments []rawAssignment `json:"assignments"`
}

type rawAssignment struct {
	Name        string `json:"name"`
	ClassName   string `json:"class"`
	DueDate     string `json:"due_date"`
	URL         string `json:"url"`
	Description string `json:"description"`
	MaxPoints   int    `json:"max_points"`
}

// FileCollector reads one origin's drop file and normalizes its records
// through the assignment builder. It is how the CLI consumes scrapes
// performed by the external browser automation: the automation dumps
// raw payloads per origin, and a collection pass picks them up.
type FileCollector struct {
	Path    string
	Builder *models.Builder
}

// NewFileCollector creates a collector reading the given payload file.
func NewFileCollector(path string, builder *models.Builder) *FileCollector {
	return &FileCollector{Path: path, Builder: builder}
}

// Collect reads and normalizes the payload. A missing or unreadable
// file is a failed scrape, never an error that aborts the run.
func (c *FileCollector) Collect(ctx context.Context) models.ScrapeResult {
	if err := ctx.Err(); err != nil {
		return models.ScrapeResult{Err: err.Error()}
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		msg := fmt.Sprintf("read %s: %v", c.Path, err)
		if errors.Is(err, fs.ErrNotExist) {
			msg = fmt.Sprintf("no scrape payload at %s", c.Path)
		}
		return models.ScrapeResult{Err: msg}
	}

	var payload rawPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return models.ScrapeResult{Err: fmt.Sprintf("parse %s: %v", c.Path, err)}
	}

	res := models.ScrapeResult{
		Success:     payload.Success,
		Err:         payload.Err,
		NeedsAuth:   payload.NeedsAuth,
		Assignments: make([]models.Assignment, 0, len(payload.Assignments)),
	}
	for _, raw := range payload.Assignments {
		res.Assignments = append(res.Assignments, c.Builder.Build(
			raw.Name, raw.ClassName, raw.DueDate, raw.URL, raw.Description, raw.MaxPoints,
		))
	}
	return res
}
