// Package scrape defines the contracts between the reconciliation core
// and the browser-automation side of the application. The automation
// itself (DOM selection, click simulation, login flows) lives outside
// this module; the core only consumes the results.
package scrape

import (
	"context"

	"github.com/pranavj/assignsync/models"
)

// BrowserDriver is the embedded-browser surface the external collectors
// drive. Exactly one page can be displayed at a time, which is why
// collectors run sequentially, never concurrently.
type BrowserDriver interface {
	LoadURL(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	ExecuteScript(ctx context.Context, js string) (any, error)
	WaitForLoad(ctx context.Context) error
}

// Collector produces the scrape result for one origin. Success=false
// with NeedsAuth=true signals a recoverable, user-actionable failure;
// the core treats it like any other failure, but the surrounding
// application may prompt for re-authentication before retrying.
type Collector interface {
	Collect(ctx context.Context) models.ScrapeResult
}

// SourceRun pairs a collector with the source tag its records carry.
// Two Google accounts run as two SourceRuns sharing one tag.
type SourceRun struct {
	Source    models.Source
	Collector Collector
}

// Tag stamps every assignment in the result with the given source and
// validates each record. Records that fail validation are dropped from
// the result rather than poisoning the merge; an otherwise successful
// result stays successful.
func Tag(src models.Source, res models.ScrapeResult) models.ScrapeResult {
	kept := make([]models.Assignment, 0, len(res.Assignments))
	for _, a := range res.Assignments {
		a.Source = src
		if err := models.ValidateStruct(a); err != nil {
			continue
		}
		kept = append(kept, a)
	}
	res.Assignments = kept
	return res
}
