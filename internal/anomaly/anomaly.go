// Package anomaly compares a fresh collection run against the
// previously persisted assignment set and flags per-source results that
// look like scraper breakage rather than real schedule changes.
package anomaly

import (
	"github.com/pranavj/assignsync/models"
)

// DefaultZeroThreshold is the minimum previous count for an empty new
// result to be treated as suspicious. A source that previously held 1-2
// items can legitimately drain to zero; a source that held more than
// this and suddenly reports nothing usually means the scrape silently
// broke.
const DefaultZeroThreshold = 2

// Anomaly flags a suspicious drop to zero for one source.
type Anomaly struct {
	Source        models.Source `json:"source"`
	PreviousCount int           `json:"previous_count"`
	NewCount      int           `json:"new_count"`
}

// Failure records a source whose collection failed outright.
type Failure struct {
	Source        models.Source `json:"source"`
	Err           string        `json:"error"`
	PreviousCount int           `json:"previous_count"`
}

// Report is the outcome of one analysis pass. It is ephemeral: consumed
// by the arbitrator and, when anomalies exist, by the user confirmation
// step, never persisted.
type Report struct {
	Anomalies []Anomaly `json:"anomalies"`
	Failures  []Failure `json:"failures"`

	SuspiciousResults bool `json:"suspicious_results"`
	CriticalFailures  bool `json:"critical_failures"`

	SourcesSucceeded int `json:"sources_succeeded"`
	SourcesFailed    int `json:"sources_failed"`
}

// Detector classifies per-source results. Construct with NewDetector.
type Detector struct {
	// ZeroThreshold is the previous-count bar above which a new zero
	// count becomes suspicious.
	ZeroThreshold int
}

// NewDetector returns a Detector with the default threshold.
func NewDetector() *Detector {
	return &Detector{ZeroThreshold: DefaultZeroThreshold}
}

// Analyze classifies each source of the new run as normal, a suspicious
// zero, or a failure.
//
// The sources slice fixes which sources are expected and in what order;
// a source absent from results is a failure. When the previous set is
// empty there is no baseline to compare against (cold start, first
// run): the report is empty and no source is flagged.
func (d *Detector) Analyze(sources []models.Source, results map[models.Source]*models.ScrapeResult, previous []models.Assignment) Report {
	report := Report{}
	if len(previous) == 0 {
		return report
	}

	previousCounts := make(map[models.Source]int)
	for _, a := range previous {
		previousCounts[a.Source]++
	}

	for _, src := range sources {
		res := results[src]
		if res == nil || !res.Success {
			errMsg := "no result collected"
			if res != nil && res.Err != "" {
				errMsg = res.Err
			}
			report.Failures = append(report.Failures, Failure{
				Source:        src,
				Err:           errMsg,
				PreviousCount: previousCounts[src],
			})
			report.CriticalFailures = true
			report.SourcesFailed++
			continue
		}

		report.SourcesSucceeded++
		newCount := len(res.Assignments)
		if newCount == 0 && previousCounts[src] > d.ZeroThreshold {
			report.Anomalies = append(report.Anomalies, Anomaly{
				Source:        src,
				PreviousCount: previousCounts[src],
				NewCount:      newCount,
			})
			report.SuspiciousResults = true
		}
	}
	return report
}
