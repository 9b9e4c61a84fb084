// Package reconcile orchestrates one collection pass: sequential
// scrapes, merging, anomaly detection, human arbitration of suspicious
// results, and guarded persistence. Once arbitration starts it always
// runs to completion; partial persistence would corrupt the backup
// baseline.
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pranavj/assignsync/internal/anomaly"
	"github.com/pranavj/assignsync/internal/merge"
	"github.com/pranavj/assignsync/models"
	"github.com/pranavj/assignsync/scrape"
	"github.com/pranavj/assignsync/store"
)

// Action is the user's answer to a suspicious-results prompt.
type Action string

const (
	// ActionConfirm accepts the new zero results as legitimate.
	ActionConfirm Action = "confirm"
	// ActionReject distrusts the new zero results; backup data is
	// substituted for the rejected sources.
	ActionReject Action = "reject"
)

// Decision carries the prompt response. RejectedSources is consulted
// only when Act is ActionReject.
type Decision struct {
	Act             Action
	RejectedSources []models.Source
}

// Prompter is the human-in-the-loop channel for suspicious results.
// The call blocks until the user answers; the run does not proceed
// without a response.
type Prompter interface {
	PromptSuspiciousResults(ctx context.Context, anomalies []anomaly.Anomaly) (Decision, error)
}

// Alerter surfaces hard failures. The call blocks until the user
// acknowledges.
type Alerter interface {
	AlertUser(ctx context.Context, title, message string)
}

// Logf matches the verbose-logging hook the CLI wires in.
type Logf func(format string, args ...any)

// Summary describes one finished run.
type Summary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	Report       anomaly.Report
	SourceCounts map[models.Source]int
	FinalCount   int
	Persisted    bool
	BackupPath   string
	Pruned       int
}

// Runner wires the collaborators of a collection pass. All fields are
// injected explicitly; there is no ambient global state.
type Runner struct {
	Store    *store.AssignmentStore
	Backups  *store.BackupStore
	Detector *anomaly.Detector
	Prompter Prompter
	Alerter  Alerter

	// KeepBackups bounds the snapshot directory after a successful
	// persist.
	KeepBackups int
	// DryRun skips persistence and backup pruning.
	DryRun bool
	// Log receives verbose progress lines; nil disables them.
	Log Logf
}

func (r *Runner) logf(format string, args ...any) {
	if r.Log != nil {
		r.Log(format, args...)
	}
}

// Run executes one full collection pass over the given sources, in
// order. Cancellation is honored between collector runs and before the
// user-facing prompt; after that the pass runs to completion.
func (r *Runner) Run(ctx context.Context, sources []scrape.SourceRun) (Summary, error) {
	summary := Summary{
		RunID:        uuid.NewString(),
		StartedAt:    time.Now().UTC(),
		SourceCounts: make(map[models.Source]int),
	}

	// Baseline for anomaly comparison: the set persisted by the last
	// run, loaded before anything overwrites it. A load failure only
	// degrades anomaly detection, it never fails the run.
	previous, err := r.Store.Load()
	if err != nil {
		r.logf("could not load previous assignments, skipping anomaly baseline: %v", err)
		previous = nil
	}

	if path, ok := r.Backups.CreateBackup(); ok {
		summary.BackupPath = path
		if path != "" {
			r.logf("backed up current assignments to %s", path)
		}
	} else {
		r.logf("backup of current assignments failed; continuing without one")
	}

	order, results, err := r.collect(ctx, sources)
	if err != nil {
		summary.FinishedAt = time.Now().UTC()
		return summary, err
	}
	for src, res := range results {
		if res.Success {
			summary.SourceCounts[src] = len(res.Assignments)
		}
	}

	report := r.Detector.Analyze(order, results, previous)
	summary.Report = report

	final := r.resolve(ctx, report, order, results)
	summary.FinalCount = len(final)

	// Never overwrite good historical data with an empty result: when
	// sources failed and nothing was collected, the previous file
	// stands.
	if report.CriticalFailures && len(final) == 0 {
		r.logf("all sources empty after failures; leaving persisted file untouched")
		summary.FinishedAt = time.Now().UTC()
		return summary, nil
	}

	if r.DryRun {
		r.logf("dry run: skipping persistence of %d assignments", len(final))
		summary.FinishedAt = time.Now().UTC()
		return summary, nil
	}

	if err := r.Store.Save(final); err != nil {
		summary.FinishedAt = time.Now().UTC()
		return summary, fmt.Errorf("persist assignments: %w", err)
	}
	summary.Persisted = true
	summary.Pruned = r.Backups.CleanupOld(r.KeepBackups)
	summary.FinishedAt = time.Now().UTC()
	return summary, nil
}

// collect runs the collectors one at a time. They share a single
// embedded browser on the automation side, so they must never overlap.
// Results from runs sharing a source tag are combined: assignments
// concatenate in run order and any failed run fails the tag.
func (r *Runner) collect(ctx context.Context, sources []scrape.SourceRun) ([]models.Source, map[models.Source]*models.ScrapeResult, error) {
	order := make([]models.Source, 0, len(sources))
	results := make(map[models.Source]*models.ScrapeResult)

	for _, run := range sources {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("collection canceled before %s: %w", run.Source, err)
		}

		res := scrape.Tag(run.Source, run.Collector.Collect(ctx))
		if res.Success {
			r.logf("%s: collected %d assignments", run.Source, len(res.Assignments))
		} else {
			r.logf("%s: collection failed: %s", run.Source, res.Err)
		}

		existing, seen := results[run.Source]
		if !seen {
			order = append(order, run.Source)
			results[run.Source] = &res
			continue
		}
		existing.Assignments = append(existing.Assignments, res.Assignments...)
		if !res.Success {
			existing.Success = false
			existing.Err = joinErrs(existing.Err, res.Err)
		}
		existing.NeedsAuth = existing.NeedsAuth || res.NeedsAuth
	}
	return order, results, nil
}

// resolve arbitrates the anomaly report and produces the final set.
// Internal errors degrade to pass-through of the new data; nothing in
// here aborts the run.
func (r *Runner) resolve(ctx context.Context, report anomaly.Report, order []models.Source, results map[models.Source]*models.ScrapeResult) []models.Assignment {
	if report.CriticalFailures && r.Alerter != nil {
		r.Alerter.AlertUser(ctx, "Assignment collection failed", failureMessage(report.Failures))
	}

	if report.SuspiciousResults && r.Prompter != nil {
		if err := ctx.Err(); err == nil {
			decision, perr := r.Prompter.PromptSuspiciousResults(ctx, report.Anomalies)
			if perr != nil {
				r.logf("suspicious-results prompt failed, keeping new data: %v", perr)
			} else if decision.Act == ActionReject {
				r.restoreFromBackup(decision.RejectedSources, results)
			}
		} else {
			r.logf("canceled before suspicious-results prompt, keeping new data")
		}
	}

	ordered := make([]models.ScrapeResult, 0, len(order))
	for _, src := range order {
		if res := results[src]; res != nil {
			ordered = append(ordered, *res)
		}
	}
	final := merge.Results(ordered)
	merge.SortByDueDate(final)
	return final
}

// restoreFromBackup swaps the rejected sources' empty results for their
// records in the most recent snapshot. The substituted results are
// marked successful so the empty-set persistence guard does not count
// them as failures.
func (r *Runner) restoreFromBackup(rejected []models.Source, results map[models.Source]*models.ScrapeResult) {
	snap := r.Backups.LoadMostRecent()
	if snap == nil {
		r.logf("no readable backup snapshot; rejected sources keep their new results")
		return
	}

	for _, src := range rejected {
		restored := snap.BySource(src)
		results[src] = &models.ScrapeResult{
			Success:     true,
			Assignments: restored,
		}
		r.logf("%s: restored %d assignments from %s", src, len(restored), snap.Filename)
	}
}

func failureMessage(failures []anomaly.Failure) string {
	lines := make([]string, 0, len(failures))
	for _, f := range failures {
		lines = append(lines, fmt.Sprintf("%s: %s (previously %d assignments)", f.Source, f.Err, f.PreviousCount))
	}
	return strings.Join(lines, "\n")
}

func joinErrs(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "; " + b
	}
}
