/*
Copyright © 2025 Pranav J
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/pranavj/assignsync/internal/anomaly"
	"github.com/pranavj/assignsync/internal/reconcile"
)

// consolePrompter asks the user, per suspicious source, whether the new
// empty result is legitimate or the backup should be restored. It is
// the interactive implementation of the human-in-the-loop channel.
type consolePrompter struct{}

func (p *consolePrompter) PromptSuspiciousResults(ctx context.Context, anomalies []anomaly.Anomaly) (reconcile.Decision, error) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Some sources returned zero assignments where the last run had several.")
	fmt.Fprintln(os.Stderr, "This usually means the scrape silently broke.")

	decision := reconcile.Decision{Act: reconcile.ActionConfirm}
	for _, a := range anomalies {
		prompt := promptui.Select{
			Label: fmt.Sprintf("%s: 0 assignments now, %d before", a.Source, a.PreviousCount),
			Items: []string{
				"Keep the new (empty) result",
				"Restore this source from the last backup",
			},
		}
		idx, _, err := prompt.Run()
		if err != nil {
			return reconcile.Decision{}, fmt.Errorf("suspicious-results prompt: %w", err)
		}
		if idx == 1 {
			decision.Act = reconcile.ActionReject
			decision.RejectedSources = append(decision.RejectedSources, a.Source)
		}
	}
	return decision, nil
}

// autoConfirm accepts every suspicious result without asking. Wired in
// by --yes for unattended runs (e.g. the daily timer).
type autoConfirm struct{}

func (autoConfirm) PromptSuspiciousResults(ctx context.Context, anomalies []anomaly.Anomaly) (reconcile.Decision, error) {
	for _, a := range anomalies {
		fmt.Fprintf(os.Stderr, "Warning: %s dropped from %d assignments to 0; accepting (--yes)\n", a.Source, a.PreviousCount)
	}
	return reconcile.Decision{Act: reconcile.ActionConfirm}, nil
}

// consoleAlerter prints a blocking alert and waits for acknowledgement.
type consoleAlerter struct{}

func (a *consoleAlerter) AlertUser(ctx context.Context, title, message string) {
	fmt.Fprintf(os.Stderr, "\n%s\n%s\n", title, message)
	prompt := promptui.Prompt{
		Label:     "Press Enter to continue",
		AllowEdit: false,
	}
	_, _ = prompt.Run()
}

// stderrAlerter logs the alert without blocking, for unattended runs.
type stderrAlerter struct{}

func (stderrAlerter) AlertUser(ctx context.Context, title, message string) {
	fmt.Fprintf(os.Stderr, "\n%s\n%s\n", title, message)
}
