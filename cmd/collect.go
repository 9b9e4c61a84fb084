/*
Copyright © 2025 Pranav J
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pranavj/assignsync/internal/anomaly"
	"github.com/pranavj/assignsync/internal/reconcile"
	"github.com/pranavj/assignsync/models"
	"github.com/pranavj/assignsync/scrape"
	"github.com/spf13/cobra"
)

var (
	collectYes    bool
	collectDryRun bool
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run a full collection and reconciliation pass",
	Long: `Collect reads the per-source scrape payloads dropped by the browser
automation, normalizes and merges them, compares the result against the
previous backup, and persists the final assignment set.

Sources are processed one at a time in a fixed order so deduplication
stays deterministic. Suspicious drops to zero block on a confirmation
prompt unless --yes is given.`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().BoolVarP(&collectYes, "yes", "y", false, "accept suspicious results without prompting")
	collectCmd.Flags().BoolVar(&collectDryRun, "dry-run", false, "run the full pass but skip persistence")
}

func runCollect(cmd *cobra.Command, args []string) error {
	config := GetConfig()

	st, err := getStore()
	if err != nil {
		return fmt.Errorf("init assignment store: %w", err)
	}
	backups, err := getBackups()
	if err != nil {
		return fmt.Errorf("init backup store: %w", err)
	}

	detector := anomaly.NewDetector()
	detector.ZeroThreshold = config.Anomaly.ZeroThreshold

	var prompter reconcile.Prompter
	var alerter reconcile.Alerter
	if collectYes {
		prompter = autoConfirm{}
		alerter = stderrAlerter{}
	} else {
		prompter = &consolePrompter{}
		alerter = &consoleAlerter{}
	}

	runner := &reconcile.Runner{
		Store:       st,
		Backups:     backups,
		Detector:    detector,
		Prompter:    prompter,
		Alerter:     alerter,
		KeepBackups: config.Backup.Keep,
		DryRun:      collectDryRun,
	}
	if isVerbose() {
		runner.Log = func(format string, a ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}

	summary, err := runner.Run(cmd.Context(), configuredSources())
	if err != nil {
		return err
	}

	if hist, herr := getHistory(); herr != nil {
		fmt.Fprintln(os.Stderr, "Warning: run history unavailable:", herr)
	} else if hist != nil {
		if rerr := hist.Record(summary); rerr != nil {
			fmt.Fprintln(os.Stderr, "Warning: could not record run:", rerr)
		}
		defer func() { _ = hist.Close() }()
	}

	for _, src := range models.AllSources {
		if count, ok := summary.SourceCounts[src]; ok {
			cmd.Printf("%s: %d assignments\n", src, count)
		}
	}
	cmd.Printf("Final set: %d assignments\n", summary.FinalCount)
	switch {
	case summary.Persisted:
		cmd.Printf("Saved to %s\n", dataFilePath())
	case collectDryRun:
		cmd.Println("Dry run: nothing persisted.")
	default:
		cmd.Println("Previous data left untouched.")
	}
	return nil
}

// configuredSources builds the ordered collector list from config:
// each Google account drops its own payload file, the remaining
// sources one each. Order is fixed so first-occurrence-wins
// deduplication is deterministic across runs.
func configuredSources() []scrape.SourceRun {
	config := GetConfig()
	incoming := filepath.Join(config.Data.Dir, config.Data.IncomingDir)
	builder := newConfiguredBuilder()

	runs := make([]scrape.SourceRun, 0, len(config.Sources.Enabled)+config.Sources.GoogleAccounts)
	for _, raw := range config.Sources.Enabled {
		src, err := models.ParseSource(raw)
		if err != nil {
			continue // enabled values are validated at config load
		}
		if src == models.SourceGoogleClassroom {
			for i := 0; i < config.Sources.GoogleAccounts; i++ {
				path := filepath.Join(incoming, fmt.Sprintf("google_classroom_%d.json", i))
				runs = append(runs, scrape.SourceRun{Source: src, Collector: scrape.NewFileCollector(path, builder)})
			}
			continue
		}
		path := filepath.Join(incoming, string(src)+".json")
		runs = append(runs, scrape.SourceRun{Source: src, Collector: scrape.NewFileCollector(path, builder)})
	}
	return runs
}

// newConfiguredBuilder applies the configured date heuristics.
func newConfiguredBuilder() *models.Builder {
	config := GetConfig()
	b := models.NewBuilder()
	b.Dates.YearFloor = config.Dates.YearFloor
	b.Dates.YearWindowMonths = config.Dates.YearWindowMonths
	return b
}
