/*
Copyright © 2025 Pranav J
*/
package cmd

import (
	"fmt"

	"github.com/pranavj/assignsync/models"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent collection runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		hist, err := getHistory()
		if err != nil {
			return fmt.Errorf("open run history: %w", err)
		}
		if hist == nil {
			cmd.Println("Run history is disabled (history.enabled: false).")
			return nil
		}
		defer func() { _ = hist.Close() }()

		entries, err := hist.Recent(historyLimit)
		if err != nil {
			return fmt.Errorf("read run history: %w", err)
		}
		if len(entries) == 0 {
			cmd.Println("No runs recorded yet.")
			return nil
		}

		for _, e := range entries {
			status := "ok"
			switch {
			case e.CriticalFailures:
				status = "failures"
			case e.Suspicious:
				status = "suspicious"
			}
			persisted := "saved"
			if !e.Persisted {
				persisted = "not saved"
			}
			id := e.RunID
			if len(id) > 8 {
				id = id[:8]
			}
			cmd.Printf("%s  %s  %d assignments  %s, %s\n",
				e.StartedAt.Local().Format("2006-01-02 15:04"),
				id, e.FinalCount, status, persisted)
			for _, src := range models.AllSources {
				if count, ok := e.SourceCounts[src]; ok {
					cmd.Printf("    %s: %d\n", src, count)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "how many runs to show")
}
