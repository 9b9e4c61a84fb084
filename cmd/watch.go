/*
Copyright © 2025 Pranav J
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the assignment list whenever the data file changes",
	Long: `Watch keeps the assignment list on screen and refreshes it when the
companion app (or another collect run) rewrites the data file. Stop
with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory, not the file: the store replaces the file
	// by rename, which drops a watch placed on the file itself.
	dataPath := dataFilePath()
	if err := watcher.Add(filepath.Dir(dataPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(dataPath), err)
	}

	if err := runList(cmd, nil); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	target := filepath.Base(dataPath)
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cmd.Println("\n--- data file changed ---")
			if err := runList(cmd, nil); err != nil {
				fmt.Fprintln(os.Stderr, "Warning:", err)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "Watch error:", werr)
		}
	}
}
