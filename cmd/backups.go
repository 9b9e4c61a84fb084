/*
Copyright © 2025 Pranav J
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pruneKeep int

// backupsCmd represents the backups command
var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Inspect and prune assignment backups",
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backup snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		backups, err := getBackups()
		if err != nil {
			return fmt.Errorf("init backup store: %w", err)
		}
		names := backups.List()
		if len(names) == 0 {
			cmd.Println("No backups yet.")
			return nil
		}
		for _, name := range names {
			cmd.Println(name)
		}
		return nil
	},
}

var backupsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		backups, err := getBackups()
		if err != nil {
			return fmt.Errorf("init backup store: %w", err)
		}
		keep := pruneKeep
		if keep <= 0 {
			keep = GetConfig().Backup.Keep
		}
		deleted := backups.CleanupOld(keep)
		cmd.Printf("Deleted %d backup(s), kept at most %d.\n", deleted, keep)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupsCmd)
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsPruneCmd)
	backupsPruneCmd.Flags().IntVarP(&pruneKeep, "keep", "k", 0, "how many snapshots to keep (default from config)")
}
