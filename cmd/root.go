/*
Copyright © 2025 Pranav J
*/
package cmd

import (
	"os"
	"path/filepath"

	"github.com/pranavj/assignsync/internal/history"
	"github.com/pranavj/assignsync/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.3.1"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "assignsync",
	Short: "assignsync reconciles scraped school assignments into one calendar feed.",
	Long: `assignsync takes the raw assignment payloads scraped from Google
Classroom and Jupiter Ed, normalizes them into a single schema,
deduplicates across sources, and guards the result against scraper
breakage by comparing each run with the previous backup.

The scraping itself happens in the companion browser app; assignsync
consumes its per-source payload files and owns the persisted data.`,
	Version: version,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.assignsync.yaml or $HOME/.assignsync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// dataFilePath returns the full path to the persisted assignment file.
func dataFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Data.Dir, config.Data.File)
}

// getStore initializes the assignment store from the active config.
func getStore() (*store.AssignmentStore, error) {
	return store.NewAssignmentStore(dataFilePath())
}

// getBackups initializes the backup store from the active config.
func getBackups() (*store.BackupStore, error) {
	config := GetConfig()
	return store.NewBackupStore(dataFilePath(), filepath.Join(config.Data.Dir, config.Backup.Dir))
}

// getHistory opens the run-history log, or returns nil when disabled.
func getHistory() (*history.Store, error) {
	config := GetConfig()
	if !config.History.Enabled {
		return nil, nil
	}
	return history.Open(filepath.Join(config.Data.Dir, config.History.File))
}
