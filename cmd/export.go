/*
Copyright © 2025 Pranav J
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"
)

var (
	exportFormat string
	exportOut    string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the persisted assignments as JSON or YAML",
	Long: `Export writes the persisted assignment set to stdout (or a file with
-o) for use by other tools, e.g. a calendar importer.

Examples:
  assignsync export
  assignsync export --format yaml -o assignments.yaml`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := getStore()
	if err != nil {
		return fmt.Errorf("init assignment store: %w", err)
	}
	assignments, err := st.Load()
	if err != nil {
		return fmt.Errorf("load assignments: %w", err)
	}

	var data []byte
	switch exportFormat {
	case "json":
		data, err = json.MarshalIndent(assignments, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(assignments)
	default:
		return fmt.Errorf("unsupported format %q (json or yaml)", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("marshal assignments: %w", err)
	}

	if exportOut == "" {
		cmd.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	cmd.Printf("Wrote %d assignments to %s\n", len(assignments), exportOut)
	return nil
}
