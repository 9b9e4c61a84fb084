/*
Copyright © 2025 Pranav J
*/
package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/pranavj/assignsync/models"
	"github.com/spf13/cobra"
)

var listSource string

var (
	classStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	noDueStyle   = lipgloss.NewStyle().Faint(true)
	sourceStyle  = lipgloss.NewStyle().Faint(true)
	detailsStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(4)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the persisted assignments",
	Long: `List renders the currently persisted assignment set, sorted the way
it was saved (by due date, undated work last).

Examples:
  assignsync list
  assignsync list --source jupiter
  assignsync list -v                # include URLs and point values`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listSource, "source", "s", "", "only show assignments from one source")
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := getStore()
	if err != nil {
		return fmt.Errorf("init assignment store: %w", err)
	}
	assignments, err := st.Load()
	if err != nil {
		return fmt.Errorf("load assignments: %w", err)
	}

	var filter models.Source
	if listSource != "" {
		filter, err = models.ParseSource(listSource)
		if err != nil {
			return err
		}
	}

	shown := 0
	for _, a := range assignments {
		if filter != "" && a.Source != filter {
			continue
		}
		shown++

		due := dueStyle.Render(a.DueDate)
		if a.DueDateParsed == nil {
			due = noDueStyle.Render(a.DueDate)
		}
		cmd.Printf("%s  %s  %s %s\n",
			due,
			classStyle.Render(a.ClassName),
			a.Name,
			sourceStyle.Render("["+string(a.Source)+"]"),
		)
		if isVerbose() {
			if a.URL != "" {
				cmd.Println(detailsStyle.Render(a.URL))
			}
			if a.MaxPoints > 0 {
				cmd.Println(detailsStyle.Render(fmt.Sprintf("%d points", a.MaxPoints)))
			}
		}
	}

	if shown == 0 {
		cmd.Println("No assignments. Run 'assignsync collect' after a scrape.")
		return nil
	}
	cmd.Printf("\n%d assignments\n", shown)
	return nil
}
