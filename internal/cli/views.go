package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"studymate/internal/lifecycle"
	"studymate/internal/view"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show all tasks in date order",
	Args:  cobra.NoArgs,
	RunE:  runTimeline,
}

func init() {
	listCmd.Flags().StringP("filter", "f", "", "Status filter: all, pending, completed or overdue")
	listCmd.Flags().StringP("search", "s", "", "Only tasks whose title or category contains this text")
}

func runList(cmd *cobra.Command, args []string) error {
	filterFlag, _ := cmd.Flags().GetString("filter")
	search, _ := cmd.Flags().GetString("search")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd.Flags().Changed("filter") {
		f, err := view.ParseStatusFilter(filterFlag)
		if err != nil {
			return err
		}
		a.ctl.Dispatch(lifecycle.SetFilter(f))
	}
	a.ctl.Dispatch(lifecycle.SetSearch(search))

	printRows(cmd.OutOrStdout(), a.ctl.Views().Rows)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	printStats(out, a.ctl.Views().Stats)
	saved, ok, err := a.db.UpdatedAt(a.cfg.StorageKey)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(out, "Saved:     %s\n", saved.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runTimeline(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	printTimeline(cmd.OutOrStdout(), a.ctl.Views().Timeline)
	return nil
}

func printRows(w io.Writer, rows []view.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, view.NoTasksMessage)
		return
	}
	for _, r := range rows {
		t := r.Task
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		when := t.Date
		if t.Time != "" {
			when += " " + t.Time
		}
		line := fmt.Sprintf("%s %-16s %-6s %-40s %s", check, when, t.Priority, t.Title, t.Category)
		if r.Overdue {
			line += "  OVERDUE"
		}
		fmt.Fprintln(w, line)
	}
}

func printStats(w io.Writer, s view.Stats) {
	fmt.Fprintf(w, "Total:     %d\n", s.Total)
	fmt.Fprintf(w, "Completed: %d\n", s.Completed)
	fmt.Fprintf(w, "Progress:  %d%%\n", s.ProgressPercent)
	fmt.Fprintf(w, "Today:     %d\n", s.Today)
	fmt.Fprintf(w, "This week: %d\n", s.Week)
	fmt.Fprintf(w, "Overdue:   %d\n", s.Overdue)
}

func printTimeline(w io.Writer, tl view.Timeline) {
	if tl.Empty() {
		fmt.Fprintln(w, view.NoTimelineMessage)
		return
	}
	for _, t := range tl.Entries {
		when := t.Date
		if t.Time != "" {
			when += " " + t.Time
		}
		mark := " "
		if t.Completed {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s %-16s %s  #%s\n", mark, when, t.Title, t.Category)
	}
}
