package cli

import (
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipelift/pipelift/internal/trigger"
)

// recentCount is how many recent firings the stats report includes.
// Caller convention; the history log itself does not limit anything.
const recentCount = 5

// NewStatsCommand creates the stats command: summarize the firing history.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stats",
		Short:         "Show trigger firing statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, rootOpts)
		},
	}
	return cmd
}

func runStats(cmd *cobra.Command, opts *RootOptions) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	hist, err := loadHistory(cmd.Context(), st)
	if err != nil {
		return err
	}

	stats := hist.Stats(recentCount)

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if done, err := f.JSON(stats); done {
		return err
	}

	f.Printf("total firings: %d\n", stats.Total)
	if stats.Total == 0 {
		return nil
	}

	f.Printf("by kind:\n")
	for _, kind := range []trigger.Kind{trigger.KindDataChange, trigger.KindScheduled, trigger.KindConditional} {
		if n := stats.ByKind[kind]; n > 0 {
			f.Printf("  %s: %d\n", kind, n)
		}
	}

	f.Printf("by trigger:\n")
	names := make([]string, 0, len(stats.ByName))
	for name := range stats.ByName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f.Printf("  %s: %d\n", name, stats.ByName[name])
	}

	f.Printf("most active: %s (%d)\n", stats.MostActive, stats.MostActiveCount)
	f.Printf("recent:\n")
	for _, rec := range stats.Recent {
		f.Printf("  %s\t%s: %s\n", rec.FiredAt.Format(time.RFC3339), rec.TriggerName, rec.Reason)
	}
	return nil
}
