package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command: list the firing log in
// chronological order.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "history",
		Short:         "Show the trigger firing history",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, rootOpts)
		},
	}
	return cmd
}

func runHistory(cmd *cobra.Command, opts *RootOptions) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	hist, err := loadHistory(cmd.Context(), st)
	if err != nil {
		return err
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	records := hist.Records()
	if done, err := f.JSON(records); done {
		return err
	}

	if len(records) == 0 {
		f.Printf("no firings recorded\n")
		return nil
	}
	for _, rec := range records {
		f.Printf("%d\t%s\t%s (%s): %s", rec.Seq, rec.FiredAt.Format(time.RFC3339), rec.TriggerName, rec.Kind, rec.Reason)
		if rec.JobID != "" {
			f.Printf(" [job %s]", rec.JobID)
		}
		f.Printf("\n")
	}
	return nil
}
