package cli

import (
	"github.com/spf13/cobra"

	"github.com/pipelift/pipelift/internal/engine"
	"github.com/pipelift/pipelift/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Now     string
	Execute bool
}

// NewCheckCommand creates the check command: run one evaluation pass over all
// registered triggers.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate all triggers once",
		Long: `Check runs one evaluation pass: every enabled trigger is checked in
registration order, firings are appended to the history, and updated trigger
state is written back to the store.

With --execute, fired triggers also submit their pipeline payload and record
the resulting job ID.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Now, "now", "", "evaluation time (default now)")
	cmd.Flags().BoolVar(&opts.Execute, "execute", false, "submit pipelines for fired triggers")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	now, err := parseTimeFlag(opts.Now)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --now", err)
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	reg, err := loadRegistry(ctx, st)
	if err != nil {
		return err
	}
	hist, err := loadHistory(ctx, st)
	if err != nil {
		return err
	}

	// Resume seq numbering above the persisted history.
	maxSeq, err := st.MaxFiringSeq(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "read history seq", err)
	}

	eng := engine.New(reg, hist,
		engine.WithAssetCatalog(st),
		engine.WithSubmitter(store.NewSubmitter(st)),
		engine.WithClock(engine.NewClockAt(maxSeq)),
	)

	fired := eng.EvaluateAll(ctx, now, opts.Execute)

	if err := st.AppendFirings(ctx, fired); err != nil {
		return WrapExitError(ExitCommandError, "persist firings", err)
	}
	if err := saveRegistry(ctx, st, reg); err != nil {
		return err
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if done, err := f.JSON(fired); done {
		return err
	}

	f.Printf("checked %d triggers, %d fired\n", reg.Len(), len(fired))
	for _, rec := range fired {
		f.Printf("  %s (%s): %s", rec.TriggerName, rec.Kind, rec.Reason)
		if rec.JobID != "" {
			f.Printf(" [job %s]", rec.JobID)
		}
		f.Printf("\n")
	}
	return nil
}
