package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// NewLoadCommand creates the load command, which compiles a directory of
// trigger definitions and persists them to the store.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <definitions-dir>",
		Short: "Load trigger definitions from CUE/YAML files",
		Long: `Load compiles all .cue and .yaml trigger definitions in a directory and
registers them, overwriting triggers with the same name (last write wins).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runLoad(cmd *cobra.Command, opts *RootOptions, dir string) error {
	defs, err := LoadDefinitions(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "load definitions", err)
	}

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	reg, err := loadRegistry(ctx, st)
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range defs.Triggers {
		if _, err := reg.CreateFromDefinition(&defs.Triggers[i], now); err != nil {
			return WrapExitError(ExitFailure, "register trigger "+defs.Triggers[i].Name, err)
		}
	}
	for _, wf := range defs.Workflows {
		registered, err := reg.CreateWorkflow(wf.Name, wf.Stages, now)
		if err != nil {
			return WrapExitError(ExitFailure, "register workflow "+wf.Name, err)
		}
		registered.Enabled = wf.Enabled
	}

	if err := saveRegistry(ctx, st, reg); err != nil {
		return err
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	summary := map[string]any{
		"triggers":  len(defs.Triggers),
		"workflows": len(defs.Workflows),
	}
	if done, err := f.JSON(summary); done {
		return err
	}
	f.Printf("loaded %d triggers, %d workflows from %s\n", len(defs.Triggers), len(defs.Workflows), dir)
	return nil
}
