package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipelift/pipelift/internal/engine"
	"github.com/pipelift/pipelift/internal/trigger"
)

// NewListCommand creates the list command: show registered triggers and
// workflows.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List registered triggers and workflows",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, rootOpts)
		},
	}
	return cmd
}

func runList(cmd *cobra.Command, opts *RootOptions) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	reg, err := loadRegistry(cmd.Context(), st)
	if err != nil {
		return err
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if done, err := f.JSON(map[string]any{
		"triggers":  reg.List(),
		"workflows": reg.Workflows(),
	}); done {
		return err
	}

	triggers := reg.List()
	if len(triggers) == 0 && len(reg.Workflows()) == 0 {
		f.Printf("no triggers registered\n")
		return nil
	}

	for _, cfg := range triggers {
		state := "enabled"
		if !cfg.Enabled {
			state = "disabled"
		}
		f.Printf("%s (%s, %s)\n", cfg.Name, cfg.Kind, state)
		f.Printf("  created: %s\n", cfg.CreatedAt.Format(time.RFC3339))

		switch cfg.Kind {
		case trigger.KindDataChange:
			f.Printf("  asset: %s\n", cfg.Data.AssetName)
		case trigger.KindScheduled:
			f.Printf("  schedule: %s\n", cfg.Schedule.Descriptor.Description)
			f.Printf("  next run: %s\n", cfg.Schedule.NextRun.Format(time.RFC3339))
		case trigger.KindConditional:
			f.Printf("  condition: %s\n", cfg.Condition.Raw)
		}
		if cfg.LastTriggered != nil {
			f.Printf("  last fired: %s\n", cfg.LastTriggered.Format(time.RFC3339))
		}
		f.Printf("  firings: %d\n", cfg.FireCount)
	}

	listWorkflows(f, reg)
	return nil
}

func listWorkflows(f *OutputFormatter, reg *engine.Registry) {
	for _, wf := range reg.Workflows() {
		f.Printf("workflow %s (%d stages)\n", wf.Name, len(wf.Stages))
		for _, stage := range wf.Stages {
			f.Printf("  %s [%s] -> %s", stage.Name, stage.Type, stage.Pipeline)
			if len(stage.DependsOn) > 0 {
				f.Printf(" (after %s)", strings.Join(stage.DependsOn, ", "))
			}
			f.Printf("\n")
		}
	}
}
