package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipelift/pipelift/internal/engine"
	"github.com/pipelift/pipelift/internal/trigger"
)

// CreateOptions holds flags for the create subcommands.
type CreateOptions struct {
	*RootOptions
	Payload string

	// data
	Asset              string
	NewVersion         bool
	SizeThreshold      float64
	CheckIntervalHours int

	// schedule
	Schedule string
	Disabled bool

	// conditional
	Condition            string
	CheckIntervalMinutes int
}

// NewCreateCommand creates the create command with one subcommand per trigger
// kind.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trigger",
	}
	cmd.PersistentFlags().StringVar(&opts.Payload, "payload", "", "pipeline payload as JSON object of strings")

	data := &cobra.Command{
		Use:   "data <name>",
		Short: "Create a data-change trigger watching an asset",
		Example: `  pipelift create data new_data_trigger --asset credit_default_raw \
      --payload '{"pipeline_name":"data_processing_pipeline"}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createTrigger(cmd, opts, args[0], func(reg *engine.Registry, name string, payload trigger.Payload, now time.Time) (*trigger.Config, error) {
				conds := trigger.DataConditions{
					NewVersion:          opts.NewVersion,
					SizeChangeThreshold: opts.SizeThreshold,
					CheckIntervalHours:  opts.CheckIntervalHours,
				}
				return reg.CreateDataTrigger(name, opts.Asset, payload, &conds, now)
			})
		},
	}
	data.Flags().StringVar(&opts.Asset, "asset", "", "data asset to watch (required)")
	data.Flags().BoolVar(&opts.NewVersion, "new-version", true, "fire when a new asset version appears")
	data.Flags().Float64Var(&opts.SizeThreshold, "size-threshold", 0.1, "size change fraction (accepted, not evaluated)")
	data.Flags().IntVar(&opts.CheckIntervalHours, "check-interval-hours", 6, "intended check interval in hours")

	sched := &cobra.Command{
		Use:   "schedule <name>",
		Short: "Create a scheduled trigger",
		Example: `  pipelift create schedule daily_processing --schedule @daily \
      --payload '{"pipeline_name":"data_processing_pipeline"}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createTrigger(cmd, opts, args[0], func(reg *engine.Registry, name string, payload trigger.Payload, now time.Time) (*trigger.Config, error) {
				return reg.CreateScheduleTrigger(name, opts.Schedule, payload, !opts.Disabled, now)
			})
		},
	}
	sched.Flags().StringVar(&opts.Schedule, "schedule", "", "schedule expression, e.g. @daily (required)")
	sched.Flags().BoolVar(&opts.Disabled, "disabled", false, "create the trigger disabled")

	cond := &cobra.Command{
		Use:   "conditional <name>",
		Short: "Create a conditional trigger",
		Example: `  pipelift create conditional file_monitor \
      --condition file_exists:./new_data_batch.csv --check-interval-minutes 15`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createTrigger(cmd, opts, args[0], func(reg *engine.Registry, name string, payload trigger.Payload, now time.Time) (*trigger.Config, error) {
				return reg.CreateConditionalTrigger(name, opts.Condition, payload, opts.CheckIntervalMinutes, now)
			})
		},
	}
	cond.Flags().StringVar(&opts.Condition, "condition", "", `condition expression, e.g. "file_exists:./x.csv" (required)`)
	cond.Flags().IntVar(&opts.CheckIntervalMinutes, "check-interval-minutes", trigger.DefaultCheckIntervalMinutes, "intended check interval in minutes")

	cmd.AddCommand(data, sched, cond)
	return cmd
}

func createTrigger(cmd *cobra.Command, opts *CreateOptions, name string,
	create func(*engine.Registry, string, trigger.Payload, time.Time) (*trigger.Config, error)) error {

	payload, err := parsePayload(opts.Payload)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --payload", err)
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

	cfg, err := create(reg, name, payload, time.Now())
	if err != nil {
		return WrapExitError(ExitFailure, "create trigger", err)
	}

	if err := saveRegistry(ctx, st, reg); err != nil {
		return err
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if done, err := f.JSON(cfg); done {
		return err
	}
	f.Printf("created %s trigger %q\n", cfg.Kind, cfg.Name)
	if cfg.Kind == trigger.KindScheduled {
		f.Printf("  schedule: %s\n", cfg.Schedule.Descriptor.Description)
		f.Printf("  next run: %s\n", cfg.Schedule.NextRun.Format(time.RFC3339))
		if cfg.Schedule.Descriptor.Custom {
			f.Printf("  warning: unrecognized schedule expression; falls back to hourly firing\n")
		}
	}
	return nil
}

func parsePayload(raw string) (trigger.Payload, error) {
	if raw == "" {
		return nil, nil
	}
	var payload trigger.Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("payload must be a JSON object of strings: %w", err)
	}
	return payload, nil
}
