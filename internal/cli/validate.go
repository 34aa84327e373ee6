package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pipelift/pipelift/internal/engine"
	"github.com/pipelift/pipelift/internal/schedule"
	"github.com/pipelift/pipelift/internal/trigger"
)

// validationReport summarizes a dry-run compilation of a definitions
// directory.
type validationReport struct {
	Triggers  int      `json:"triggers"`
	Workflows int      `json:"workflows"`
	Warnings  []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command: compile and validate a
// definitions directory without touching the store.
//
// Custom schedule expressions and not-implemented condition kinds are legal
// but almost never what the author meant, so they are surfaced as warnings
// here rather than silently accepted.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate <definitions-dir>",
		Short:         "Validate trigger definitions without registering them",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, opts *RootOptions, dir string) error {
	defs, err := LoadDefinitions(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "load definitions", err)
	}

	// Dry-run registration into a throwaway registry exercises the same
	// validation as load.
	reg := engine.NewRegistry()
	now := time.Now()
	report := validationReport{
		Triggers:  len(defs.Triggers),
		Workflows: len(defs.Workflows),
	}

	for i := range defs.Triggers {
		def := &defs.Triggers[i]
		if _, err := reg.CreateFromDefinition(def, now); err != nil {
			return WrapExitError(ExitFailure, "invalid trigger "+def.Name, err)
		}

		switch def.Kind {
		case trigger.KindScheduled:
			if schedule.Resolve(def.Schedule).Custom {
				report.Warnings = append(report.Warnings,
					"trigger "+def.Name+": unrecognized schedule expression "+def.Schedule+"; falls back to hourly firing")
			}
		case trigger.KindConditional:
			check, _ := trigger.ParseCondition(def.Condition)
			switch check {
			case trigger.CheckFileExists:
			case trigger.CheckJobCompleted:
				report.Warnings = append(report.Warnings,
					"trigger "+def.Name+": job_completed checks are not implemented; trigger will never fire")
			default:
				report.Warnings = append(report.Warnings,
					"trigger "+def.Name+": unrecognized condition kind "+string(check)+"; trigger will never fire")
			}
		}
	}
	for _, wf := range defs.Workflows {
		if _, err := reg.CreateWorkflow(wf.Name, wf.Stages, now); err != nil {
			return WrapExitError(ExitFailure, "invalid workflow "+wf.Name, err)
		}
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if done, err := f.JSON(report); done {
		return err
	}
	f.Printf("validated %d triggers, %d workflows\n", report.Triggers, report.Workflows)
	for _, w := range report.Warnings {
		f.Printf("warning: %s\n", w)
	}
	return nil
}
