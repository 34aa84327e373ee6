package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipelift/pipelift/internal/engine"
	"github.com/pipelift/pipelift/internal/trigger"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Out string
	At  string
}

// NewExportCommand creates the export command: write registry and history as
// canonical JSON. Two exports of the same state are byte-identical, modulo
// the export timestamp, which --at pins for reproducible output.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Export triggers and history as canonical JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.At, "at", "", "export timestamp (default now)")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	at, err := parseTimeFlag(opts.At)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --at", err)
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

	data, err := trigger.MarshalCanonical(buildExport(reg, hist, at))
	if err != nil {
		return WrapExitError(ExitCommandError, "marshal export", err)
	}
	data = append(data, '\n')

	if opts.Out != "" {
		if err := os.WriteFile(opts.Out, data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "write export", err)
		}
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		f.VerboseLog("exported to %s", opts.Out)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// buildExport flattens registry and history into canonical-JSON-ready maps.
// Timestamps become RFC 3339 strings; null keeps "never" distinct from zero.
func buildExport(reg *engine.Registry, hist *engine.History, at time.Time) map[string]any {
	triggers := make([]any, 0, reg.Len())
	for _, cfg := range reg.List() {
		triggers = append(triggers, exportTrigger(cfg))
	}

	records := hist.Records()
	history := make([]any, 0, len(records))
	for _, rec := range records {
		history = append(history, map[string]any{
			"seq":          rec.Seq,
			"trigger_name": rec.TriggerName,
			"kind":         string(rec.Kind),
			"fired_at":     exportTime(rec.FiredAt),
			"reason":       rec.Reason,
			"payload":      exportPayload(rec.Payload),
			"job_id":       rec.JobID,
		})
	}

	workflows := make([]any, 0, len(reg.Workflows()))
	for _, wf := range reg.Workflows() {
		stages := make([]any, 0, len(wf.Stages))
		for _, stage := range wf.Stages {
			deps := make([]any, 0, len(stage.DependsOn))
			for _, d := range stage.DependsOn {
				deps = append(deps, d)
			}
			stages = append(stages, map[string]any{
				"name":       stage.Name,
				"type":       stage.Type,
				"pipeline":   stage.Pipeline,
				"depends_on": deps,
			})
		}
		workflows = append(workflows, map[string]any{
			"name":       wf.Name,
			"created_at": exportTime(wf.CreatedAt),
			"enabled":    wf.Enabled,
			"stages":     stages,
		})
	}

	return map[string]any{
		"automation_rules": triggers,
		"workflows":        workflows,
		"trigger_history":  history,
		"export_timestamp": exportTime(at),
	}
}

func exportTrigger(cfg *trigger.Config) map[string]any {
	out := map[string]any{
		"name":           cfg.Name,
		"kind":           string(cfg.Kind),
		"enabled":        cfg.Enabled,
		"created_at":     exportTime(cfg.CreatedAt),
		"last_checked":   exportTimePtr(cfg.LastChecked),
		"last_triggered": exportTimePtr(cfg.LastTriggered),
		"fire_count":     cfg.FireCount,
		"payload":        exportPayload(cfg.Payload),
	}

	switch cfg.Kind {
	case trigger.KindDataChange:
		out["asset_name"] = cfg.Data.AssetName
		out["conditions"] = map[string]any{
			"new_version":           cfg.Data.Conditions.NewVersion,
			"size_change_threshold": cfg.Data.Conditions.SizeChangeThreshold,
			"check_interval_hours":  cfg.Data.Conditions.CheckIntervalHours,
		}
	case trigger.KindScheduled:
		out["schedule_expression"] = cfg.Schedule.Expression
		out["schedule_description"] = cfg.Schedule.Descriptor.Description
		out["next_run"] = exportTime(cfg.Schedule.NextRun)
	case trigger.KindConditional:
		out["condition"] = cfg.Condition.Raw
		out["check_interval_minutes"] = cfg.Condition.CheckIntervalMinutes
	}
	return out
}

func exportPayload(p trigger.Payload) any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func exportTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func exportTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return exportTime(*t)
}
