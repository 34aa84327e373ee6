// Package engine owns the trigger registry, the history log, and the
// evaluation pass that decides which triggers fire.
//
// The model is single-threaded and run-to-completion: one evaluation pass
// iterates all triggers sequentially with injected wall-clock time and no
// suspension points. Collaborator failures are isolated per trigger - a broken
// asset lookup or filesystem check turns into a no-fire reason for that
// trigger and never aborts the pass.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pipelift/pipelift/internal/schedule"
	"github.com/pipelift/pipelift/internal/trigger"
)

// Engine evaluates registered triggers against external collaborators.
//
// The engine owns nothing durable: the caller constructs the registry and
// history once and keeps them across passes. Wall-clock time is always a
// parameter, never read from an ambient clock, so evaluation is deterministic
// under test.
type Engine struct {
	registry  *Registry
	history   *History
	clock     *Clock
	assets    AssetCatalog
	fs        FS
	submitter Submitter
}

// Option configures an Engine.
type Option func(*Engine)

// WithAssetCatalog sets the asset version lookup used by data-change triggers.
// Without one, data-change triggers never fire and report the catalog as
// unavailable.
func WithAssetCatalog(c AssetCatalog) Option {
	return func(e *Engine) { e.assets = c }
}

// WithFS overrides the filesystem used by file_exists conditions.
// Defaults to the local filesystem.
func WithFS(fs FS) Option {
	return func(e *Engine) { e.fs = fs }
}

// WithSubmitter sets the pipeline submission collaborator invoked on firing
// when the caller opts into execution.
func WithSubmitter(s Submitter) Option {
	return func(e *Engine) { e.submitter = s }
}

// WithClock overrides the logical clock, e.g. to resume seq numbering on top
// of a persisted history.
func WithClock(c *Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// New creates an Engine over the given registry and history.
func New(registry *Registry, history *History, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		history:  history,
		clock:    NewClock(),
		fs:       OSFS{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine evaluates.
func (e *Engine) Registry() *Registry { return e.registry }

// History returns the history log the engine appends to.
func (e *Engine) History() *History { return e.history }

// EvaluateAll runs one evaluation pass over every registered trigger in
// registration order and returns the firing records produced, in order.
//
// Disabled triggers are skipped entirely - their bookkeeping is untouched.
// Every enabled trigger gets LastChecked set to now, fired or not. On firing
// the evaluator appends a history record, sets LastTriggered, increments the
// fire count, and - only when execute is true and a submitter is configured -
// forwards the payload downstream. Submission failures are logged and leave
// the record without a job ID; they never fail the pass.
func (e *Engine) EvaluateAll(ctx context.Context, now time.Time, execute bool) []trigger.FiringRecord {
	var fired []trigger.FiringRecord

	for _, cfg := range e.registry.List() {
		if !cfg.Enabled {
			continue
		}

		shouldFire, reason := e.check(ctx, cfg, now)

		checked := now
		cfg.LastChecked = &checked

		slog.Debug("trigger evaluated",
			"trigger", cfg.Name,
			"kind", cfg.Kind,
			"fired", shouldFire,
			"reason", reason,
		)

		if !shouldFire {
			continue
		}

		rec := trigger.FiringRecord{
			TriggerName: cfg.Name,
			Kind:        cfg.Kind,
			FiredAt:     now,
			Reason:      reason,
			Payload:     cfg.Payload.Clone(),
			Seq:         e.clock.Next(),
		}

		if execute && e.submitter != nil {
			jobID, err := e.submitter.Submit(ctx, cfg.Name, cfg.Payload)
			if err != nil {
				slog.Warn("pipeline submission failed",
					"trigger", cfg.Name,
					"error", err,
				)
			} else {
				rec.JobID = jobID
			}
		}

		e.history.Append(rec)
		triggered := now
		cfg.LastTriggered = &triggered
		cfg.FireCount++

		slog.Info("trigger fired",
			"trigger", cfg.Name,
			"kind", cfg.Kind,
			"reason", reason,
			"fire_count", cfg.FireCount,
			"job_id", rec.JobID,
		)

		fired = append(fired, rec)
	}

	return fired
}

// check dispatches to the kind-specific evaluation and returns the fire
// decision with a human-readable reason.
func (e *Engine) check(ctx context.Context, cfg *trigger.Config, now time.Time) (bool, string) {
	switch cfg.Kind {
	case trigger.KindDataChange:
		return e.checkDataChange(ctx, cfg)
	case trigger.KindScheduled:
		return e.checkScheduled(cfg, now)
	case trigger.KindConditional:
		return e.checkConditional(cfg)
	default:
		// Unreachable for validated configs; kinds are closed.
		return false, fmt.Sprintf("unknown trigger kind %q", cfg.Kind)
	}
}

// checkDataChange fires when the watched asset grew a version newer than the
// last firing. The very first evaluation fires unconditionally when at least
// one version exists, regardless of timestamps.
//
// The size-change threshold condition is configuration-only and deliberately
// not evaluated here.
func (e *Engine) checkDataChange(ctx context.Context, cfg *trigger.Config) (bool, string) {
	spec := cfg.Data

	if e.assets == nil {
		return false, "asset catalog unavailable"
	}

	versions, err := e.assets.ListVersions(ctx, spec.AssetName)
	if err != nil {
		slog.Warn("asset version lookup failed",
			"trigger", cfg.Name,
			"asset", spec.AssetName,
			"error", err,
		)
		return false, fmt.Sprintf("asset lookup failed: %v", err)
	}
	if len(versions) == 0 {
		return false, fmt.Sprintf("asset not found: %s", spec.AssetName)
	}

	// The catalog makes no ordering promise; newest-first is established here.
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].CreatedAt.After(versions[j].CreatedAt)
	})
	latest := versions[0]

	if spec.Conditions.NewVersion {
		if cfg.LastTriggered == nil {
			return true, fmt.Sprintf("first check - version %s", latest.Version)
		}
		if latest.CreatedAt.After(*cfg.LastTriggered) {
			return true, fmt.Sprintf("new version detected: %s", latest.Version)
		}
	}

	return false, "no change detected"
}

// checkScheduled fires exactly when now has reached the stored next run, then
// immediately recomputes the next run relative to now so re-evaluating at the
// same instant cannot double-fire.
func (e *Engine) checkScheduled(cfg *trigger.Config, now time.Time) (bool, string) {
	spec := cfg.Schedule

	if spec.NextRun.IsZero() {
		return false, "next run not set"
	}

	if !now.Before(spec.NextRun) {
		due := spec.NextRun
		spec.NextRun = schedule.NextRun(spec.Descriptor, now)
		return true, fmt.Sprintf("scheduled time reached: %s", due.Format("15:04"))
	}

	return false, fmt.Sprintf("next run at %s", spec.NextRun.Format("2006-01-02 15:04"))
}

// checkConditional evaluates the parsed condition expression. file_exists
// consults the filesystem collaborator; job_completed is accepted but not
// implemented; anything else never fires.
func (e *Engine) checkConditional(cfg *trigger.Config) (bool, string) {
	spec := cfg.Condition

	switch spec.Check {
	case trigger.CheckFileExists:
		exists, err := e.fs.Exists(spec.Argument)
		if err != nil {
			slog.Warn("filesystem check failed",
				"trigger", cfg.Name,
				"path", spec.Argument,
				"error", err,
			)
			return false, fmt.Sprintf("filesystem check failed: %v", err)
		}
		if exists {
			return true, fmt.Sprintf("file found: %s", spec.Argument)
		}
		return false, fmt.Sprintf("file does not exist: %s", spec.Argument)

	case trigger.CheckJobCompleted:
		return false, "job completion check not implemented"

	default:
		return false, fmt.Sprintf("condition not matched: %s", spec.Raw)
	}
}
