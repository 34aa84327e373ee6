package cli

import (
	"context"

	"github.com/pipelift/pipelift/internal/engine"
	"github.com/pipelift/pipelift/internal/store"
)

// openStore opens the SQLite store at the configured path, mapping failures
// to a command-error exit code.
func openStore(opts *RootOptions) (*store.Store, error) {
	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open store", err)
	}
	return st, nil
}

// loadRegistry rebuilds an in-memory registry from the persisted triggers and
// workflows.
func loadRegistry(ctx context.Context, st *store.Store) (*engine.Registry, error) {
	reg := engine.NewRegistry()

	configs, err := st.LoadTriggers(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load triggers", err)
	}
	for _, cfg := range configs {
		if err := reg.Restore(cfg); err != nil {
			return nil, WrapExitError(ExitCommandError, "restore trigger "+cfg.Name, err)
		}
	}

	workflows, err := st.LoadWorkflows(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load workflows", err)
	}
	for _, wf := range workflows {
		restored, err := reg.CreateWorkflow(wf.Name, wf.Stages, wf.CreatedAt)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "restore workflow "+wf.Name, err)
		}
		restored.Enabled = wf.Enabled
	}

	return reg, nil
}

// loadHistory rebuilds the in-memory history log from persisted firings.
func loadHistory(ctx context.Context, st *store.Store) (*engine.History, error) {
	recs, err := st.ListFirings(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load history", err)
	}
	hist := engine.NewHistory()
	for _, rec := range recs {
		hist.Append(rec)
	}
	return hist, nil
}

// saveRegistry persists the registry's triggers and workflows back to the
// store in registration order.
func saveRegistry(ctx context.Context, st *store.Store, reg *engine.Registry) error {
	if err := st.SaveTriggers(ctx, reg.List()); err != nil {
		return WrapExitError(ExitCommandError, "save triggers", err)
	}
	for i, wf := range reg.Workflows() {
		if err := st.SaveWorkflow(ctx, i, wf); err != nil {
			return WrapExitError(ExitCommandError, "save workflow "+wf.Name, err)
		}
	}
	return nil
}
