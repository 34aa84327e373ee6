package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/pipelift/pipelift/internal/schedule"
	"github.com/pipelift/pipelift/internal/trigger"
)

// ErrNotFound is returned by Registry.Get for an unknown trigger name.
var ErrNotFound = errors.New("trigger not found")

// Registry owns all trigger configurations and workflow definitions.
//
// Triggers are keyed by name with last-write-wins semantics: re-creating a
// name replaces the configuration but keeps its original position, so List
// stays in first-registration order. The registry provides no locking; a host
// that evaluates from several goroutines must serialize access externally.
type Registry struct {
	triggers  map[string]*trigger.Config
	order     []string
	workflows map[string]*trigger.Workflow
	wforder   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		triggers:  make(map[string]*trigger.Config),
		workflows: make(map[string]*trigger.Workflow),
	}
}

// CreateDataTrigger registers a trigger that fires on changes to the named
// data asset. A nil conditions pointer applies the package defaults
// (new-version firing, 10% size threshold, 6h check interval).
func (r *Registry) CreateDataTrigger(name, assetName string, payload trigger.Payload, conditions *trigger.DataConditions, now time.Time) (*trigger.Config, error) {
	conds := trigger.DefaultDataConditions()
	if conditions != nil {
		conds = *conditions
	}

	cfg := &trigger.Config{
		Name:      name,
		Kind:      trigger.KindDataChange,
		Enabled:   true,
		CreatedAt: now,
		Data: &trigger.DataSpec{
			AssetName:  assetName,
			Conditions: conds,
		},
		Payload: payload,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r.insert(cfg)
	return cfg, nil
}

// CreateScheduleTrigger registers a trigger driven by a schedule expression.
// The descriptor is resolved and the initial next run computed immediately, so
// a freshly created trigger always has a next run strictly after now.
func (r *Registry) CreateScheduleTrigger(name, expression string, payload trigger.Payload, enabled bool, now time.Time) (*trigger.Config, error) {
	descriptor := schedule.Resolve(expression)

	cfg := &trigger.Config{
		Name:      name,
		Kind:      trigger.KindScheduled,
		Enabled:   enabled,
		CreatedAt: now,
		Schedule: &trigger.ScheduleSpec{
			Expression: expression,
			Descriptor: descriptor,
			NextRun:    schedule.NextRun(descriptor, now),
		},
		Payload: payload,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r.insert(cfg)
	return cfg, nil
}

// CreateConditionalTrigger registers a trigger driven by a "kind:argument"
// condition expression, parsed eagerly. checkIntervalMinutes <= 0 applies the
// default interval.
func (r *Registry) CreateConditionalTrigger(name, condition string, payload trigger.Payload, checkIntervalMinutes int, now time.Time) (*trigger.Config, error) {
	if checkIntervalMinutes <= 0 {
		checkIntervalMinutes = trigger.DefaultCheckIntervalMinutes
	}
	check, argument := trigger.ParseCondition(condition)

	cfg := &trigger.Config{
		Name:      name,
		Kind:      trigger.KindConditional,
		Enabled:   true,
		CreatedAt: now,
		Condition: &trigger.ConditionSpec{
			Raw:                  condition,
			Check:                check,
			Argument:             argument,
			CheckIntervalMinutes: checkIntervalMinutes,
		},
		Payload: payload,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r.insert(cfg)
	return cfg, nil
}

// CreateFromDefinition registers a trigger from a file-loaded definition,
// dispatching on its declared kind.
func (r *Registry) CreateFromDefinition(def *trigger.Definition, now time.Time) (*trigger.Config, error) {
	payload := trigger.Payload(def.Payload)

	var cfg *trigger.Config
	var err error
	switch def.Kind {
	case trigger.KindDataChange:
		conds := def.DataConditions()
		cfg, err = r.CreateDataTrigger(def.Name, def.Asset, payload, &conds, now)
	case trigger.KindScheduled:
		enabled := true
		if def.Enabled != nil {
			enabled = *def.Enabled
		}
		cfg, err = r.CreateScheduleTrigger(def.Name, def.Schedule, payload, enabled, now)
	case trigger.KindConditional:
		interval := 0
		if def.CheckIntervalMinutes != nil {
			interval = *def.CheckIntervalMinutes
		}
		cfg, err = r.CreateConditionalTrigger(def.Name, def.Condition, payload, interval, now)
	default:
		return nil, &trigger.ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown kind %q", def.Kind),
		}
	}
	if err != nil {
		return nil, err
	}

	// Enabled applies to every kind; data and conditional triggers default
	// to enabled and only an explicit false overrides that.
	if def.Enabled != nil {
		cfg.Enabled = *def.Enabled
	}
	return cfg, nil
}

// Restore places an already-built configuration into the registry, keeping
// its bookkeeping fields. Used when loading persisted triggers; creation-time
// validation still applies.
func (r *Registry) Restore(cfg *trigger.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.insert(cfg)
	return nil
}

// CreateWorkflow registers a multi-stage workflow definition.
func (r *Registry) CreateWorkflow(name string, stages []trigger.Stage, now time.Time) (*trigger.Workflow, error) {
	wf := &trigger.Workflow{
		Name:      name,
		Stages:    stages,
		CreatedAt: now,
		Enabled:   true,
	}
	if err := wf.Validate(); err != nil {
		return nil, err
	}
	if _, exists := r.workflows[name]; !exists {
		r.wforder = append(r.wforder, name)
	}
	r.workflows[name] = wf
	return wf, nil
}

// Get returns the trigger with the given name, or ErrNotFound.
func (r *Registry) Get(name string) (*trigger.Config, error) {
	cfg, ok := r.triggers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return cfg, nil
}

// List returns all triggers in registration order.
func (r *Registry) List() []*trigger.Config {
	out := make([]*trigger.Config, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.triggers[name])
	}
	return out
}

// Workflows returns all workflow definitions in registration order.
func (r *Registry) Workflows() []*trigger.Workflow {
	out := make([]*trigger.Workflow, 0, len(r.wforder))
	for _, name := range r.wforder {
		out = append(out, r.workflows[name])
	}
	return out
}

// Len returns the number of registered triggers.
func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) insert(cfg *trigger.Config) {
	if _, exists := r.triggers[cfg.Name]; !exists {
		r.order = append(r.order, cfg.Name)
	}
	r.triggers[cfg.Name] = cfg
}
