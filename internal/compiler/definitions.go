// Package compiler turns CUE trigger-definition files into typed definitions.
//
// A definition file declares triggers and optionally workflows:
//
//	triggers: daily_processing: {
//		kind:     "scheduled"
//		schedule: "@daily"
//		payload: pipeline_name: "data_processing_pipeline"
//	}
//
//	workflows: complete_ml_workflow: {
//		stages: [
//			{name: "Data Validation", type: "data_pipeline", pipeline: "validation"},
//		]
//	}
//
// Uses the CUE SDK's Go API directly, not a CLI subprocess.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/pipelift/pipelift/internal/trigger"
)

// CompileError reports a definition that could not be compiled, with the CUE
// source position when available.
type CompileError struct {
	Name    string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Name, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Definitions is the compiled content of a definition value.
type Definitions struct {
	Triggers  []trigger.Definition
	Workflows []trigger.Workflow
}

// Compile extracts trigger and workflow definitions from a CUE value.
// Field order in the source is preserved, so registration order follows
// declaration order.
func Compile(v cue.Value) (*Definitions, error) {
	if err := v.Err(); err != nil {
		return nil, err
	}

	defs := &Definitions{}

	triggers := v.LookupPath(cue.ParsePath("triggers"))
	if triggers.Exists() {
		compiled, err := compileTriggers(triggers)
		if err != nil {
			return nil, err
		}
		defs.Triggers = compiled
	}

	workflows := v.LookupPath(cue.ParsePath("workflows"))
	if workflows.Exists() {
		compiled, err := compileWorkflows(workflows)
		if err != nil {
			return nil, err
		}
		defs.Workflows = compiled
	}

	return defs, nil
}

func compileTriggers(v cue.Value) ([]trigger.Definition, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, &CompileError{Name: "triggers", Message: err.Error(), Pos: v.Pos()}
	}

	var defs []trigger.Definition
	for iter.Next() {
		name := iter.Selector().Unquoted()
		val := iter.Value()

		var def trigger.Definition
		if err := val.Decode(&def); err != nil {
			return nil, &CompileError{Name: name, Message: err.Error(), Pos: val.Pos()}
		}
		def.Name = name

		if !def.Kind.Valid() {
			return nil, &CompileError{
				Name:    name,
				Message: fmt.Sprintf("unknown or missing kind %q", def.Kind),
				Pos:     val.Pos(),
			}
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func compileWorkflows(v cue.Value) ([]trigger.Workflow, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, &CompileError{Name: "workflows", Message: err.Error(), Pos: v.Pos()}
	}

	var workflows []trigger.Workflow
	for iter.Next() {
		name := iter.Selector().Unquoted()
		val := iter.Value()

		var wf trigger.Workflow
		if err := val.Decode(&wf); err != nil {
			return nil, &CompileError{Name: name, Message: err.Error(), Pos: val.Pos()}
		}
		wf.Name = name
		if !val.LookupPath(cue.ParsePath("enabled")).Exists() {
			wf.Enabled = true
		}

		if err := wf.Validate(); err != nil {
			return nil, &CompileError{Name: name, Message: err.Error(), Pos: val.Pos()}
		}
		workflows = append(workflows, wf)
	}
	return workflows, nil
}
