package trigger

import (
	"fmt"
	"strings"
	"time"
)

// Workflow is a named multi-stage automation definition. Stages declare
// dependencies by stage name; the registry stores workflows alongside
// triggers but nothing in this core executes them.
type Workflow struct {
	Name      string    `json:"name"`
	Stages    []Stage   `json:"stages"`
	CreatedAt time.Time `json:"created_at"`
	Enabled   bool      `json:"enabled"`
}

// Stage is one step of a workflow.
type Stage struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"` // e.g. "data_pipeline", "ml_pipeline"
	Pipeline  string   `json:"pipeline"`
	DependsOn []string `json:"depends_on,omitempty"`
}

// Validate checks that the workflow has a name, at least one stage, unique
// stage names, and depends_on references that resolve to earlier-declared
// stages.
func (w *Workflow) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return &ValidationError{Field: "name", Message: "workflow name is required"}
	}
	if len(w.Stages) == 0 {
		return &ValidationError{Field: "stages", Message: "at least one stage is required"}
	}

	seen := make(map[string]bool, len(w.Stages))
	for i, stage := range w.Stages {
		if strings.TrimSpace(stage.Name) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("stages[%d].name", i),
				Message: "stage name is required",
			}
		}
		if seen[stage.Name] {
			return &ValidationError{
				Field:   fmt.Sprintf("stages[%d].name", i),
				Message: fmt.Sprintf("duplicate stage name %q", stage.Name),
			}
		}
		for _, dep := range stage.DependsOn {
			if !seen[dep] {
				return &ValidationError{
					Field:   fmt.Sprintf("stages[%d].depends_on", i),
					Message: fmt.Sprintf("stage %q depends on unknown stage %q", stage.Name, dep),
				}
			}
		}
		seen[stage.Name] = true
	}
	return nil
}
