package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWorkflow() *Workflow {
	return &Workflow{
		Name: "daily-refresh",
		Stages: []Stage{
			{Name: "ingest", Type: "data_pipeline", Pipeline: "ingest-raw"},
			{Name: "train", Type: "ml_pipeline", Pipeline: "train-model", DependsOn: []string{"ingest"}},
			{Name: "deploy", Type: "ml_pipeline", Pipeline: "deploy-model", DependsOn: []string{"train"}},
		},
		Enabled: true,
	}
}

func TestWorkflowValidate_OK(t *testing.T) {
	assert.NoError(t, validWorkflow().Validate())
}

func TestWorkflowValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Workflow)
		field  string
	}{
		{"empty name", func(w *Workflow) { w.Name = "" }, "name"},
		{"no stages", func(w *Workflow) { w.Stages = nil }, "stages"},
		{"unnamed stage", func(w *Workflow) { w.Stages[1].Name = "" }, "stages[1].name"},
		{"duplicate stage", func(w *Workflow) { w.Stages[2].Name = "ingest" }, "stages[2].name"},
		{"unknown dependency", func(w *Workflow) { w.Stages[1].DependsOn = []string{"publish"} }, "stages[1].depends_on"},
		// Forward references are rejected: a stage may only depend on
		// stages declared before it.
		{"forward dependency", func(w *Workflow) { w.Stages[0].DependsOn = []string{"train"} }, "stages[0].depends_on"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := validWorkflow()
			tt.mutate(wf)

			err := wf.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
