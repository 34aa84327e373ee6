package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipelift/pipelift/internal/trigger"
)

func compileSource(t *testing.T, src string) (*Definitions, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())
	return Compile(v)
}

func TestCompile_Triggers(t *testing.T) {
	defs, err := compileSource(t, `
triggers: {
	daily_processing: {
		kind:     "scheduled"
		schedule: "@daily"
		payload: pipeline_name: "data_processing_pipeline"
	}
	new_data: {
		kind:    "data_change"
		asset:   "raw-events"
		enabled: false
	}
	quality_gate: {
		kind:                   "conditional"
		condition:              "file_exists:/data/ready.flag"
		check_interval_minutes: 15
	}
}
`)
	require.NoError(t, err)
	require.Len(t, defs.Triggers, 3)

	daily := defs.Triggers[0]
	assert.Equal(t, "daily_processing", daily.Name)
	assert.Equal(t, trigger.KindScheduled, daily.Kind)
	assert.Equal(t, "@daily", daily.Schedule)
	assert.Equal(t, map[string]string{"pipeline_name": "data_processing_pipeline"}, daily.Payload)
	assert.Nil(t, daily.Enabled)

	data := defs.Triggers[1]
	assert.Equal(t, trigger.KindDataChange, data.Kind)
	assert.Equal(t, "raw-events", data.Asset)
	require.NotNil(t, data.Enabled)
	assert.False(t, *data.Enabled)

	cond := defs.Triggers[2]
	assert.Equal(t, trigger.KindConditional, cond.Kind)
	require.NotNil(t, cond.CheckIntervalMinutes)
	assert.Equal(t, 15, *cond.CheckIntervalMinutes)
}

func TestCompile_Workflows(t *testing.T) {
	defs, err := compileSource(t, `
workflows: complete_ml_workflow: {
	stages: [
		{name: "Data Validation", type: "data_pipeline", pipeline: "validation"},
		{name: "Training", type: "ml_pipeline", pipeline: "train", depends_on: ["Data Validation"]},
	]
}
`)
	require.NoError(t, err)
	require.Len(t, defs.Workflows, 1)

	wf := defs.Workflows[0]
	assert.Equal(t, "complete_ml_workflow", wf.Name)
	assert.True(t, wf.Enabled, "enabled defaults to true when absent")
	require.Len(t, wf.Stages, 2)
	assert.Equal(t, []string{"Data Validation"}, wf.Stages[1].DependsOn)
}

func TestCompile_WorkflowExplicitlyDisabled(t *testing.T) {
	defs, err := compileSource(t, `
workflows: nightly: {
	enabled: false
	stages: [{name: "train", type: "ml_pipeline", pipeline: "train"}]
}
`)
	require.NoError(t, err)
	require.Len(t, defs.Workflows, 1)
	assert.False(t, defs.Workflows[0].Enabled)
}

func TestCompile_MissingKind(t *testing.T) {
	_, err := compileSource(t, `
triggers: broken: {
	schedule: "@daily"
}
`)
	require.Error(t, err)

	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "broken", cerr.Name)
	assert.Contains(t, cerr.Message, "kind")
}

func TestCompile_InvalidWorkflow(t *testing.T) {
	_, err := compileSource(t, `
workflows: broken: {
	stages: [
		{name: "deploy", type: "ml_pipeline", pipeline: "deploy", depends_on: ["train"]},
	]
}
`)
	require.Error(t, err)

	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "broken", cerr.Name)
}

func TestCompile_EmptyValue(t *testing.T) {
	defs, err := compileSource(t, `{}`)
	require.NoError(t, err)
	assert.Empty(t, defs.Triggers)
	assert.Empty(t, defs.Workflows)
}
