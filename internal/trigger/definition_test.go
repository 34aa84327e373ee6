package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionFromYAML(t *testing.T) {
	raw := []byte(`
name: watch-raw
kind: data_change
asset: raw-events
new_version: true
size_change_threshold: 0.2
payload:
  pipeline: ingest
`)

	var def Definition
	require.NoError(t, def.FromYAML(raw))

	assert.Equal(t, "watch-raw", def.Name)
	assert.Equal(t, KindDataChange, def.Kind)
	assert.Equal(t, "raw-events", def.Asset)
	assert.Equal(t, map[string]string{"pipeline": "ingest"}, def.Payload)
	assert.Nil(t, def.Enabled, "absent fields stay nil")
	assert.Nil(t, def.CheckIntervalHours)

	conds := def.DataConditions()
	assert.True(t, conds.NewVersion)
	assert.Equal(t, 0.2, conds.SizeChangeThreshold)
	assert.Equal(t, 6, conds.CheckIntervalHours, "absent interval falls back to default")
}

func TestDefinitionDataConditions_AllDefaults(t *testing.T) {
	var def Definition
	assert.Equal(t, DefaultDataConditions(), def.DataConditions())
}

func TestDefinitionYAMLRoundTrip(t *testing.T) {
	enabled := false
	minutes := 15
	def := Definition{
		Name:                 "gate",
		Kind:                 KindConditional,
		Enabled:              &enabled,
		Condition:            "file_exists:/data/ready.flag",
		CheckIntervalMinutes: &minutes,
	}

	data, err := def.ToYAML()
	require.NoError(t, err)

	var back Definition
	require.NoError(t, back.FromYAML(data))
	assert.Equal(t, def, back)
}
