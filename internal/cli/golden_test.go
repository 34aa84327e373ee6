package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/pipelift/pipelift/internal/engine"
	"github.com/pipelift/pipelift/internal/schedule"
	"github.com/pipelift/pipelift/internal/store"
	"github.com/pipelift/pipelift/internal/trigger"
)

// Golden tests pin the external output surfaces: the canonical export format
// and the stats text report. Run with -update to regenerate after intentional
// format changes.

func TestExportCanonicalGolden(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	fired := time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC)

	reg := engine.NewRegistry()
	require.NoError(t, reg.Restore(&trigger.Config{
		Name:          "nightly",
		Kind:          trigger.KindScheduled,
		Enabled:       true,
		CreatedAt:     created,
		LastChecked:   &fired,
		LastTriggered: &fired,
		FireCount:     1,
		Schedule: &trigger.ScheduleSpec{
			Expression: "@daily",
			Descriptor: schedule.Resolve("@daily"),
			NextRun:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		Payload: trigger.Payload{"pipeline": "train"},
	}))
	require.NoError(t, reg.Restore(&trigger.Config{
		Name:      "gate",
		Kind:      trigger.KindConditional,
		Enabled:   false,
		CreatedAt: created,
		Condition: &trigger.ConditionSpec{
			Raw:                  "file_exists:/data/ready.flag",
			Check:                trigger.CheckFileExists,
			Argument:             "/data/ready.flag",
			CheckIntervalMinutes: 30,
		},
	}))
	_, err := reg.CreateWorkflow("refresh", []trigger.Stage{
		{Name: "train", Type: "ml_pipeline", Pipeline: "train"},
	}, created)
	require.NoError(t, err)

	hist := engine.NewHistory()
	hist.Append(trigger.FiringRecord{
		Seq:         1,
		TriggerName: "nightly",
		Kind:        trigger.KindScheduled,
		FiredAt:     fired,
		Reason:      "scheduled time reached: 00:00",
		Payload:     trigger.Payload{"pipeline": "train"},
	})

	at := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	data, err := trigger.MarshalCanonical(buildExport(reg, hist, at))
	require.NoError(t, err)
	data = append(data, '\n')

	g := goldie.New(t)
	g.Assert(t, "export", data)
}

func TestStatsTextGolden(t *testing.T) {
	db := filepath.Join(t.TempDir(), "pipelift.db")
	st, err := store.Open(db)
	require.NoError(t, err)

	recs := []trigger.FiringRecord{
		{Seq: 1, TriggerName: "nightly", Kind: trigger.KindScheduled,
			FiredAt: time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC),
			Reason:  "scheduled time reached: 00:00"},
		{Seq: 2, TriggerName: "watch-raw", Kind: trigger.KindDataChange,
			FiredAt: time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC),
			Reason:  "first check - version 1"},
		{Seq: 3, TriggerName: "nightly", Kind: trigger.KindScheduled,
			FiredAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			Reason:  "scheduled time reached: 00:00"},
	}
	require.NoError(t, st.AppendFirings(context.Background(), recs))
	require.NoError(t, st.Close())

	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"stats", "--db", db})
	require.NoError(t, cmd.Execute())

	g := goldie.New(t)
	g.Assert(t, "stats", buf.Bytes())
}
