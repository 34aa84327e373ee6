package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pipelift/pipelift/internal/trigger"
)

func rec(name string, kind trigger.Kind, seq int64) trigger.FiringRecord {
	return trigger.FiringRecord{
		TriggerName: name,
		Kind:        kind,
		FiredAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Minute),
		Reason:      fmt.Sprintf("firing %d", seq),
		Seq:         seq,
	}
}

func TestHistory_AppendOrder(t *testing.T) {
	h := NewHistory()
	h.Append(rec("a", trigger.KindScheduled, 1))
	h.Append(rec("b", trigger.KindDataChange, 2))

	records := h.Records()
	assert.Len(t, records, 2)
	assert.Equal(t, "a", records[0].TriggerName)
	assert.Equal(t, "b", records[1].TriggerName)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.CountFor("a"))
	assert.Equal(t, 0, h.CountFor("missing"))
}

func TestHistory_RecordsIsACopy(t *testing.T) {
	h := NewHistory()
	h.Append(rec("a", trigger.KindScheduled, 1))

	records := h.Records()
	records[0].TriggerName = "mutated"

	assert.Equal(t, "a", h.Records()[0].TriggerName)
}

func TestHistory_Stats(t *testing.T) {
	h := NewHistory()
	h.Append(rec("nightly", trigger.KindScheduled, 1))
	h.Append(rec("watch-raw", trigger.KindDataChange, 2))
	h.Append(rec("nightly", trigger.KindScheduled, 3))
	h.Append(rec("gate", trigger.KindConditional, 4))

	s := h.Stats(5)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.ByKind[trigger.KindScheduled])
	assert.Equal(t, 1, s.ByKind[trigger.KindDataChange])
	assert.Equal(t, 1, s.ByKind[trigger.KindConditional])
	assert.Equal(t, 2, s.ByName["nightly"])
	assert.Equal(t, "nightly", s.MostActive)
	assert.Equal(t, 2, s.MostActiveCount)
}

func TestHistory_StatsMostActiveTieBreak(t *testing.T) {
	// On a tie the trigger that appeared first in the log wins.
	h := NewHistory()
	h.Append(rec("zzz", trigger.KindScheduled, 1))
	h.Append(rec("aaa", trigger.KindScheduled, 2))
	h.Append(rec("zzz", trigger.KindScheduled, 3))
	h.Append(rec("aaa", trigger.KindScheduled, 4))

	s := h.Stats(0)

	assert.Equal(t, "zzz", s.MostActive)
	assert.Equal(t, 2, s.MostActiveCount)
}

func TestHistory_StatsRecentWindow(t *testing.T) {
	h := NewHistory()
	for i := int64(1); i <= 7; i++ {
		h.Append(rec("nightly", trigger.KindScheduled, i))
	}

	s := h.Stats(5)

	assert.Len(t, s.Recent, 5)
	assert.Equal(t, int64(3), s.Recent[0].Seq, "recent window is the tail, oldest first")
	assert.Equal(t, int64(7), s.Recent[4].Seq)
}

func TestHistory_StatsEmpty(t *testing.T) {
	s := NewHistory().Stats(5)

	assert.Zero(t, s.Total)
	assert.Empty(t, s.MostActive)
	assert.Empty(t, s.Recent)
}

func TestClock_Sequence(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	resumed := NewClockAt(41)
	assert.Equal(t, int64(42), resumed.Next())
}
