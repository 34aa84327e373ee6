package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestNextRun_DailyRollsToNextMidnight(t *testing.T) {
	now := mustTime(t, "2024-01-01T10:00:00Z")

	next := NextRun(Resolve("@daily"), now)

	assert.Equal(t, mustTime(t, "2024-01-02T00:00:00Z"), next)
}

func TestNextRun_SameDayWhenStillAhead(t *testing.T) {
	now := mustTime(t, "2024-01-01T08:30:00Z")

	next := NextRun(Resolve("0 12 * * *"), now)

	assert.Equal(t, mustTime(t, "2024-01-01T12:00:00Z"), next)
}

func TestNextRun_ExactBoundaryPushesForward(t *testing.T) {
	// A firing instant equal to now is not "next": strictly after.
	now := mustTime(t, "2024-01-01T12:00:00Z")

	next := NextRun(Resolve("0 12 * * *"), now)

	assert.Equal(t, mustTime(t, "2024-01-02T12:00:00Z"), next)
}

func TestNextRun_MultiHourUsesFirstHourOnly(t *testing.T) {
	// "every 6 hours" degenerates to a single daily firing at hour 0.
	now := mustTime(t, "2024-01-01T07:00:00Z")

	next := NextRun(Resolve("0 */6 * * *"), now)

	assert.Equal(t, mustTime(t, "2024-01-02T00:00:00Z"), next)
}

func TestNextRun_HourlyTopOfNextHour(t *testing.T) {
	now := mustTime(t, "2024-01-01T10:17:42Z")

	next := NextRun(Resolve("@hourly"), now)

	assert.Equal(t, mustTime(t, "2024-01-01T11:00:00Z"), next)
}

func TestNextRun_CustomFallsBackToNextHour(t *testing.T) {
	now := mustTime(t, "2024-01-01T23:30:00Z")

	next := NextRun(Resolve("*/5 * * * *"), now)

	assert.Equal(t, mustTime(t, "2024-01-02T00:00:00Z"), next)
}

func TestNextRun_StrictlyAfterNow(t *testing.T) {
	expressions := []string{
		"@daily", "@hourly", "@weekly",
		"0 9 * * MON-FRI", "0 */6 * * *", "0 12 * * *",
		"some custom thing",
	}
	instants := []string{
		"2024-01-01T00:00:00Z",
		"2024-01-01T09:00:00Z",
		"2024-02-29T23:59:59Z",
		"2024-12-31T23:00:00Z",
	}

	for _, expr := range expressions {
		d := Resolve(expr)
		for _, raw := range instants {
			now := mustTime(t, raw)
			next := NextRun(d, now)
			assert.True(t, next.After(now),
				"%s at %s gave %s, not strictly in the future", expr, now, next)
		}
	}
}
