package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_KnownExpressions(t *testing.T) {
	tests := []struct {
		expr     string
		hours    []int
		minutes  []int
		weekdays []int
	}{
		{"@daily", []int{0}, []int{0}, nil},
		{"@hourly", nil, []int{0}, nil},
		{"@weekly", []int{0}, []int{0}, []int{0}},
		{"0 9 * * MON-FRI", []int{9}, []int{0}, []int{1, 2, 3, 4, 5}},
		{"0 */6 * * *", []int{0, 6, 12, 18}, []int{0}, nil},
		{"0 12 * * *", []int{12}, []int{0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			d := Resolve(tt.expr)
			assert.False(t, d.Custom, "table expressions are not custom")
			assert.Equal(t, tt.expr, d.Expression)
			assert.Equal(t, tt.hours, d.Hours)
			assert.Equal(t, tt.minutes, d.Minutes)
			assert.Equal(t, tt.weekdays, d.Weekdays)
			assert.NotEmpty(t, d.Description)
		})
	}
}

func TestResolve_UnknownExpression(t *testing.T) {
	d := Resolve("*/5 * * * *")

	assert.True(t, d.Custom, "unknown expressions are custom")
	assert.Equal(t, "*/5 * * * *", d.Expression)
	assert.Empty(t, d.Hours)
	assert.Empty(t, d.Minutes)
	assert.Contains(t, d.Description, "*/5 * * * *")
}

func TestResolve_TableIsIndependent(t *testing.T) {
	// Mutating a resolved descriptor must not leak into the table.
	d := Resolve("0 */6 * * *")
	d.Hours[0] = 99

	again := Resolve("0 */6 * * *")
	assert.Equal(t, 0, again.Hours[0])
}
