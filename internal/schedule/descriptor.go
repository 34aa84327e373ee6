// Package schedule resolves the small set of schedule expressions supported by
// pipeline automation triggers and computes when a resolved schedule next fires.
//
// This is deliberately not a cron grammar. A fixed table covers the automation
// patterns that are actually used; anything else degrades to an opaque custom
// descriptor whose next run falls back to the top of the next hour.
package schedule

import "fmt"

// Descriptor is the parsed, structured form of a schedule expression.
//
// Recognized expressions carry timing data from the fixed table. An
// unrecognized expression yields a descriptor with Custom set, the raw text
// preserved, and no timing data.
type Descriptor struct {
	Expression  string `json:"expression"`
	Hours       []int  `json:"hours,omitempty"`    // 0-23, firing hours
	Minutes     []int  `json:"minutes,omitempty"`  // 0-59, firing minutes
	Weekdays    []int  `json:"weekdays,omitempty"` // 0=Sunday
	Description string `json:"description"`
	Custom      bool   `json:"custom,omitempty"` // expression was not in the table
}

// knownExpressions is the fixed table of recognized schedule expressions.
//
// Order of hours/minutes matters: NextRun only ever uses the first entry.
// @hourly carries minutes only and is served by the top-of-next-hour fallback
// in NextRun, which fires it once per hour as intended.
var knownExpressions = map[string]Descriptor{
	"@daily": {
		Hours:       []int{0},
		Minutes:     []int{0},
		Description: "daily at 00:00",
	},
	"@hourly": {
		Minutes:     []int{0},
		Description: "every hour on the hour",
	},
	"@weekly": {
		Hours:       []int{0},
		Minutes:     []int{0},
		Weekdays:    []int{0},
		Description: "weekly on Sunday at 00:00",
	},
	"0 9 * * MON-FRI": {
		Hours:       []int{9},
		Minutes:     []int{0},
		Weekdays:    []int{1, 2, 3, 4, 5},
		Description: "weekdays at 09:00",
	},
	"0 */6 * * *": {
		Hours:       []int{0, 6, 12, 18},
		Minutes:     []int{0},
		Description: "every 6 hours",
	},
	"0 12 * * *": {
		Hours:       []int{12},
		Minutes:     []int{0},
		Description: "daily at 12:00",
	},
}

// Resolve maps a schedule expression to its descriptor.
//
// Recognized expressions come from the fixed table. Anything else yields a
// custom descriptor that stores the raw expression with a generated
// description and no timing data.
func Resolve(expression string) Descriptor {
	if d, ok := knownExpressions[expression]; ok {
		d.Expression = expression
		d.Hours = append([]int(nil), d.Hours...)
		d.Minutes = append([]int(nil), d.Minutes...)
		d.Weekdays = append([]int(nil), d.Weekdays...)
		return d
	}
	return Descriptor{
		Expression:  expression,
		Description: fmt.Sprintf("custom schedule: %s", expression),
		Custom:      true,
	}
}
