package trigger

import "strings"

// CheckKind names the check performed by a conditional trigger.
// Open set: unrecognized kinds are preserved verbatim and never fire.
type CheckKind string

const (
	// CheckFileExists fires when the path in the argument exists.
	CheckFileExists CheckKind = "file_exists"
	// CheckJobCompleted is accepted but not implemented; it never fires.
	CheckJobCompleted CheckKind = "job_completed"
)

// ConditionSpec configures a conditional trigger.
//
// Raw keeps the external-facing "kind:argument" expression; Check and Argument
// are its eagerly parsed form. This is a minimal rule language, not a general
// expression evaluator.
type ConditionSpec struct {
	Raw                  string    `json:"raw"`
	Check                CheckKind `json:"check"`
	Argument             string    `json:"argument,omitempty"`
	CheckIntervalMinutes int       `json:"check_interval_minutes"`
}

// DefaultCheckIntervalMinutes is applied when a conditional trigger is created
// without an explicit interval.
const DefaultCheckIntervalMinutes = 30

// ParseCondition splits a condition expression into its check kind and
// argument at the first colon. An expression without a colon becomes a check
// kind with an empty argument.
func ParseCondition(raw string) (CheckKind, string) {
	kind, arg, found := strings.Cut(raw, ":")
	if !found {
		return CheckKind(raw), ""
	}
	return CheckKind(kind), arg
}
