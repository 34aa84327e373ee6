// Package trigger defines the data model for pipeline automation triggers:
// trigger configurations with kind-specific payloads, firing records, workflow
// definitions, and the condition grammar for conditional triggers.
package trigger

import (
	"time"

	"github.com/pipelift/pipelift/internal/schedule"
)

// Kind identifies what causes a trigger to fire.
// Closed set; a trigger's kind never changes after construction.
type Kind string

const (
	KindDataChange  Kind = "data_change"
	KindScheduled   Kind = "scheduled"
	KindConditional Kind = "conditional"
)

// Valid reports whether k is one of the known trigger kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDataChange, KindScheduled, KindConditional:
		return true
	}
	return false
}

// Payload is the opaque pipeline configuration forwarded to the submission
// collaborator when a trigger fires. The core never interprets its contents.
type Payload map[string]string

// Clone returns an independent copy of the payload.
// Firing records snapshot the payload so later config edits cannot rewrite history.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Config is one automation rule. Exactly one of Data, Schedule, Condition is
// set, matching Kind; evaluation dispatches on Kind with an exhaustive switch.
type Config struct {
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`

	// Bookkeeping maintained by the evaluator. LastTriggered stays nil
	// until the first firing; its nil-ness drives the first-check rule for
	// data triggers.
	LastChecked   *time.Time `json:"last_checked,omitempty"`
	LastTriggered *time.Time `json:"last_triggered,omitempty"`
	FireCount     int        `json:"fire_count"`

	Data      *DataSpec      `json:"data,omitempty"`
	Schedule  *ScheduleSpec  `json:"schedule,omitempty"`
	Condition *ConditionSpec `json:"condition,omitempty"`

	Payload Payload `json:"payload,omitempty"`
}

// DataSpec configures a data-change trigger watching a named asset.
type DataSpec struct {
	AssetName  string         `json:"asset_name"`
	Conditions DataConditions `json:"conditions"`
}

// DataConditions are the firing conditions for a data-change trigger.
//
// SizeChangeThreshold is accepted in configuration but not evaluated as a
// firing criterion; it is carried through unchanged.
type DataConditions struct {
	NewVersion          bool    `json:"new_version"`
	SizeChangeThreshold float64 `json:"size_change_threshold"`
	CheckIntervalHours  int     `json:"check_interval_hours"`
}

// DefaultDataConditions are applied when a data trigger is created without
// explicit conditions.
func DefaultDataConditions() DataConditions {
	return DataConditions{
		NewVersion:          true,
		SizeChangeThreshold: 0.1,
		CheckIntervalHours:  6,
	}
}

// ScheduleSpec configures a scheduled trigger. Descriptor is resolved eagerly
// at creation; NextRun is recomputed after every firing and is always strictly
// in the future immediately after (re)computation.
type ScheduleSpec struct {
	Expression string              `json:"expression"`
	Descriptor schedule.Descriptor `json:"descriptor"`
	NextRun    time.Time           `json:"next_run"`
}

// FiringRecord is one entry in the history log: a trigger whose condition held
// during an evaluation pass. Records are append-only and never reordered.
type FiringRecord struct {
	TriggerName string    `json:"trigger_name"`
	Kind        Kind      `json:"kind"`
	FiredAt     time.Time `json:"fired_at"`
	Reason      string    `json:"reason"`
	Payload     Payload   `json:"payload,omitempty"`
	Seq         int64     `json:"seq"`
	// JobID is set when the caller opted into execution and the submission
	// collaborator accepted the payload. Empty on submission failure.
	JobID string `json:"job_id,omitempty"`
}
