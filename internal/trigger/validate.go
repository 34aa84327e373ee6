package trigger

import (
	"fmt"
	"strings"
)

// ValidationError reports a trigger or workflow definition that is missing a
// required field or carries an inconsistent value. Creation-time validation
// errors propagate to the caller; they indicate a configuration mistake, not a
// runtime condition.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trigger configuration: %s: %s", e.Field, e.Message)
}

// Validate checks that the config carries everything its kind requires.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if !c.Kind.Valid() {
		return &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", c.Kind)}
	}

	switch c.Kind {
	case KindDataChange:
		if c.Data == nil {
			return &ValidationError{Field: "data", Message: "data spec is required for data_change"}
		}
		if strings.TrimSpace(c.Data.AssetName) == "" {
			return &ValidationError{Field: "data.asset_name", Message: "watched asset name is required"}
		}
	case KindScheduled:
		if c.Schedule == nil {
			return &ValidationError{Field: "schedule", Message: "schedule spec is required for scheduled"}
		}
		if strings.TrimSpace(c.Schedule.Expression) == "" {
			return &ValidationError{Field: "schedule.expression", Message: "schedule expression is required"}
		}
	case KindConditional:
		if c.Condition == nil {
			return &ValidationError{Field: "condition", Message: "condition spec is required for conditional"}
		}
		if strings.TrimSpace(c.Condition.Raw) == "" {
			return &ValidationError{Field: "condition.raw", Message: "condition expression is required"}
		}
	}
	return nil
}
