package trigger

import "gopkg.in/yaml.v3"

// Definition is the file-facing form of a trigger: what an operator writes in
// a CUE or YAML definition file before it becomes a Config in the registry.
//
// Pointer fields distinguish "absent" from zero so defaults apply only when a
// field was not written.
type Definition struct {
	Name    string `json:"name" yaml:"name"`
	Kind    Kind   `json:"kind" yaml:"kind"`
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Data-change fields.
	Asset               string   `json:"asset,omitempty" yaml:"asset,omitempty"`
	NewVersion          *bool    `json:"new_version,omitempty" yaml:"new_version,omitempty"`
	SizeChangeThreshold *float64 `json:"size_change_threshold,omitempty" yaml:"size_change_threshold,omitempty"`
	CheckIntervalHours  *int     `json:"check_interval_hours,omitempty" yaml:"check_interval_hours,omitempty"`

	// Scheduled fields.
	Schedule string `json:"schedule,omitempty" yaml:"schedule,omitempty"`

	// Conditional fields.
	Condition            string `json:"condition,omitempty" yaml:"condition,omitempty"`
	CheckIntervalMinutes *int   `json:"check_interval_minutes,omitempty" yaml:"check_interval_minutes,omitempty"`

	Payload map[string]string `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// ToYAML marshals the definition to YAML.
func (d *Definition) ToYAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// FromYAML unmarshals the definition from YAML.
func (d *Definition) FromYAML(data []byte) error {
	return yaml.Unmarshal(data, d)
}

// DataConditions folds the definition's optional data-change fields over the
// package defaults.
func (d *Definition) DataConditions() DataConditions {
	conds := DefaultDataConditions()
	if d.NewVersion != nil {
		conds.NewVersion = *d.NewVersion
	}
	if d.SizeChangeThreshold != nil {
		conds.SizeChangeThreshold = *d.SizeChangeThreshold
	}
	if d.CheckIntervalHours != nil {
		conds.CheckIntervalHours = *d.CheckIntervalHours
	}
	return conds
}
