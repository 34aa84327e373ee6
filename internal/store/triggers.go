package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pipelift/pipelift/internal/trigger"
)

const timeLayout = time.RFC3339Nano

// SaveTrigger upserts a trigger configuration at the given registry position.
func (s *Store) SaveTrigger(ctx context.Context, position int, cfg *trigger.Config) error {
	spec, err := marshalSpec(cfg)
	if err != nil {
		return fmt.Errorf("save trigger %s: %w", cfg.Name, err)
	}
	payload, err := marshalPayload(cfg.Payload)
	if err != nil {
		return fmt.Errorf("save trigger %s: %w", cfg.Name, err)
	}

	err = s.execContext(ctx, fmt.Sprintf("save trigger %s", cfg.Name), `
		INSERT INTO triggers
		(name, position, kind, enabled, created_at, last_checked, last_triggered, fire_count, spec, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			position = excluded.position,
			kind = excluded.kind,
			enabled = excluded.enabled,
			created_at = excluded.created_at,
			last_checked = excluded.last_checked,
			last_triggered = excluded.last_triggered,
			fire_count = excluded.fire_count,
			spec = excluded.spec,
			payload = excluded.payload
	`,
		cfg.Name,
		position,
		string(cfg.Kind),
		cfg.Enabled,
		formatTime(cfg.CreatedAt),
		formatTimePtr(cfg.LastChecked),
		formatTimePtr(cfg.LastTriggered),
		cfg.FireCount,
		spec,
		payload,
	)
	return err
}

// SaveTriggers persists a whole registry listing, positions taken from slice
// order.
func (s *Store) SaveTriggers(ctx context.Context, configs []*trigger.Config) error {
	for i, cfg := range configs {
		if err := s.SaveTrigger(ctx, i, cfg); err != nil {
			return err
		}
	}
	return nil
}

// LoadTriggers returns all persisted trigger configurations in registry
// (position) order.
func (s *Store) LoadTriggers(ctx context.Context) ([]*trigger.Config, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, enabled, created_at, last_checked, last_triggered, fire_count, spec, payload
		FROM triggers
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load triggers: %w", err)
	}
	defer rows.Close()

	var configs []*trigger.Config
	for rows.Next() {
		cfg, err := scanTrigger(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate triggers: %w", err)
	}
	return configs, nil
}

func scanTrigger(rows *sql.Rows) (*trigger.Config, error) {
	var (
		cfg           trigger.Config
		kind          string
		createdAt     string
		lastChecked   sql.NullString
		lastTriggered sql.NullString
		spec          string
		payload       sql.NullString
	)
	if err := rows.Scan(&cfg.Name, &kind, &cfg.Enabled, &createdAt,
		&lastChecked, &lastTriggered, &cfg.FireCount, &spec, &payload); err != nil {
		return nil, fmt.Errorf("scan trigger: %w", err)
	}

	cfg.Kind = trigger.Kind(kind)

	var err error
	if cfg.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("trigger %s: created_at: %w", cfg.Name, err)
	}
	if cfg.LastChecked, err = parseTimePtr(lastChecked); err != nil {
		return nil, fmt.Errorf("trigger %s: last_checked: %w", cfg.Name, err)
	}
	if cfg.LastTriggered, err = parseTimePtr(lastTriggered); err != nil {
		return nil, fmt.Errorf("trigger %s: last_triggered: %w", cfg.Name, err)
	}

	if err := unmarshalSpec(&cfg, spec); err != nil {
		return nil, fmt.Errorf("trigger %s: %w", cfg.Name, err)
	}
	if payload.Valid && payload.String != "" {
		if err := json.Unmarshal([]byte(payload.String), &cfg.Payload); err != nil {
			return nil, fmt.Errorf("trigger %s: payload: %w", cfg.Name, err)
		}
	}
	return &cfg, nil
}

// marshalSpec serializes the kind-specific part of a config.
func marshalSpec(cfg *trigger.Config) (string, error) {
	var v any
	switch cfg.Kind {
	case trigger.KindDataChange:
		v = cfg.Data
	case trigger.KindScheduled:
		v = cfg.Schedule
	case trigger.KindConditional:
		v = cfg.Condition
	default:
		return "", fmt.Errorf("unknown kind %q", cfg.Kind)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal spec: %w", err)
	}
	return string(b), nil
}

func unmarshalSpec(cfg *trigger.Config, spec string) error {
	switch cfg.Kind {
	case trigger.KindDataChange:
		cfg.Data = &trigger.DataSpec{}
		return json.Unmarshal([]byte(spec), cfg.Data)
	case trigger.KindScheduled:
		cfg.Schedule = &trigger.ScheduleSpec{}
		return json.Unmarshal([]byte(spec), cfg.Schedule)
	case trigger.KindConditional:
		cfg.Condition = &trigger.ConditionSpec{}
		return json.Unmarshal([]byte(spec), cfg.Condition)
	default:
		return fmt.Errorf("unknown kind %q", cfg.Kind)
	}
}

func marshalPayload(p trigger.Payload) (any, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return string(b), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
