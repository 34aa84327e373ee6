package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pipelift/pipelift/internal/trigger"
)

// SaveWorkflow upserts a workflow definition at the given registry position.
func (s *Store) SaveWorkflow(ctx context.Context, position int, wf *trigger.Workflow) error {
	stages, err := json.Marshal(wf.Stages)
	if err != nil {
		return fmt.Errorf("save workflow %s: marshal stages: %w", wf.Name, err)
	}
	return s.execContext(ctx, fmt.Sprintf("save workflow %s", wf.Name), `
		INSERT INTO workflows (name, position, created_at, enabled, stages)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			position = excluded.position,
			created_at = excluded.created_at,
			enabled = excluded.enabled,
			stages = excluded.stages
	`, wf.Name, position, formatTime(wf.CreatedAt), wf.Enabled, string(stages))
}

// LoadWorkflows returns all persisted workflows in registry (position) order.
func (s *Store) LoadWorkflows(ctx context.Context) ([]*trigger.Workflow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, created_at, enabled, stages
		FROM workflows
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load workflows: %w", err)
	}
	defer rows.Close()

	var workflows []*trigger.Workflow
	for rows.Next() {
		var (
			wf        trigger.Workflow
			createdAt string
			stages    string
		)
		if err := rows.Scan(&wf.Name, &createdAt, &wf.Enabled, &stages); err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		if wf.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("workflow %s: created_at: %w", wf.Name, err)
		}
		if err := json.Unmarshal([]byte(stages), &wf.Stages); err != nil {
			return nil, fmt.Errorf("workflow %s: stages: %w", wf.Name, err)
		}
		workflows = append(workflows, &wf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflows: %w", err)
	}
	return workflows, nil
}
