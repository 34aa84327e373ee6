package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pipelift/pipelift/internal/trigger"
)

// Submitter is a store-backed pipeline submission collaborator: it records
// the payload of each fired trigger and hands back a generated job ID.
//
// UUIDv7 job IDs embed a timestamp in the most significant bits, so
// submissions sort by creation time.
type Submitter struct {
	store *Store
}

// NewSubmitter creates a Submitter recording into the given store.
func NewSubmitter(s *Store) *Submitter {
	return &Submitter{store: s}
}

// Submit implements engine.Submitter.
func (sub *Submitter) Submit(ctx context.Context, triggerName string, payload trigger.Payload) (string, error) {
	jobID := uuid.Must(uuid.NewV7()).String()

	p, err := marshalPayload(payload)
	if err != nil {
		return "", fmt.Errorf("submit %s: %w", triggerName, err)
	}
	err = sub.store.execContext(ctx, fmt.Sprintf("submit %s", triggerName), `
		INSERT INTO submissions (job_id, trigger_name, payload, submitted_at)
		VALUES (?, ?, ?, ?)
	`, jobID, triggerName, p, formatTime(time.Now()))
	if err != nil {
		return "", err
	}
	return jobID, nil
}

// SubmissionRecord is one recorded pipeline submission.
type SubmissionRecord struct {
	JobID       string    `json:"job_id"`
	TriggerName string    `json:"trigger_name"`
	Payload     string    `json:"payload,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ListSubmissions returns all recorded submissions ordered by job ID, which
// for UUIDv7 IDs is creation order.
func (s *Store) ListSubmissions(ctx context.Context) ([]SubmissionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT job_id, trigger_name, payload, submitted_at
		FROM submissions
		ORDER BY job_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var recs []SubmissionRecord
	for rows.Next() {
		var (
			rec         SubmissionRecord
			payload     sql.NullString
			submittedAt string
		)
		if err := rows.Scan(&rec.JobID, &rec.TriggerName, &payload, &submittedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		rec.Payload = payload.String
		if rec.SubmittedAt, err = parseTime(submittedAt); err != nil {
			return nil, fmt.Errorf("submission %s: submitted_at: %w", rec.JobID, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return recs, nil
}
