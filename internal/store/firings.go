package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pipelift/pipelift/internal/trigger"
)

// AppendFiring persists one firing record. Seq is the primary key; writing
// the same seq twice is a no-op, so replaying a pass is idempotent.
func (s *Store) AppendFiring(ctx context.Context, rec trigger.FiringRecord) error {
	payload, err := marshalPayload(rec.Payload)
	if err != nil {
		return fmt.Errorf("append firing %d: %w", rec.Seq, err)
	}
	return s.execContext(ctx, fmt.Sprintf("append firing %d", rec.Seq), `
		INSERT INTO firings (seq, trigger_name, kind, fired_at, reason, payload, job_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`,
		rec.Seq,
		rec.TriggerName,
		string(rec.Kind),
		formatTime(rec.FiredAt),
		rec.Reason,
		payload,
		rec.JobID,
	)
}

// AppendFirings persists a batch of firing records.
func (s *Store) AppendFirings(ctx context.Context, recs []trigger.FiringRecord) error {
	for _, rec := range recs {
		if err := s.AppendFiring(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// ListFirings returns all persisted firing records in seq (chronological)
// order.
func (s *Store) ListFirings(ctx context.Context) ([]trigger.FiringRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, trigger_name, kind, fired_at, reason, payload, job_id
		FROM firings
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list firings: %w", err)
	}
	defer rows.Close()

	var recs []trigger.FiringRecord
	for rows.Next() {
		var (
			rec     trigger.FiringRecord
			kind    string
			firedAt string
			payload sql.NullString
			jobID   sql.NullString
		)
		if err := rows.Scan(&rec.Seq, &rec.TriggerName, &kind, &firedAt, &rec.Reason, &payload, &jobID); err != nil {
			return nil, fmt.Errorf("scan firing: %w", err)
		}
		rec.Kind = trigger.Kind(kind)
		if rec.FiredAt, err = parseTime(firedAt); err != nil {
			return nil, fmt.Errorf("firing %d: fired_at: %w", rec.Seq, err)
		}
		if payload.Valid && payload.String != "" {
			if err := json.Unmarshal([]byte(payload.String), &rec.Payload); err != nil {
				return nil, fmt.Errorf("firing %d: payload: %w", rec.Seq, err)
			}
		}
		rec.JobID = jobID.String
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate firings: %w", err)
	}
	return recs, nil
}

// MaxFiringSeq returns the highest persisted firing seq, or 0 when the
// history is empty. Used to resume the engine's logical clock.
func (s *Store) MaxFiringSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM firings`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max firing seq: %w", err)
	}
	return seq.Int64, nil
}
