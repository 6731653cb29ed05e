package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/calderlab/cardia/internal/common"
	"github.com/calderlab/cardia/internal/ledger"
	"github.com/calderlab/cardia/internal/model"
)

// SaveAttempt records one verification attempt and prunes the log to the
// ledger cap, dropping the oldest rows first.
func (s *SQLiteStorage) SaveAttempt(ctx context.Context, attempt model.VerifyAttempt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if attempt.ID == "" {
		return fmt.Errorf("attempt ID cannot be empty")
	}

	baselines, err := json.Marshal(attempt.Baselines)
	if err != nil {
		return fmt.Errorf("failed to encode baselines: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attempts (id, participant_id, timestamp, score, threshold, passed, label, notes, baselines)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID, attempt.ParticipantID, attempt.Timestamp.UTC().Format(time.RFC3339Nano),
		attempt.Score, attempt.Threshold, attempt.Passed,
		string(attempt.Label), attempt.Notes, string(baselines))
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM attempts WHERE id NOT IN (
			SELECT id FROM attempts ORDER BY timestamp DESC, created_at DESC LIMIT ?
		)`, ledger.MaxEntries)
	if err != nil {
		return fmt.Errorf("failed to prune attempts: %w", err)
	}
	return nil
}

// RelabelAttempt replaces the label and notes of one stored attempt. An
// unknown identity leaves the log untouched and reports common.ErrNotFound
// so callers can tell the operator nothing changed.
func (s *SQLiteStorage) RelabelAttempt(ctx context.Context, attemptID string, label model.AttemptLabel, notes string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE attempts SET label = ?, notes = ? WHERE id = ?`,
		string(label), notes, attemptID)
	if err != nil {
		return fmt.Errorf("failed to relabel attempt: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("attempt %s: %w", attemptID, common.ErrNotFound)
	}
	return nil
}

// LoadLedger reads the stored attempt log, newest first, into a ledger.
func (s *SQLiteStorage) LoadLedger(ctx context.Context) (*ledger.Ledger, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, participant_id, timestamp, score, threshold, passed, label, notes, baselines
		FROM attempts
		ORDER BY timestamp DESC, created_at DESC
		LIMIT ?`, ledger.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var attempts []model.VerifyAttempt
	for rows.Next() {
		var (
			attempt   model.VerifyAttempt
			timestamp string
			label     string
			baselines string
		)
		if err := rows.Scan(&attempt.ID, &attempt.ParticipantID, &timestamp,
			&attempt.Score, &attempt.Threshold, &attempt.Passed,
			&label, &attempt.Notes, &baselines); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
			attempt.Timestamp = t
		}
		attempt.Label = model.AttemptLabel(label)
		if err := json.Unmarshal([]byte(baselines), &attempt.Baselines); err != nil {
			attempt.Baselines = []model.Baseline{}
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempts: %w", err)
	}
	return ledger.New(attempts), nil
}
