package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/calderlab/cardia/internal/common"
	"github.com/calderlab/cardia/internal/model"
)

// SaveTrainingResult stores the most recent training run, replacing any
// previous one. Roster views overlay this result onto every participant.
func (s *SQLiteStorage) SaveTrainingResult(ctx context.Context, result model.TrainingResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO training_runs (id, model_path, correction_model_path, accuracy, auc, f1, session_count, pair_count)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			model_path = excluded.model_path,
			correction_model_path = excluded.correction_model_path,
			accuracy = excluded.accuracy,
			auc = excluded.auc,
			f1 = excluded.f1,
			session_count = excluded.session_count,
			pair_count = excluded.pair_count,
			updated_at = CURRENT_TIMESTAMP`,
		result.ModelPath, result.CorrectionModelPath,
		result.Accuracy, result.AreaUnderROCCurve, result.F1Score,
		result.SessionCount, result.PairCount)
	if err != nil {
		return fmt.Errorf("failed to save training result: %w", err)
	}
	return nil
}

// LastTrainingResult returns the most recent training run, or
// common.ErrNotFound when no run has been recorded yet.
func (s *SQLiteStorage) LastTrainingResult(ctx context.Context) (*model.TrainingResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var result model.TrainingResult
	row := s.db.QueryRowContext(ctx, `
		SELECT model_path, correction_model_path, accuracy, auc, f1, session_count, pair_count
		FROM training_runs WHERE id = 1`)
	err := row.Scan(&result.ModelPath, &result.CorrectionModelPath,
		&result.Accuracy, &result.AreaUnderROCCurve, &result.F1Score,
		&result.SessionCount, &result.PairCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("training result: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read training result: %w", err)
	}
	return &result, nil
}
