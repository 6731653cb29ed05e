package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/calderlab/cardia/internal/common"
)

// GetAliases returns the full participant-identity to alias mapping.
func (s *SQLiteStorage) GetAliases(ctx context.Context) (map[string]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT participant_id, alias FROM aliases`)
	if err != nil {
		return nil, fmt.Errorf("failed to query aliases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	aliases := make(map[string]string)
	for rows.Next() {
		var id, alias string
		if err := rows.Scan(&id, &alias); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		aliases[id] = alias
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aliases: %w", err)
	}
	return aliases, nil
}

// GetAlias returns the alias for one participant.
func (s *SQLiteStorage) GetAlias(ctx context.Context, participantID string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}

	var alias string
	row := s.db.QueryRowContext(ctx,
		`SELECT alias FROM aliases WHERE participant_id = ?`, participantID)
	if err := row.Scan(&alias); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("failed to query alias: %w", err)
	}
	return alias, nil
}

// SetAlias stores or replaces the display alias for one participant. An
// empty alias removes the entry.
func (s *SQLiteStorage) SetAlias(ctx context.Context, participantID, alias string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if participantID == "" {
		return fmt.Errorf("participantID cannot be empty")
	}

	if alias == "" {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM aliases WHERE participant_id = ?`, participantID)
		if err != nil {
			return fmt.Errorf("failed to delete alias: %w", err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO aliases (participant_id, alias, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(participant_id) DO UPDATE SET
			alias = excluded.alias,
			updated_at = CURRENT_TIMESTAMP`,
		participantID, alias)
	if err != nil {
		return fmt.Errorf("failed to save alias: %w", err)
	}
	return nil
}
