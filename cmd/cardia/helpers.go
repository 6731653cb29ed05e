package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/calderlab/cardia/internal/common"
	"github.com/calderlab/cardia/internal/config"
	"github.com/calderlab/cardia/internal/ecgapi"
	"github.com/calderlab/cardia/internal/model"
	"github.com/calderlab/cardia/internal/roster"
	"github.com/calderlab/cardia/internal/storage"
)

// initStorage initializes the local store with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/cardia/cardia.db"
	}

	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newBackendClient builds the backend client from configuration.
func newBackendClient() *ecgapi.Client {
	return ecgapi.NewClient(viper.GetString("backend.origin"))
}

// loadRoster fetches the session list and folds it into the roster, with the
// stored alias and last-training overlays applied.
func loadRoster(ctx context.Context, client *ecgapi.Client, store *storage.SQLiteStorage) ([]model.Participant, error) {
	sessions, err := client.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	aliases, err := store.GetAliases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}

	training, err := store.LastTrainingResult(ctx)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to load training result: %w", err)
	}

	return roster.Aggregate(sessions, aliases, training), nil
}
