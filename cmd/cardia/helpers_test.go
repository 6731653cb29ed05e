package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderlab/cardia/internal/ecgapi"
	"github.com/calderlab/cardia/internal/model"
	"github.com/calderlab/cardia/internal/storage"
)

func TestLoadRoster_AppliesStoredOverlays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "s-1", "participantId": "alice", "ecgStartTime": "2026-08-20T10:00:00Z"},
			{"id": "s-2", "participantId": "bob", "ecgStartTime": "2026-08-20T11:00:00Z"}
		]`))
	}))
	defer server.Close()

	ctx := context.Background()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	require.NoError(t, store.SetAlias(ctx, "alice", "Dr. A"))
	require.NoError(t, store.SaveTrainingResult(ctx, model.TrainingResult{Accuracy: 0.9, PairCount: 150}))

	participants, err := loadRoster(ctx, ecgapi.NewClient(server.URL), store)
	require.NoError(t, err)
	require.Len(t, participants, 2)

	assert.Equal(t, "Dr. A", participants[0].Alias)
	// The last training run is broadcast onto every roster row.
	for _, p := range participants {
		require.NotNil(t, p.Training)
		assert.Equal(t, 150, p.Training.PairCount)
	}
}

func TestLoadRoster_NoTrainingRunLeavesOverlayEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": "s-1", "participantId": "alice"}]`))
	}))
	defer server.Close()

	ctx := context.Background()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	participants, err := loadRoster(ctx, ecgapi.NewClient(server.URL), store)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Nil(t, participants[0].Training)
}
