package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderlab/cardia/internal/common"
	"github.com/calderlab/cardia/internal/ledger"
	"github.com/calderlab/cardia/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testAttempt(id string, at time.Time) model.VerifyAttempt {
	return model.VerifyAttempt{
		ID:            id,
		ParticipantID: "alice",
		Timestamp:     at,
		Score:         0.7,
		Threshold:     0.5,
		Passed:        true,
		Baselines: []model.Baseline{
			{ID: "b-1", SessionLabel: "Session 1", TimestampLabel: "Aug 18", Probability: 0.8},
		},
	}
}

func TestAliases_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SetAlias(ctx, "alice", "Dr. A"))
	require.NoError(t, store.SetAlias(ctx, "bob", "Nurse B"))

	alias, err := store.GetAlias(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Dr. A", alias)

	aliases, err := store.GetAliases(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"alice": "Dr. A", "bob": "Nurse B"}, aliases)
}

func TestAliases_ReplaceAndClear(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SetAlias(ctx, "alice", "Dr. A"))
	require.NoError(t, store.SetAlias(ctx, "alice", "Dr. Alpha"))

	alias, err := store.GetAlias(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Alpha", alias)

	require.NoError(t, store.SetAlias(ctx, "alice", ""))
	_, err = store.GetAlias(ctx, "alice")
	assert.Error(t, err)
}

func TestAliases_MissingIsNotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetAlias(context.Background(), "nobody")
	assert.Error(t, err)
}

func TestAttempts_SaveAndLoadNewestFirst(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveAttempt(ctx, testAttempt("a-old", base)))
	require.NoError(t, store.SaveAttempt(ctx, testAttempt("a-new", base.Add(time.Hour))))

	attemptLog, err := store.LoadLedger(ctx)
	require.NoError(t, err)

	attempts := attemptLog.All()
	require.Len(t, attempts, 2)
	assert.Equal(t, "a-new", attempts[0].ID)
	assert.Equal(t, "a-old", attempts[1].ID)
	require.Len(t, attempts[0].Baselines, 1)
	assert.InDelta(t, 0.8, attempts[0].Baselines[0].Probability, 1e-9)
}

func TestAttempts_PruneToCap(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	for i := 0; i < ledger.MaxEntries+1; i++ {
		attempt := testAttempt(fmt.Sprintf("a-%d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.SaveAttempt(ctx, attempt))
	}

	attemptLog, err := store.LoadLedger(ctx)
	require.NoError(t, err)

	assert.Equal(t, ledger.MaxEntries, attemptLog.Len())
	attempts := attemptLog.All()
	assert.Equal(t, fmt.Sprintf("a-%d", ledger.MaxEntries), attempts[0].ID)
	// The oldest row was evicted.
	assert.Equal(t, "a-1", attempts[len(attempts)-1].ID)
}

func TestAttempts_Relabel(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAttempt(ctx, testAttempt("a-1", time.Now().UTC())))
	require.NoError(t, store.RelabelAttempt(ctx, "a-1", model.LabelImpostor, "wrong finger"))

	attemptLog, err := store.LoadLedger(ctx)
	require.NoError(t, err)

	attempts := attemptLog.All()
	require.Len(t, attempts, 1)
	assert.Equal(t, model.LabelImpostor, attempts[0].Label)
	assert.Equal(t, "wrong finger", attempts[0].Notes)
}

func TestAttempts_RelabelUnknownReportsNotFound(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAttempt(ctx, testAttempt("a-1", time.Now().UTC())))

	err := store.RelabelAttempt(ctx, "missing", model.LabelGenuine, "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// The stored log is untouched.
	attemptLog, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, attemptLog.All()[0].Label)
}

func TestTrainingResult_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	result := model.TrainingResult{
		ModelPath:         "/models/verify.bin",
		Accuracy:          0.91,
		AreaUnderROCCurve: 0.95,
		F1Score:           0.9,
		SessionCount:      24,
		PairCount:         180,
	}
	require.NoError(t, store.SaveTrainingResult(ctx, result))

	loaded, err := store.LastTrainingResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, &result, loaded)
}

func TestTrainingResult_ReplacesPreviousRun(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTrainingResult(ctx, model.TrainingResult{Accuracy: 0.8, PairCount: 100}))
	require.NoError(t, store.SaveTrainingResult(ctx, model.TrainingResult{Accuracy: 0.9, PairCount: 200}))

	loaded, err := store.LastTrainingResult(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, loaded.Accuracy, 1e-9)
	assert.Equal(t, 200, loaded.PairCount)
}

func TestTrainingResult_MissingIsNotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.LastTrainingResult(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}
