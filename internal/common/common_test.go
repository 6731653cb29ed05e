package common

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError_MessageAndUnwrap(t *testing.T) {
	wrapped := NewUserError("verification failed", ErrBackendUnavailable)

	assert.Equal(t, "verification failed: backend unavailable", wrapped.Error())
	assert.True(t, errors.Is(wrapped, ErrBackendUnavailable))
}

func TestUserError_WithoutCause(t *testing.T) {
	err := &UserError{UserMessage: "nothing to train on"}

	assert.Equal(t, "nothing to train on", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestSetupLogger_Level(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, SetupLogger(slog.LevelWarn, "json"))

	ctx := context.Background()
	assert.False(t, slog.Default().Enabled(ctx, slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelWarn))
}
