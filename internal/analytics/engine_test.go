package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderlab/cardia/internal/model"
)

func labeledAttempt(id string, label model.AttemptLabel, passed bool, at time.Time) model.VerifyAttempt {
	return model.VerifyAttempt{
		ID:            id,
		ParticipantID: "alice",
		Timestamp:     at,
		Score:         0.6,
		Threshold:     0.5,
		Passed:        passed,
		Label:         label,
	}
}

func TestCompute_BalancedRates(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	attempts := []model.VerifyAttempt{
		labeledAttempt("g-pass", model.LabelGenuine, true, now),
		labeledAttempt("g-fail", model.LabelGenuine, false, now.Add(time.Minute)),
		labeledAttempt("i-pass", model.LabelImpostor, true, now.Add(2*time.Minute)),
		labeledAttempt("i-fail", model.LabelImpostor, false, now.Add(3*time.Minute)),
	}

	snap := Compute(attempts, nil)

	assert.InDelta(t, 0.5, snap.FalseAcceptRate, 1e-9)
	assert.InDelta(t, 0.5, snap.FalseRejectRate, 1e-9)
	assert.InDelta(t, 0.5, snap.EqualErrorRateEstimate, 1e-9)
	assert.Equal(t, 4, snap.AttemptsLogged)
	assert.Equal(t, 2, snap.GenuineCount)
	assert.Equal(t, 2, snap.ImpostorCount)
}

func TestCompute_NoLabeledAttemptsYieldsZeroRates(t *testing.T) {
	now := time.Now()
	attempts := []model.VerifyAttempt{
		labeledAttempt("u-1", "", true, now),
		labeledAttempt("u-2", "", false, now),
	}

	snap := Compute(attempts, nil)

	assert.Zero(t, snap.FalseAcceptRate)
	assert.Zero(t, snap.FalseRejectRate)
	assert.Zero(t, snap.EqualErrorRateEstimate)
	assert.Equal(t, 2, snap.AttemptsLogged)
	assert.Zero(t, snap.LabeledCount())
	// Unlabeled attempts still appear on the timeline.
	assert.Len(t, snap.TimeSeries, 2)
}

func TestCompute_OneSidedLabels(t *testing.T) {
	now := time.Now()
	attempts := []model.VerifyAttempt{
		labeledAttempt("g-1", model.LabelGenuine, false, now),
	}

	snap := Compute(attempts, nil)

	assert.InDelta(t, 1.0, snap.FalseRejectRate, 1e-9)
	assert.Zero(t, snap.FalseAcceptRate)
	assert.InDelta(t, 0.5, snap.EqualErrorRateEstimate, 1e-9)
}

func TestCompute_TimeSeriesAscendingWithAliases(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	attempts := []model.VerifyAttempt{
		labeledAttempt("late", model.LabelGenuine, true, now.Add(time.Hour)),
		labeledAttempt("early", model.LabelGenuine, true, now),
	}
	participants := []model.Participant{
		{ID: "alice", Alias: "Dr. A"},
	}

	snap := Compute(attempts, participants)

	require.Len(t, snap.TimeSeries, 2)
	assert.Equal(t, now.Format("2006-01-02 15:04:05"), snap.TimeSeries[0].Time)
	assert.Equal(t, "Dr. A", snap.TimeSeries[0].ParticipantLabel)
	assert.InDelta(t, 0.5, snap.TimeSeries[0].Threshold, 1e-9)
}

func TestCompute_Distribution(t *testing.T) {
	now := time.Now()
	attempts := []model.VerifyAttempt{
		labeledAttempt("g-1", model.LabelGenuine, true, now),
		labeledAttempt("g-2", model.LabelGenuine, true, now),
		labeledAttempt("g-3", model.LabelGenuine, false, now),
		labeledAttempt("i-1", model.LabelImpostor, true, now),
	}

	snap := Compute(attempts, nil)

	assert.Equal(t, 2, snap.Distribution.GenuinePass)
	assert.Equal(t, 1, snap.Distribution.GenuineFail)
	assert.Equal(t, 1, snap.Distribution.ImpostorPass)
	assert.Zero(t, snap.Distribution.ImpostorFail)
}

func TestCompute_Empty(t *testing.T) {
	snap := Compute(nil, nil)

	assert.Zero(t, snap.AttemptsLogged)
	assert.Zero(t, snap.FalseAcceptRate)
	assert.Zero(t, snap.FalseRejectRate)
	assert.Empty(t, snap.TimeSeries)
}
