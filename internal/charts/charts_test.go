package charts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderlab/cardia/internal/analytics"
	"github.com/calderlab/cardia/internal/model"
)

func TestWriteAnalyticsReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.html")
	snap := analytics.Snapshot{
		AttemptsLogged: 2,
		TimeSeries: []analytics.TimeSeriesPoint{
			{Time: "2026-08-20 10:00:00", Score: 0.7, Threshold: 0.5, ParticipantLabel: "alice"},
			{Time: "2026-08-20 10:05:00", Score: 0.4, Threshold: 0.5, ParticipantLabel: "alice"},
		},
		Distribution: analytics.LabelDistribution{GenuinePass: 1, ImpostorFail: 1},
	}

	require.NoError(t, WriteAnalyticsReport(path, snap))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Verification scores over time")
	assert.Contains(t, string(html), "Outcomes by ground-truth label")
}

func TestWriteMonitorReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.html")
	start := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	resp := model.ContinuousVerifyResponse{
		RollingMeanScore:  0.7,
		RollingWorstScore: 0.4,
		Samples: []model.ContinuousVerifySample{
			{WindowStartUTC: start, WindowEndUTC: start.Add(5 * time.Minute), Score: 0.7, Passes: true},
		},
	}

	require.NoError(t, WriteMonitorReport(path, resp))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Continuous verification windows")
}
