// Package analytics computes error-rate estimates and chart-ready series
// from the attempt ledger. Everything here is recomputed from the full
// ledger on each request; the ledger is bounded, so caching buys nothing.
package analytics

import (
	"sort"

	"github.com/calderlab/cardia/internal/model"
)

// TimeSeriesPoint is one attempt projected for score-over-time charting.
type TimeSeriesPoint struct {
	Time             string
	ParticipantLabel string
	Label            model.AttemptLabel
	Score            float64
	Threshold        float64
}

// LabelDistribution counts pass and fail outcomes per ground-truth class.
type LabelDistribution struct {
	GenuinePass  int
	GenuineFail  int
	ImpostorPass int
	ImpostorFail int
}

// Snapshot is the computed analytics view over a set of attempts. It is
// never persisted.
type Snapshot struct {
	TimeSeries             []TimeSeriesPoint
	Distribution           LabelDistribution
	AttemptsLogged         int
	GenuineCount           int
	ImpostorCount          int
	FalseAcceptRate        float64
	FalseRejectRate        float64
	EqualErrorRateEstimate float64
}

// Compute builds a snapshot from the given attempts. Unlabeled attempts are
// excluded from both rate computations but still counted in AttemptsLogged.
// The roster supplies display labels for the time series.
func Compute(attempts []model.VerifyAttempt, participants []model.Participant) Snapshot {
	aliases := make(map[string]string, len(participants))
	for _, p := range participants {
		aliases[p.ID] = p.DisplayName()
	}

	snap := Snapshot{
		AttemptsLogged: len(attempts),
		TimeSeries:     make([]TimeSeriesPoint, 0, len(attempts)),
	}

	var falseAccepts, falseRejects int
	for _, attempt := range attempts {
		switch attempt.Label {
		case model.LabelGenuine:
			snap.GenuineCount++
			if attempt.Passed {
				snap.Distribution.GenuinePass++
			} else {
				snap.Distribution.GenuineFail++
				falseRejects++
			}
		case model.LabelImpostor:
			snap.ImpostorCount++
			if attempt.Passed {
				snap.Distribution.ImpostorPass++
				falseAccepts++
			} else {
				snap.Distribution.ImpostorFail++
			}
		}
	}

	if snap.ImpostorCount > 0 {
		snap.FalseAcceptRate = float64(falseAccepts) / float64(snap.ImpostorCount)
	}
	if snap.GenuineCount > 0 {
		snap.FalseRejectRate = float64(falseRejects) / float64(snap.GenuineCount)
	}
	// Midpoint approximation, not a true threshold-sweep crossing. Downstream
	// displays are calibrated to this formula.
	snap.EqualErrorRateEstimate = (snap.FalseAcceptRate + snap.FalseRejectRate) / 2

	sorted := append([]model.VerifyAttempt(nil), attempts...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	for _, attempt := range sorted {
		label := aliases[attempt.ParticipantID]
		if label == "" {
			label = attempt.ParticipantID
		}
		snap.TimeSeries = append(snap.TimeSeries, TimeSeriesPoint{
			Time:             attempt.Timestamp.Format("2006-01-02 15:04:05"),
			Score:            attempt.Score,
			Threshold:        attempt.Threshold,
			ParticipantLabel: label,
			Label:            attempt.Label,
		})
	}

	return snap
}

// LabeledCount returns how many attempts carry a ground-truth label.
func (s Snapshot) LabeledCount() int {
	return s.GenuineCount + s.ImpostorCount
}
