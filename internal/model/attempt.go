package model

import "time"

// AttemptLabel is the operator-supplied ground truth for a verification attempt.
type AttemptLabel string

// Attempt label constants. Unlabeled attempts carry the empty string.
const (
	LabelGenuine  AttemptLabel = "genuine"
	LabelImpostor AttemptLabel = "impostor"
)

// Valid reports whether l is one of the known ground-truth labels.
func (l AttemptLabel) Valid() bool {
	return l == LabelGenuine || l == LabelImpostor
}

// Baseline is one enrolled session the backend compared the probe against.
type Baseline struct {
	ID             string
	SessionLabel   string
	TimestampLabel string
	Probability    float64
}

// VerifyAttempt represents one verification event. Only Label and Notes are
// mutable after recording, via relabeling.
type VerifyAttempt struct {
	Timestamp     time.Time
	ID            string
	ParticipantID string
	Alias         string
	Notes         string
	Label         AttemptLabel
	Baselines     []Baseline
	Score         float64
	Threshold     float64
	Passed        bool
}
