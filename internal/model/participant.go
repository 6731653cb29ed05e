package model

import "time"

// EnrollmentTargetSessions is the session count at which a participant is
// considered fully enrolled.
const EnrollmentTargetSessions = 12

// Participant is one roster entry, derived from the full session list.
type Participant struct {
	LastSessionAt      time.Time
	ID                 string
	Alias              string
	SessionCount       int
	EnrollmentProgress float64
	Training           *TrainingResult
}

// DisplayName returns the alias when set, falling back to the identity.
func (p Participant) DisplayName() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.ID
}

// Enrolled reports whether the participant has reached the enrollment target.
func (p Participant) Enrolled() bool {
	return p.EnrollmentProgress >= 1
}
