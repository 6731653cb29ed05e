package model

import "time"

// ContinuousVerifySample is one scored rolling time window
// [WindowStartUTC, WindowEndUTC).
type ContinuousVerifySample struct {
	WindowStartUTC time.Time
	WindowEndUTC   time.Time
	Score          float64
	Passes         bool
}

// ContinuousVerifyResponse is the backend's result for one continuous
// verification run. Authenticated is the AND of all sample passes as
// reported by the backend; it is not recomputed client-side.
type ContinuousVerifyResponse struct {
	Samples           []ContinuousVerifySample
	RollingMeanScore  float64
	RollingWorstScore float64
	Authenticated     bool
}
