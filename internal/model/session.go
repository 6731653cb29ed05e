// Package model defines the core domain models used throughout the application.
package model

import "time"

// SignalQuality is the heuristic triage label for one ECG capture.
type SignalQuality string

// Signal quality constants.
const (
	QualityGood   SignalQuality = "good"
	QualityMedium SignalQuality = "medium"
	QualityPoor   SignalQuality = "poor"
)

// FeatureSet holds the numeric descriptors the backend extracts from one
// ECG capture, plus the quality label derived from them client-side.
type FeatureSet struct {
	Mean                float64
	StdDev              float64
	Min                 float64
	Max                 float64
	RangeAmplitude      float64
	PeakCount           float64
	EstimatedBPM        float64
	MeanRRInterval      float64
	RMSSD               float64
	LowFreqPower        float64
	HighFreqPower       float64
	LFHFRatio           float64
	MotionArtifactIndex float64
	BaselineDriftIndex  float64
	SignalQualityScore  float64
	SignalQuality       SignalQuality
}

// SessionMetadata is free-text context attached to a capture.
type SessionMetadata struct {
	Activity    string
	StressLevel string
	Placement   string
	Device      string
}

// SessionRecord represents one completed ECG capture. Records are immutable
// once received from the backend.
type SessionRecord struct {
	ECGStartTime    time.Time
	ID              string
	ParticipantID   string
	Alias           string
	Notes           string
	Metadata        SessionMetadata
	Tags            []string
	WaveformPreview []float64
	Features        FeatureSet
}

// TrainingResult holds the metrics of one backend training run.
type TrainingResult struct {
	ModelPath           string
	CorrectionModelPath string
	Accuracy            float64
	AreaUnderROCCurve   float64
	F1Score             float64
	SessionCount        int
	PairCount           int
}
