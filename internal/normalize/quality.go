package normalize

import "github.com/calderlab/cardia/internal/model"

// Quality thresholds. These mirror the backend's triage heuristics exactly;
// verification displays are calibrated against them, so the ladder below
// must not be reordered or simplified.
const (
	goodScoreFloor    = 0.75
	goodMotionCeiling = 0.35
	okScoreFloor      = 0.5
	okMotionCeiling   = 0.6
	minUsablePeaks    = 10
	mediumPeakFloor   = 25
	minUsableStdDev   = 0.05
	mediumStdDevFloor = 0.08
	minPlausibleBPM   = 40
	maxPlausibleBPM   = 160
)

// EffectiveQualityScore returns the quality score to classify on. When the
// backend omits the score (or reports 0), it falls back to inverting the
// motion artifact index, clamped at 0.
func EffectiveQualityScore(f model.FeatureSet) float64 {
	if f.SignalQualityScore != 0 {
		return f.SignalQualityScore
	}
	score := 1 - f.MotionArtifactIndex
	if score < 0 {
		return 0
	}
	return score
}

// DeriveQuality classifies a capture as good, medium, or poor from its
// numeric features. The branches are evaluated in precedence order and the
// first match wins. The third branch is unreachable given the second; it is
// kept so the ladder stays line-for-line comparable with the backend's
// reference classifier.
func DeriveQuality(f model.FeatureSet) model.SignalQuality {
	score := EffectiveQualityScore(f)

	switch {
	case score >= goodScoreFloor && f.MotionArtifactIndex <= goodMotionCeiling:
		return model.QualityGood
	case score >= okScoreFloor && f.MotionArtifactIndex <= okMotionCeiling:
		return model.QualityMedium
	case score >= okScoreFloor:
		return model.QualityMedium
	case f.PeakCount < minUsablePeaks || f.StdDev < minUsableStdDev ||
		f.EstimatedBPM < minPlausibleBPM || f.EstimatedBPM > maxPlausibleBPM:
		return model.QualityPoor
	case f.PeakCount < mediumPeakFloor || f.StdDev < mediumStdDevFloor:
		return model.QualityMedium
	default:
		return model.QualityGood
	}
}
