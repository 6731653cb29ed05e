// Package normalize converts loosely-typed backend payloads into the strict
// record shapes the rest of the application works with. The backend emits
// keys in either PascalCase or camelCase depending on serializer settings,
// numerics sometimes arrive as strings, and optional fields may be null;
// everything here is tolerant of all three.
package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/calderlab/cardia/internal/model"
)

// Raw is one decoded backend object before normalization.
type Raw map[string]any

// lookup finds key in either casing. The exact key wins; otherwise the same
// key with the first rune's case flipped is tried.
func (r Raw) lookup(key string) (any, bool) {
	if v, ok := r[key]; ok && v != nil {
		return v, true
	}
	if key == "" {
		return nil, false
	}
	runes := []rune(key)
	if unicode.IsUpper(runes[0]) {
		runes[0] = unicode.ToLower(runes[0])
	} else {
		runes[0] = unicode.ToUpper(runes[0])
	}
	if v, ok := r[string(runes)]; ok && v != nil {
		return v, true
	}
	return nil, false
}

// Number coerces the named field to a float64, accepting JSON numbers and
// numeric strings. Missing or malformed values coerce to 0.
func (r Raw) Number(keys ...string) float64 {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// Bool coerces the named field to a bool. Missing values are false.
func (r Raw) Bool(key string) bool {
	v, ok := r.lookup(key)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	}
	return false
}

// Text returns the named field trimmed of surrounding whitespace, or the
// empty string when the field is absent or blank.
func (r Raw) Text(key string) string {
	v, ok := r.lookup(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Time parses the named field as a timestamp. Unparseable or absent values
// yield the zero time, which downstream aggregation treats as missing.
func (r Raw) Time(key string) time.Time {
	s := r.Text(key)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Object returns the named field as a nested Raw object, or nil.
func (r Raw) Object(key string) Raw {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return Raw(m)
}

// Objects returns the named field as a slice of nested Raw objects.
func (r Raw) Objects(key string) []Raw {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Raw, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Raw(m))
		}
	}
	return out
}

// Floats returns the named field as a float64 slice, coercing numeric
// strings and skipping anything non-numeric. Absent fields yield an empty
// slice, never nil.
func (r Raw) Floats(key string) []float64 {
	v, ok := r.lookup(key)
	if !ok {
		return []float64{}
	}
	items, ok := v.([]any)
	if !ok {
		return []float64{}
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case float64:
			out = append(out, n)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				out = append(out, f)
			}
		}
	}
	return out
}

// Strings returns the named field as a string slice, trimming entries and
// dropping blanks. Absent fields yield an empty slice, never nil.
func (r Raw) Strings(key string) []string {
	v, ok := r.lookup(key)
	if !ok {
		return []string{}
	}
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// FeatureSet normalizes one raw feature object and derives the signal
// quality label. Pure function of the input.
func FeatureSet(r Raw) model.FeatureSet {
	f := model.FeatureSet{
		Mean:                r.Number("mean"),
		StdDev:              r.Number("stdDev", "std"),
		Min:                 r.Number("min"),
		Max:                 r.Number("max"),
		RangeAmplitude:      r.Number("range", "rangeAmplitude"),
		PeakCount:           r.Number("peakCount"),
		EstimatedBPM:        r.Number("estimatedBpm"),
		MeanRRInterval:      r.Number("meanRrInterval", "meanRRInterval"),
		RMSSD:               r.Number("rmssd"),
		LowFreqPower:        r.Number("lowFreqPower"),
		HighFreqPower:       r.Number("highFreqPower"),
		LFHFRatio:           r.Number("lfHfRatio"),
		MotionArtifactIndex: r.Number("motionArtifactIndex"),
		BaselineDriftIndex:  r.Number("baselineDriftIndex"),
		SignalQualityScore:  r.Number("signalQualityScore"),
	}
	f.SignalQuality = DeriveQuality(f)
	return f
}

// Session normalizes one raw session record.
func Session(r Raw) model.SessionRecord {
	rec := model.SessionRecord{
		ID:              r.Text("id"),
		ParticipantID:   r.Text("participantId"),
		Alias:           r.Text("alias"),
		ECGStartTime:    r.Time("ecgStartTime"),
		Notes:           r.Text("notes"),
		Tags:            r.Strings("tags"),
		WaveformPreview: r.Floats("waveformPreview"),
	}
	if rec.ID == "" {
		rec.ID = r.Text("sessionId")
	}
	if meta := r.Object("metadata"); meta != nil {
		rec.Metadata = model.SessionMetadata{
			Activity:    meta.Text("activity"),
			StressLevel: meta.Text("stressLevel"),
			Placement:   meta.Text("placement"),
			Device:      meta.Text("device"),
		}
	}
	if features := r.Object("features"); features != nil {
		rec.Features = FeatureSet(features)
	} else {
		rec.Features = FeatureSet(r)
	}
	return rec
}

// Sessions normalizes a raw session list, never returning nil.
func Sessions(items []Raw) []model.SessionRecord {
	out := make([]model.SessionRecord, 0, len(items))
	for _, item := range items {
		out = append(out, Session(item))
	}
	return out
}

// Attempt normalizes one raw verification result. The caller attaches the
// client-generated identity and any operator label or notes afterwards;
// Passed is taken from the backend as-is, never recomputed from the score.
func Attempt(r Raw) model.VerifyAttempt {
	attempt := model.VerifyAttempt{
		ParticipantID: r.Text("participantId"),
		Timestamp:     r.Time("timestamp"),
		Score:         r.Number("score"),
		Threshold:     r.Number("threshold"),
		Passed:        r.Bool("passed"),
		Baselines:     []model.Baseline{},
	}
	if attempt.Timestamp.IsZero() {
		attempt.Timestamp = time.Now().UTC()
	}
	for _, b := range r.Objects("baselines") {
		attempt.Baselines = append(attempt.Baselines, model.Baseline{
			ID:             b.Text("id"),
			SessionLabel:   b.Text("sessionLabel"),
			TimestampLabel: b.Text("timestampLabel"),
			Probability:    b.Number("probability"),
		})
	}
	return attempt
}

// Training normalizes one raw training-run result.
func Training(r Raw) model.TrainingResult {
	return model.TrainingResult{
		ModelPath:           r.Text("modelPath"),
		CorrectionModelPath: r.Text("correctionModelPath"),
		Accuracy:            r.Number("accuracy"),
		AreaUnderROCCurve:   r.Number("areaUnderRocCurve"),
		F1Score:             r.Number("f1Score"),
		SessionCount:        int(r.Number("sessionCount")),
		PairCount:           int(r.Number("pairCount")),
	}
}

// Continuous normalizes one raw continuous-verify response.
func Continuous(r Raw) model.ContinuousVerifyResponse {
	resp := model.ContinuousVerifyResponse{
		Authenticated:     r.Bool("authenticated"),
		RollingMeanScore:  r.Number("rollingMeanScore"),
		RollingWorstScore: r.Number("rollingWorstScore"),
		Samples:           []model.ContinuousVerifySample{},
	}
	for _, s := range r.Objects("samples") {
		resp.Samples = append(resp.Samples, model.ContinuousVerifySample{
			WindowStartUTC: s.Time("windowStartUtc"),
			WindowEndUTC:   s.Time("windowEndUtc"),
			Score:          s.Number("score"),
			Passes:         s.Bool("passes"),
		})
	}
	return resp
}
