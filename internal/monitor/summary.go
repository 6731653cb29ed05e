// Package monitor summarizes continuous-verification runs into pass-rate
// statistics and chronological window logs.
package monitor

import (
	"fmt"
	"sort"

	"github.com/calderlab/cardia/internal/model"
)

const windowTimeLayout = "15:04:05"

// Summary is the operator-facing rollup of one continuous-verify run. The
// threshold shown alongside it is always the threshold of the submitted run
// request, never recomputed from the samples.
type Summary struct {
	WindowRange string
	Count       int
	PassCount   int
	FailCount   int
	PassRate    float64
	MeanScore   float64
	WorstScore  float64
}

// Summarize rolls up the sample set of a continuous-verify response.
func Summarize(resp model.ContinuousVerifyResponse) Summary {
	s := Summary{
		Count:      len(resp.Samples),
		MeanScore:  resp.RollingMeanScore,
		WorstScore: resp.RollingWorstScore,
	}
	for _, sample := range resp.Samples {
		if sample.Passes {
			s.PassCount++
		} else {
			s.FailCount++
		}
	}
	if s.Count > 0 {
		s.PassRate = float64(s.PassCount) / float64(s.Count)
	}

	asc := Ascending(resp.Samples)
	if len(asc) > 0 {
		first := asc[0].WindowStartUTC
		last := asc[len(asc)-1].WindowEndUTC
		s.WindowRange = fmt.Sprintf("%s to %s",
			first.Format(windowTimeLayout), last.Format(windowTimeLayout))
	}
	return s
}

// Ascending returns the samples sorted by window start, oldest first, for
// charting. The input is not modified.
func Ascending(samples []model.ContinuousVerifySample) []model.ContinuousVerifySample {
	out := append([]model.ContinuousVerifySample(nil), samples...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].WindowStartUTC.Before(out[j].WindowStartUTC)
	})
	return out
}

// Descending returns the samples sorted by window start, newest first, for
// the log view. The input is not modified.
func Descending(samples []model.ContinuousVerifySample) []model.ContinuousVerifySample {
	out := append([]model.ContinuousVerifySample(nil), samples...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].WindowStartUTC.After(out[j].WindowStartUTC)
	})
	return out
}
