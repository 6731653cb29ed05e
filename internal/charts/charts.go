// Package charts renders analytics and monitoring series to a standalone
// HTML report.
package charts

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/calderlab/cardia/internal/analytics"
	"github.com/calderlab/cardia/internal/model"
	"github.com/calderlab/cardia/internal/monitor"
)

// WriteAnalyticsReport renders the score timeline and label distribution of
// a snapshot to an HTML file at path.
func WriteAnalyticsReport(path string, snap analytics.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() { _ = f.Close() }()

	page := components.NewPage()
	page.AddCharts(scoreTimeline(snap), labelDistribution(snap.Distribution))
	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}

// WriteMonitorReport renders one continuous-verify run to an HTML file.
func WriteMonitorReport(path string, resp model.ContinuousVerifyResponse) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() { _ = f.Close() }()

	page := components.NewPage()
	page.AddCharts(windowScores(resp))
	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}

func scoreTimeline(snap analytics.Snapshot) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Verification scores over time",
			Subtitle: fmt.Sprintf("%d attempts logged", snap.AttemptsLogged),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	times := make([]string, 0, len(snap.TimeSeries))
	scores := make([]opts.LineData, 0, len(snap.TimeSeries))
	thresholds := make([]opts.LineData, 0, len(snap.TimeSeries))
	for _, point := range snap.TimeSeries {
		times = append(times, point.Time)
		scores = append(scores, opts.LineData{Value: point.Score, Name: point.ParticipantLabel})
		thresholds = append(thresholds, opts.LineData{Value: point.Threshold})
	}

	line.SetXAxis(times).
		AddSeries("Score", scores).
		AddSeries("Threshold", thresholds).
		SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}

func labelDistribution(dist analytics.LabelDistribution) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Outcomes by ground-truth label"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	bar.SetXAxis([]string{"genuine", "impostor"}).
		AddSeries("Passed", []opts.BarData{
			{Value: dist.GenuinePass},
			{Value: dist.ImpostorPass},
		}).
		AddSeries("Failed", []opts.BarData{
			{Value: dist.GenuineFail},
			{Value: dist.ImpostorFail},
		})
	return bar
}

func windowScores(resp model.ContinuousVerifyResponse) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Continuous verification windows",
			Subtitle: fmt.Sprintf("rolling mean %.3f, worst %.3f", resp.RollingMeanScore, resp.RollingWorstScore),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	asc := monitor.Ascending(resp.Samples)
	times := make([]string, 0, len(asc))
	scores := make([]opts.LineData, 0, len(asc))
	for _, sample := range asc {
		times = append(times, sample.WindowStartUTC.Format("15:04:05"))
		scores = append(scores, opts.LineData{Value: sample.Score})
	}

	line.SetXAxis(times).
		AddSeries("Window score", scores).
		SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}
