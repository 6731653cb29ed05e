package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/calderlab/cardia/internal/charts"
	"github.com/calderlab/cardia/internal/cli"
	"github.com/calderlab/cardia/internal/common"
	"github.com/calderlab/cardia/internal/ecgapi"
	"github.com/calderlab/cardia/internal/monitor"
)

func monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run continuous rolling-window verification",
		Long: `Score the most recent capture stream in rolling windows and report
pass rate, worst window, and a chronological window log.`,
		RunE: runMonitor,
	}

	cmd.Flags().Float64("threshold", 0, "acceptance threshold (backend default when omitted)")
	cmd.Flags().Int("window", 0, "window length in minutes (backend default when omitted)")
	cmd.Flags().Int("stride", 0, "window stride in minutes (backend default when omitted)")
	cmd.Flags().String("charts", "", "write window scores to an HTML chart file")

	return cmd
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client := newBackendClient()

	// Only explicitly set flags go on the wire; the backend applies its own
	// defaults for the rest.
	var req ecgapi.ContinuousRequest
	if cmd.Flags().Changed("threshold") {
		v, _ := cmd.Flags().GetFloat64("threshold")
		req.Threshold = &v
	}
	if cmd.Flags().Changed("window") {
		v, _ := cmd.Flags().GetInt("window")
		req.WindowMinutes = &v
	}
	if cmd.Flags().Changed("stride") {
		v, _ := cmd.Flags().GetInt("stride")
		req.StrideMinutes = &v
	}

	fmt.Println(cli.FormatTitle("Running continuous verification..."))

	resp, err := client.ContinuousVerify(ctx, req)
	if err != nil {
		return common.NewUserError("continuous verification failed", err)
	}

	summary := monitor.Summarize(resp)

	verdict := cli.FormatError("NOT AUTHENTICATED")
	if resp.Authenticated {
		verdict = cli.FormatSuccess("AUTHENTICATED")
	}

	threshold := "backend default"
	if req.Threshold != nil {
		threshold = fmt.Sprintf("%.3f", *req.Threshold)
	}

	content := fmt.Sprintf(`%s

Windows:    %d (%d pass, %d fail)
Pass rate:  %.0f%%
Mean score: %.3f
Worst:      %.3f
Range:      %s
Threshold:  %s`,
		verdict, summary.Count, summary.PassCount, summary.FailCount,
		summary.PassRate*100, summary.MeanScore, summary.WorstScore,
		summary.WindowRange, threshold)

	fmt.Println(cli.RenderBox("Continuous verification", content))

	if len(resp.Samples) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			cli.BoldStyle.Render("Window"),
			cli.BoldStyle.Render("Score"),
			cli.BoldStyle.Render("Result"))
		for _, sample := range monitor.Descending(resp.Samples) {
			result := cli.ErrorStyle.Render("fail")
			if sample.Passes {
				result = cli.SuccessStyle.Render("pass")
			}
			fmt.Fprintf(w, "%s to %s\t%.3f\t%s\n",
				sample.WindowStartUTC.Format("15:04:05"),
				sample.WindowEndUTC.Format("15:04:05"),
				sample.Score, result)
		}
		_ = w.Flush()
	}

	if path := mustString(cmd, "charts"); path != "" {
		if err := charts.WriteMonitorReport(path, resp); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess("Chart written to " + path))
	}
	return nil
}
