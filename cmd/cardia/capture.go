package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/calderlab/cardia/internal/cli"
	"github.com/calderlab/cardia/internal/common"
	"github.com/calderlab/cardia/internal/ecgapi"
	"github.com/calderlab/cardia/internal/model"
)

// captureSeconds is the nominal capture length shown on the progress bar.
// The bar is presentation only; the command completes when the backend call
// resolves, not when the bar fills.
const captureSeconds = 30

func captureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Record one ECG session",
		Long: `Trigger a single capture on the backend and print the resulting session.

The capture device and participant selection are handled by the backend;
metadata flags annotate the session for later review.`,
		RunE: runCapture,
	}

	cmd.Flags().String("activity", "", "activity during capture (resting, walking, ...)")
	cmd.Flags().String("stress", "", "reported stress level")
	cmd.Flags().String("placement", "", "electrode placement")
	cmd.Flags().String("device", "", "capture device identifier")
	cmd.Flags().StringSlice("tag", nil, "tags to attach (repeatable)")
	cmd.Flags().String("notes", "", "free-text notes")

	return cmd
}

func runCapture(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client := newBackendClient()

	req := ecgapi.CollectRequest{
		Notes: mustString(cmd, "notes"),
		Tags:  mustStringSlice(cmd, "tag"),
	}
	meta := model.SessionMetadata{
		Activity:    mustString(cmd, "activity"),
		StressLevel: mustString(cmd, "stress"),
		Placement:   mustString(cmd, "placement"),
		Device:      mustString(cmd, "device"),
	}
	if meta != (model.SessionMetadata{}) {
		req.Metadata = &meta
	}

	fmt.Println(cli.FormatTitle("Capturing ECG session..."))

	type result struct {
		err     error
		session model.SessionRecord
	}
	done := make(chan result, 1)
	go func() {
		session, err := client.CollectSession(ctx, req)
		done <- result{session: session, err: err}
	}()

	bar := progressbar.NewOptions(captureSeconds*10,
		progressbar.OptionSetDescription("recording"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var res result
waiting:
	for {
		select {
		case res = <-done:
			_ = bar.Finish()
			break waiting
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}

	if res.err != nil {
		return common.NewUserError("capture failed", res.err)
	}

	s := res.session
	content := fmt.Sprintf(`Session:        %s
Participant:    %s
Signal quality: %s (score %.2f)
Estimated BPM:  %.0f
Peaks:          %.0f
Tags:           %s`,
		s.ID, s.ParticipantID, s.Features.SignalQuality,
		s.Features.SignalQualityScore, s.Features.EstimatedBPM,
		s.Features.PeakCount, strings.Join(s.Tags, ","))

	fmt.Println(cli.RenderBox("Capture complete", content))
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustStringSlice(cmd *cobra.Command, name string) []string {
	v, _ := cmd.Flags().GetStringSlice(name)
	return v
}
