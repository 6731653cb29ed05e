package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/calderlab/cardia/internal/cli"
	"github.com/calderlab/cardia/internal/model"
)

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List captured ECG sessions",
		RunE:  runSessions,
	}
}

func runSessions(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client := newBackendClient()

	sessions, err := client.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println(cli.InfoStyle.Render("No sessions recorded yet. Use 'cardia capture' or 'cardia enroll' to create one."))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.BoldStyle.Render("Time"),
		cli.BoldStyle.Render("Participant"),
		cli.BoldStyle.Render("Quality"),
		cli.BoldStyle.Render("BPM"),
		cli.BoldStyle.Render("Tags"),
		cli.BoldStyle.Render("Notes"))

	for _, s := range sessions {
		started := ""
		if !s.ECGStartTime.IsZero() {
			started = s.ECGStartTime.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%s\t%s\n",
			started,
			s.ParticipantID,
			renderQuality(s.Features.SignalQuality),
			s.Features.EstimatedBPM,
			strings.Join(s.Tags, ","),
			s.Notes)
	}

	return nil
}

func renderQuality(q model.SignalQuality) string {
	switch q {
	case model.QualityGood:
		return cli.SuccessStyle.Render(string(q))
	case model.QualityMedium:
		return cli.WarningStyle.Render(string(q))
	default:
		return cli.ErrorStyle.Render(string(q))
	}
}
