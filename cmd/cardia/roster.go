package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/calderlab/cardia/internal/cli"
)

func rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Show the participant roster",
		Long: `Aggregate all sessions into one row per participant, with session
counts, last-seen timestamps, and enrollment progress.`,
		RunE: runRoster,
	}
}

func runRoster(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client := newBackendClient()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	participants, err := loadRoster(ctx, client, store)
	if err != nil {
		return err
	}

	if len(participants) == 0 {
		fmt.Println(cli.InfoStyle.Render("No participants yet. Use 'cardia enroll' to start enrolling."))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.BoldStyle.Render("Participant"),
		cli.BoldStyle.Render("Alias"),
		cli.BoldStyle.Render("Sessions"),
		cli.BoldStyle.Render("Last session"),
		cli.BoldStyle.Render("Enrollment"),
		cli.BoldStyle.Render("Model"))

	for _, p := range participants {
		lastSeen := cli.SubtleStyle.Render("never")
		if !p.LastSessionAt.IsZero() {
			lastSeen = p.LastSessionAt.Format("2006-01-02 15:04:05")
		}
		progress := fmt.Sprintf("%.0f%%", p.EnrollmentProgress*100)
		if p.Enrolled() {
			progress = cli.SuccessStyle.Render("complete")
		}
		modelStatus := cli.SubtleStyle.Render("untrained")
		if p.Training != nil {
			modelStatus = fmt.Sprintf("%d pairs, %.0f%% acc", p.Training.PairCount, p.Training.Accuracy*100)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			p.ID, p.Alias, p.SessionCount, lastSeen, progress, modelStatus)
	}

	return nil
}
