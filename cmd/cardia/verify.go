package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calderlab/cardia/internal/cli"
	"github.com/calderlab/cardia/internal/common"
	"github.com/calderlab/cardia/internal/model"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run a verification attempt",
		Long: `Capture a probe and compare it against the trained model. The attempt
is recorded in the local log; label it genuine or impostor to feed the
FAR/FRR analytics.`,
		RunE: runVerify,
	}

	cmd.Flags().Float64("threshold", 0.5, "acceptance threshold")
	cmd.Flags().String("label", "", "ground-truth label (genuine, impostor)")
	cmd.Flags().String("notes", "", "notes attached to the attempt")
	_ = viper.BindPFlag("verify.threshold", cmd.Flags().Lookup("threshold"))

	cmd.AddCommand(verifyRelabelCmd())
	cmd.AddCommand(verifyLogCmd())

	return cmd
}

func runVerify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client := newBackendClient()

	label := model.AttemptLabel(mustString(cmd, "label"))
	if label != "" && !label.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidLabel, label)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	threshold := viper.GetFloat64("verify.threshold")
	fmt.Println(cli.FormatTitle("Running verification..."))

	attempt, err := client.Verify(ctx, threshold)
	if err != nil {
		return common.NewUserError("verification failed", err)
	}

	attempt.Label = label
	attempt.Notes = mustString(cmd, "notes")
	if alias, aliasErr := store.GetAlias(ctx, attempt.ParticipantID); aliasErr == nil {
		attempt.Alias = alias
	}

	if err := store.SaveAttempt(ctx, attempt); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}

	verdict := cli.FormatError(fmt.Sprintf("REJECTED (score %.3f < %.3f)", attempt.Score, attempt.Threshold))
	if attempt.Passed {
		verdict = cli.FormatSuccess(fmt.Sprintf("ACCEPTED (score %.3f >= %.3f)", attempt.Score, attempt.Threshold))
	}
	fmt.Println(verdict)
	fmt.Printf("Attempt %s recorded", attempt.ID)
	if label != "" {
		fmt.Printf(" as %s", label)
	}
	fmt.Println()

	for _, b := range attempt.Baselines {
		fmt.Printf("  vs %s (%s): %.3f\n", b.SessionLabel, b.TimestampLabel, b.Probability)
	}
	return nil
}

func verifyRelabelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relabel <attempt-id> <label>",
		Short: "Attach a ground-truth label to a recorded attempt",
		Args:  cobra.ExactArgs(2),
		RunE:  runVerifyRelabel,
	}
	cmd.Flags().String("notes", "", "replacement notes")
	return cmd
}

func runVerifyRelabel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	label := model.AttemptLabel(args[1])
	if !label.Valid() {
		return fmt.Errorf("%w: %q (want genuine or impostor)", common.ErrInvalidLabel, args[1])
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.RelabelAttempt(ctx, args[0], label, mustString(cmd, "notes")); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Println(cli.FormatWarning(fmt.Sprintf("No such attempt %s (possibly evicted); nothing relabeled", args[0])))
			return nil
		}
		return fmt.Errorf("failed to relabel attempt: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Attempt %s labeled %s", args[0], label)))
	return nil
}

func verifyLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent verification attempts",
		RunE:  runVerifyLog,
	}
	cmd.Flags().Int("limit", 20, "number of attempts to show")
	return cmd
}

func runVerifyLog(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	attemptLog, err := store.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to load attempt log: %w", err)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	attempts := attemptLog.RecentN(limit)
	if len(attempts) == 0 {
		fmt.Println(cli.InfoStyle.Render("No attempts recorded yet. Use 'cardia verify' to run one."))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.BoldStyle.Render("Time"),
		cli.BoldStyle.Render("Attempt"),
		cli.BoldStyle.Render("Score"),
		cli.BoldStyle.Render("Result"),
		cli.BoldStyle.Render("Label"),
		cli.BoldStyle.Render("Notes"))

	for _, a := range attempts {
		result := cli.ErrorStyle.Render("reject")
		if a.Passed {
			result = cli.SuccessStyle.Render("accept")
		}
		label := string(a.Label)
		if label == "" {
			label = cli.SubtleStyle.Render("unlabeled")
		}
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%s\t%s\t%s\n",
			a.Timestamp.Format("2006-01-02 15:04:05"),
			a.ID, a.Score, result, label, a.Notes)
	}
	return nil
}
