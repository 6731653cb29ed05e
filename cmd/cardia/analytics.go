package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calderlab/cardia/internal/analytics"
	"github.com/calderlab/cardia/internal/charts"
	"github.com/calderlab/cardia/internal/cli"
	"github.com/calderlab/cardia/internal/sheets"
)

func analyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show FAR/FRR analytics over the attempt log",
		Long: `Compute false accept and false reject rates from the labeled attempts
in the local log. Unlabeled attempts count toward the total but not the
rates; label attempts with 'cardia verify relabel'.`,
		RunE: runAnalytics,
	}

	cmd.Flags().String("charts", "", "write score timeline and distribution to an HTML chart file")
	cmd.Flags().Bool("export", false, "export the report to Google Sheets")

	return cmd
}

func runAnalytics(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client := newBackendClient()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	attemptLog, err := store.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to load attempt log: %w", err)
	}

	participants, err := loadRoster(ctx, client, store)
	if err != nil {
		return err
	}

	snap := analytics.Compute(attemptLog.All(), participants)

	content := fmt.Sprintf(`Attempts logged:   %d (%d labeled)
Genuine attempts:  %d (%d passed, %d failed)
Impostor attempts: %d (%d passed, %d failed)

False accept rate: %.1f%%
False reject rate: %.1f%%
EER estimate:      %.1f%%`,
		snap.AttemptsLogged, snap.LabeledCount(),
		snap.GenuineCount, snap.Distribution.GenuinePass, snap.Distribution.GenuineFail,
		snap.ImpostorCount, snap.Distribution.ImpostorPass, snap.Distribution.ImpostorFail,
		snap.FalseAcceptRate*100, snap.FalseRejectRate*100, snap.EqualErrorRateEstimate*100)

	fmt.Println(cli.RenderBox("Verification analytics", content))

	if snap.LabeledCount() == 0 && snap.AttemptsLogged > 0 {
		fmt.Println(cli.FormatWarning("No labeled attempts; rates are zero by definition. Use 'cardia verify relabel'."))
	}

	if path := mustString(cmd, "charts"); path != "" {
		if err := charts.WriteAnalyticsReport(path, snap); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess("Charts written to " + path))
	}

	if export, _ := cmd.Flags().GetBool("export"); export {
		var cfg sheets.Config
		if err := cfg.LoadFromEnv(); err != nil {
			return fmt.Errorf("sheets export not configured: %w", err)
		}
		writer, err := sheets.NewWriter(ctx, cfg)
		if err != nil {
			return err
		}
		if err := writer.Write(ctx, snap, participants); err != nil {
			return fmt.Errorf("sheets export failed: %w", err)
		}
		fmt.Println(cli.FormatSuccess("Report exported to Google Sheets"))
	}
	return nil
}
