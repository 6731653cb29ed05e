package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calderlab/cardia/internal/cli"
	"github.com/calderlab/cardia/internal/common"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the verification model on stored sessions",
		RunE:  runTrain,
	}

	cmd.Flags().Int("max-pairs", 200, "maximum training pairs per participant")
	_ = viper.BindPFlag("train.max_pairs", cmd.Flags().Lookup("max-pairs"))

	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client := newBackendClient()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	maxPairs := viper.GetInt("train.max_pairs")
	fmt.Println(cli.FormatTitle("Training verification model..."))

	result, err := client.Train(ctx, maxPairs)
	if err != nil {
		return common.NewUserError("training failed", err)
	}

	// Remember the run so roster views show the model status.
	if err := store.SaveTrainingResult(ctx, result); err != nil {
		return fmt.Errorf("failed to record training result: %w", err)
	}

	content := fmt.Sprintf(`Sessions used:  %d
Training pairs: %d
Accuracy:       %.3f
AUC:            %.3f
F1 score:       %.3f
Model:          %s`,
		result.SessionCount, result.PairCount, result.Accuracy,
		result.AreaUnderROCCurve, result.F1Score, result.ModelPath)

	fmt.Println(cli.RenderBox("Training complete", content))
	return nil
}
