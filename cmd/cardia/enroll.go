package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calderlab/cardia/internal/ecgapi"
	"github.com/calderlab/cardia/internal/tui"
)

func enrollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Run the guided enrollment capture wizard",
		Long: `Walk through an enrollment capture: pick a participant, record a
30-second session, review the signal quality, and repeat until the
participant reaches the enrollment target.`,
		RunE: runEnroll,
	}

	cmd.Flags().String("notes", "", "free-text notes attached to each capture")
	cmd.Flags().StringSlice("tag", nil, "tags attached to each capture (repeatable)")

	return cmd
}

func runEnroll(cmd *cobra.Command, _ []string) error {
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

	req := ecgapi.CollectRequest{
		Notes: mustString(cmd, "notes"),
		Tags:  mustStringSlice(cmd, "tag"),
	}

	if err := tui.Run(client, participants, req); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}
