package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/calderlab/cardia/internal/cli"
	"github.com/calderlab/cardia/internal/common"
)

func aliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage participant display aliases",
		Long: `Aliases are local display labels for participant identities. They
overlay the identity everywhere it is shown but never replace it.`,
	}

	cmd.AddCommand(aliasSetCmd())
	cmd.AddCommand(aliasListCmd())

	return cmd
}

func aliasSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <participant-id> <alias>",
		Short: "Set or clear a display alias",
		Long:  `Set the display alias for a participant. An empty alias clears it.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runAliasSet,
	}
}

func runAliasSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	alias := ""
	if len(args) > 1 {
		alias = args[1]
	}

	// Alias persistence is best-effort: a storage failure still leaves the
	// in-memory overlay usable for the rest of this invocation.
	if err := store.SetAlias(ctx, args[0], alias); err != nil {
		common.LogDebug("Alias write failed", common.Fields{"participant": args[0], "error": err.Error()})
		fmt.Println(cli.FormatWarning("Alias could not be persisted; it will not survive this session"))
		return nil
	}

	if alias == "" {
		fmt.Println(cli.FormatSuccess("Alias cleared for " + args[0]))
	} else {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s is now shown as %q", args[0], alias)))
	}
	return nil
}

func aliasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored aliases",
		RunE:  runAliasList,
	}
}

func runAliasList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	aliases, err := store.GetAliases(ctx)
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}

	if len(aliases) == 0 {
		fmt.Println(cli.InfoStyle.Render("No aliases stored. Use 'cardia alias set' to add one."))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	ids := make([]string, 0, len(aliases))
	for id := range aliases {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(w, "%s\t%s\n",
		cli.BoldStyle.Render("Participant"),
		cli.BoldStyle.Render("Alias"))
	for _, id := range ids {
		fmt.Fprintf(w, "%s\t%s\n", id, aliases[id])
	}
	return nil
}
