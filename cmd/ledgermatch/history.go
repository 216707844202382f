package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgermatch/ledgermatch/internal/cli"
	"github.com/ledgermatch/ledgermatch/internal/model"
	"github.com/ledgermatch/ledgermatch/internal/storage"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded categorization runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runStore, err := openMigratedHistory(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = runStore.Close() }()

			runs, err := runStore.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println(cli.FormatWarning("no runs recorded yet"))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "ID\tStarted\tSource\tTotal\tCategorized\tReview\tNew\n")
			for _, run := range runs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n",
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.SourceFile,
					run.Total, run.Categorized, run.NeedsReview, run.NewStubs)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list (0 for all)")

	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyPayeeCmd())

	return cmd
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show every outcome of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run ID %q", args[0])
			}

			runStore, err := openMigratedHistory(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = runStore.Close() }()

			outcomes, err := runStore.RunOutcomes(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if len(outcomes) == 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("run %d has no recorded outcomes", runID)))
				return nil
			}

			printOutcomes(outcomes)
			return nil
		},
	}
}

func historyPayeeCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "payee <canonical-payee>",
		Short: "Show how a payee was categorized across runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runStore, err := openMigratedHistory(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = runStore.Close() }()

			outcomes, err := runStore.PayeeHistory(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if len(outcomes) == 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("no history for payee %q", args[0])))
				return nil
			}

			printOutcomes(outcomes)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum outcomes to list (0 for all)")

	return cmd
}

func openMigratedHistory(cmd *cobra.Command) (*storage.RunStore, error) {
	runStore, err := openHistory()
	if err != nil {
		return nil, err
	}
	if err := runStore.Migrate(cmd.Context()); err != nil {
		_ = runStore.Close()
		return nil, err
	}
	return runStore, nil
}

func printOutcomes(outcomes []model.StoredOutcome) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "Date\tMerchant\tPayee\tCategory\tSource\tAmount\n")
	for _, o := range outcomes {
		category := o.Category
		if o.NeedsReview {
			category = cli.WarningStyle.Render(category + " (review)")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Date.Format("2006-01-02"),
			o.RawMerchant,
			o.CanonicalPayee,
			category,
			o.Source,
			o.Amount.StringFixed(2))
	}
}
