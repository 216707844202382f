package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ledgermatch/ledgermatch/internal/cli"
	"github.com/ledgermatch/ledgermatch/internal/common"
	"github.com/ledgermatch/ledgermatch/internal/model"
	"github.com/ledgermatch/ledgermatch/internal/rules"
)

func categorizeCmd() *cobra.Command {
	var (
		batch     bool
		dryRun    bool
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "categorize <activity.csv>",
		Short: "Resolve an activity CSV against the rule set",
		Long: `Resolve every row of an activity CSV to a category. Merchants without a
decided rule become stubs; unless --batch is given, each stubbed merchant is
prompted for a category right away. Quit the prompt loop with :q — decisions
made before quitting are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, paths, err := loadStore()
			if err != nil {
				return err
			}

			rows, err := readActivityFile(args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println(cli.FormatWarning("no activity rows found"))
				return nil
			}

			outcomes := resolveRows(rows, store, batch)

			var aborted bool
			if !batch {
				aborted, err = reviewInteractively(ctx, store, outcomes)
				if err != nil {
					return err
				}
			}

			printRunSummary(outcomes)

			if dryRun {
				fmt.Println(cli.SubtleStyle.Render("dry run: rule set not saved"))
				return nil
			}

			// After :q the default is to keep what was decided; discarding
			// is an explicit choice.
			if aborted {
				discard, confirmErr := cli.NewPrompter(os.Stdin, os.Stdout).
					Confirm(ctx, "Discard decisions made this session?")
				if confirmErr != nil && !errors.Is(confirmErr, common.ErrAborted) {
					return confirmErr
				}
				if discard {
					fmt.Println(cli.FormatWarning("session aborted; decisions discarded"))
					return nil
				}
			}

			if err := saveStore(store, paths); err != nil {
				return err
			}

			if !noHistory {
				if err := recordHistory(ctx, filepath.Base(args[0]), rows, outcomes); err != nil {
					return err
				}
			}

			if aborted {
				fmt.Println(cli.FormatWarning("session aborted; progress up to this point was saved"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&batch, "batch", false, "resolve without prompting; unknown merchants become stubs")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve and report without saving rules or history")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "skip recording this run in the history database")

	return cmd
}

// resolveRows runs every row through the resolver and folds the outcomes
// back into the store. The progress bar only appears in batch mode; the
// interactive flow has its own pacing.
func resolveRows(rows []model.TransactionRow, store *rules.Store, batch bool) []model.ResolutionOutcome {
	var bar *progressbar.ProgressBar
	if batch {
		bar = progressbar.NewOptions(len(rows),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Resolving transactions..."),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)
	}

	outcomes := make([]model.ResolutionOutcome, 0, len(rows))
	for _, row := range rows {
		outcome := rules.Resolve(row.RawMerchant, row.CSVCategory, store)
		rules.Apply(outcome, store)
		outcomes = append(outcomes, outcome)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return outcomes
}

// reviewInteractively prompts for every merchant the run left uncategorized,
// most frequent first. Decisions update both the store and the outcomes so
// run history records what was actually decided. Returns aborted=true when
// the user quit with :q.
func reviewInteractively(ctx context.Context, store *rules.Store, outcomes []model.ResolutionOutcome) (bool, error) {
	entries := rules.Aggregate(outcomes)
	if len(entries) == 0 {
		fmt.Println(cli.FormatSuccess("every merchant already has a category"))
		return false, nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("%d merchants need a category", len(entries))))
	prompter := cli.NewPrompter(os.Stdin, os.Stdout)

	for _, entry := range entries {
		// Rebuilt per decision: new categories must be searchable
		// immediately.
		searcher := categorySearcher(store)

		category, err := prompter.PromptCategory(ctx, searcher, entry.Merchant, entry.Count)
		switch {
		case errors.Is(err, cli.ErrSkipped):
			continue
		case errors.Is(err, common.ErrAborted):
			return true, nil
		case err != nil:
			return false, err
		}

		rules.Decide(store, "", entry.Merchant, category)
		for i := range outcomes {
			if outcomes[i].CanonicalPayee == entry.Merchant {
				outcomes[i].Category = category
				outcomes[i].NeedsReview = false
			}
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s → %s", entry.Merchant, category)))
	}

	return false, nil
}

func printRunSummary(outcomes []model.ResolutionOutcome) {
	var categorized, needsReview, newStubs int
	for _, o := range outcomes {
		if o.Category != "" && o.Category != model.Uncategorized {
			categorized++
		}
		if o.NeedsReview {
			needsReview++
		}
		if o.IsNewStub {
			newStubs++
		}
	}

	fmt.Printf("%s %d resolved, %d categorized, %d need review, %d new merchants\n",
		cli.FormatSuccess("Run complete:"),
		len(outcomes), categorized, needsReview, newStubs)
}

func recordHistory(ctx context.Context, sourceFile string, rows []model.TransactionRow, outcomes []model.ResolutionOutcome) error {
	runStore, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = runStore.Close() }()

	if err := runStore.Migrate(ctx); err != nil {
		return err
	}

	if known, knownErr := runStore.CountKnownHashes(ctx, rows); knownErr == nil && known > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d of %d transactions were already recorded by an earlier run", known, len(rows))))
	}

	runID, err := runStore.RecordRun(ctx, sourceFile, rows, outcomes)
	if err != nil {
		return fmt.Errorf("failed to record run history: %w", err)
	}

	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("recorded as run %d", runID)))
	return nil
}
