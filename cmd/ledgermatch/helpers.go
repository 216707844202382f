package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ledgermatch/ledgermatch/internal/autocomplete"
	"github.com/ledgermatch/ledgermatch/internal/cli"
	"github.com/ledgermatch/ledgermatch/internal/common"
	"github.com/ledgermatch/ledgermatch/internal/config"
	"github.com/ledgermatch/ledgermatch/internal/csvio"
	"github.com/ledgermatch/ledgermatch/internal/model"
	"github.com/ledgermatch/ledgermatch/internal/rules"
	"github.com/ledgermatch/ledgermatch/internal/storage"
)

// loadStore loads the rule set from the configured data directory. Rule file
// warnings (malformed patterns and the like) go to the terminal so they are
// seen before a run relies on the affected rules.
func loadStore() (*rules.Store, rules.Paths, error) {
	paths := config.StorePaths()

	store, err := rules.Load(paths)
	if err != nil {
		return nil, paths, common.NewUserError(
			fmt.Sprintf("could not load the rule set from %s", paths.Rules), err)
	}

	for _, warning := range store.Warnings() {
		fmt.Fprintln(os.Stderr, cli.FormatWarning(warning))
	}

	return store, paths, nil
}

func saveStore(store *rules.Store, paths rules.Paths) error {
	if err := rules.Save(store, paths); err != nil {
		return fmt.Errorf("failed to save rules: %w", err)
	}
	slog.Info("saved rule set",
		"rules", paths.Rules,
		"merchants", store.ExactCount())
	return nil
}

// categorySearcher builds an autocomplete searcher over the store's current
// taxonomy. Rebuild after adding categories mid-session.
func categorySearcher(store *rules.Store) *autocomplete.Searcher {
	items := autocomplete.ItemsFromLabels(store.SortedCategories())
	return autocomplete.NewSearcher(autocomplete.BuildIndex(items), autocomplete.Config{})
}

func openHistory() (*storage.RunStore, error) {
	runStore, err := storage.NewRunStore(config.HistoryDBPath())
	if err != nil {
		return nil, common.NewUserError("could not open the history database", err)
	}
	return runStore, nil
}

// readActivityFile parses one activity CSV from disk.
func readActivityFile(path string) ([]model.TransactionRow, error) {
	f, err := os.Open(path) // #nosec G304 -- user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, cols, err := csvio.ReadActivity(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	slog.Debug("mapped activity columns",
		"description", cols.Description,
		"amount", cols.Amount,
		"date", cols.Date,
		"category", cols.Category)

	return rows, nil
}
