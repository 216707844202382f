package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgermatch/ledgermatch/internal/autocomplete"
	"github.com/ledgermatch/ledgermatch/internal/cli"
)

func suggestCmd() *cobra.Command {
	var (
		interactive bool
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "suggest [query]",
		Short: "Rank categories against a search query",
		Long: `Rank the category taxonomy against a query the same way the categorize
prompt does: token prefixes first, then substrings, subsequences and a fuzzy
fallback for typos. With --interactive, keep reading queries until :q.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := loadStore()
			if err != nil {
				return err
			}

			searcher := categorySearcher(store)

			if interactive {
				return suggestLoop(cmd, searcher, limit)
			}

			if len(args) == 0 {
				return errors.New("provide a query or use --interactive")
			}

			printSuggestions(searcher, args[0], limit)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read queries from stdin until :q")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum suggestions to show")

	return cmd
}

func suggestLoop(cmd *cobra.Command, searcher *autocomplete.Searcher, limit int) error {
	reader := cli.NewLineReader(os.Stdin)

	for {
		fmt.Print(cli.FormatPrompt("Query"))

		line, err := reader.ReadLine(cmd.Context())
		if errors.Is(err, cli.ErrInputCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		if line == ":q" {
			return nil
		}
		if line == "" {
			continue
		}

		printSuggestions(searcher, line, limit)
	}
}

func printSuggestions(searcher *autocomplete.Searcher, query string, limit int) {
	results := searcher.Search(query)
	if len(results) == 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("no categories match %q", query)))
		return
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	for i, r := range results {
		fmt.Printf("  %2d. %-30s %s\n", i+1, r.Item.Label,
			cli.SubtleStyle.Render(fmt.Sprintf("%.1f", r.Score)))
	}
}
