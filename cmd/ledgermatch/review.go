package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgermatch/ledgermatch/internal/cli"
	"github.com/ledgermatch/ledgermatch/internal/csvio"
	"github.com/ledgermatch/ledgermatch/internal/rules"
)

func reviewCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "review <activity.csv>",
		Short: "Report merchants a run would leave uncategorized",
		Long: `Resolve an activity CSV without changing anything and report the merchants
that would end up uncategorized, most frequent first. Useful for sizing the
review work before an interactive categorize session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, _, err := loadStore()
			if err != nil {
				return err
			}

			rows, err := readActivityFile(args[0])
			if err != nil {
				return err
			}

			outcomes := resolveRows(rows, store, false)
			entries := rules.Aggregate(outcomes)

			if len(entries) == 0 {
				fmt.Println(cli.FormatSuccess("every merchant already has a category"))
				return nil
			}

			out := os.Stdout
			if outputPath != "" {
				f, createErr := os.Create(outputPath) // #nosec G304 -- user-supplied output file
				if createErr != nil {
					return fmt.Errorf("failed to create %s: %w", outputPath, createErr)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			if err := csvio.WriteReviewReport(out, entries); err != nil {
				return err
			}

			if outputPath != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("wrote %d merchants to %s", len(entries), outputPath)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to a file instead of stdout")

	return cmd
}
