package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgermatch/ledgermatch/internal/cli"
	"github.com/ledgermatch/ledgermatch/internal/rules"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify rule set consistency",
		Long: `Check the rule set for problems: rules referencing categories that are
not in the taxonomy, groups referencing unknown categories, patterns that do
not compile, and empty canonical mappings. Exits non-zero when issues are
found.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, _, err := loadStore()
			if err != nil {
				return err
			}

			issues := rules.Check(store)
			if len(issues) == 0 {
				fmt.Println(cli.FormatSuccess("rule set is consistent"))
				return nil
			}

			for _, issue := range issues {
				fmt.Println(cli.FormatError(issue))
			}
			return fmt.Errorf("%d consistency issues found", len(issues))
		},
	}
}
