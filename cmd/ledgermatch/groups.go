package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgermatch/ledgermatch/internal/cli"
)

func groupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Inspect category groups",
	}

	cmd.AddCommand(listGroupsCmd())

	return cmd
}

func listGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups and their member categories",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, _, err := loadStore()
			if err != nil {
				return err
			}

			groups := store.Groups()
			if len(groups) == 0 {
				fmt.Println(cli.FormatWarning("no groups defined"))
				return nil
			}

			for _, group := range groups {
				fmt.Println(cli.FormatTitle(group))
				for _, cat := range store.GroupMembers(group) {
					fmt.Printf("  %s\n", cat)
				}
			}

			if loose := store.NeedsGroup(); len(loose) > 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("%d categories have no group:", len(loose))))
				for _, cat := range loose {
					fmt.Printf("  %s\n", cat)
				}
			}

			return nil
		},
	}
}
