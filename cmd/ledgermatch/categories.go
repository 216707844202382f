package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgermatch/ledgermatch/internal/cli"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the category taxonomy",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories with their groups",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, _, err := loadStore()
			if err != nil {
				return err
			}

			categories := store.SortedCategories()
			if len(categories) == 0 {
				fmt.Println(cli.FormatWarning("no categories yet; use 'ledgermatch categories add' to create one"))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\n", "Category", "Group")
			for _, cat := range categories {
				group, ok := store.GroupOf(cat)
				if !ok {
					group = cli.SubtleStyle.Render("(ungrouped)")
				}
				fmt.Fprintf(w, "%s\t%s\n", cat, group)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]

			store, paths, err := loadStore()
			if err != nil {
				return err
			}

			if !store.AddCategory(name) {
				existing, _ := store.CategoryDisplay(name)
				return fmt.Errorf("category %q already exists", existing)
			}
			if group != "" {
				store.AssignGroup(name, group)
			}

			if err := saveStore(store, paths); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("added category %q", name)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "assign the category to a group")

	return cmd
}
