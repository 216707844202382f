package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgermatch/ledgermatch/internal/cli"
	"github.com/ledgermatch/ledgermatch/internal/csvio"
	"github.com/ledgermatch/ledgermatch/internal/model"
	"github.com/ledgermatch/ledgermatch/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Convert bank statement files to activity CSV",
	}

	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importOFXCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "ofx <file.ofx> [more files...]",
		Short: "Convert OFX/QFX statements to an activity CSV",
		Long: `Parse one or more OFX/QFX statement files and emit their transactions as
an activity CSV that 'ledgermatch categorize' accepts. Amounts come out
positive and processor boilerplate is stripped from merchant names.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			parser := ofx.NewParser()

			var rows []model.TransactionRow
			for _, path := range args {
				f, err := os.Open(path) // #nosec G304 -- user-supplied input file
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}

				parsed, err := parser.ParseFile(f)
				_ = f.Close()
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", path, err)
				}
				rows = append(rows, parsed...)
			}

			out := os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath) // #nosec G304 -- user-supplied output file
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outputPath, err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			if err := csvio.WriteActivity(out, rows); err != nil {
				return err
			}

			if outputPath != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("wrote %d transactions to %s", len(rows), outputPath)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the CSV to a file instead of stdout")

	return cmd
}
