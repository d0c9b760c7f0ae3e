package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mkade/saffron/internal/cli"
	"github.com/mkade/saffron/internal/csvio"
	"github.com/mkade/saffron/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from external files",
	}

	cmd.AddCommand(importCSVCmd())
	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importCSVCmd() *cobra.Command {
	var autoCreate bool

	cmd := &cobra.Command{
		Use:   "csv [files...]",
		Short: "Import transactions from CSV files",
		Long: `Import CSV files with the header columns date, category, amount, note.
Rows are validated independently: bad rows are reported and skipped while
valid rows still commit.

Examples:
  saffron import csv ~/Downloads/january.csv
  saffron import csv --auto-create ~/Downloads/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			opts := csvio.ImportOptions{
				AutoCreateCategories: autoCreate || viper.GetBool("import.auto_create_categories"),
			}

			files, err := expandFileArgs(args)
			if err != nil {
				return err
			}

			bar := importProgressBar(len(files))
			totalImported, totalSkipped := 0, 0

			for _, path := range files {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}

				result, err := csvio.Import(cmd.Context(), f, led, opts)
				f.Close()
				if err != nil {
					return fmt.Errorf("failed to import %s: %w", path, err)
				}

				totalImported += len(result.Imported)
				totalSkipped += len(result.RowErrors)
				for _, rowErr := range result.RowErrors {
					fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("%s: %s", filepath.Base(path), rowErr)))
				}
				for _, cat := range result.Created {
					fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("auto-created category %q", cat.Name)))
				}
				_ = bar.Add(1)
			}

			fmt.Println()
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Imported %d transaction(s), skipped %d row(s)", totalImported, totalSkipped)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoCreate, "auto-create", false, "create expense categories for unknown names instead of skipping rows")

	return cmd
}

func importOFXCmd() *cobra.Command {
	var autoCreate bool

	cmd := &cobra.Command{
		Use:   "ofx [files...]",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import OFX or QFX files downloaded from your bank. Statement entries are
mapped to categories by the keyword rules under import.rules in the config:

  import:
    rules:
      rent: Rent
      payroll: Salary

Entries matching no rule are skipped (or put in Uncategorized with
--auto-create).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			opts := csvio.ImportOptions{
				AutoCreateCategories: autoCreate || viper.GetBool("import.auto_create_categories"),
			}
			mapper := ofx.NewMapper(viper.GetStringMapString("import.rules"))
			parser := ofx.NewParser()

			files, err := expandFileArgs(args)
			if err != nil {
				return err
			}

			bar := importProgressBar(len(files))
			totalImported, totalSkipped := 0, 0

			for _, path := range files {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}

				entries, err := parser.Parse(cmd.Context(), f)
				f.Close()
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", path, err)
				}

				result, err := mapper.Import(cmd.Context(), entries, led, opts)
				if err != nil {
					return fmt.Errorf("failed to import %s: %w", path, err)
				}

				totalImported += len(result.Imported)
				totalSkipped += len(result.RowErrors)
				for _, rowErr := range result.RowErrors {
					fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("%s: %s", filepath.Base(path), rowErr)))
				}
				_ = bar.Add(1)
			}

			fmt.Println()
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Imported %d statement entries, skipped %d", totalImported, totalSkipped)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoCreate, "auto-create", false, "map unmatched entries to an Uncategorized category")

	return cmd
}

// expandFileArgs resolves glob patterns into a flat file list.
func expandFileArgs(args []string) ([]string, error) {
	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				return nil, fmt.Errorf("no files match %s", pattern)
			}
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}
	return files, nil
}

func importProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing files..."),
	)
}
