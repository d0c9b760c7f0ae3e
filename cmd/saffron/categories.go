package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mkade/saffron/internal/cli"
	"github.com/mkade/saffron/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
		Long:  `List, add, rename, and delete the categories transactions are recorded against.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(renameCategoryCmd())
	cmd.AddCommand(removeCategoryCmd())
	cmd.AddCommand(budgetCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			categories := led.Categories()
			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories yet. Use 'saffron categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Kind"),
				cli.HeaderStyle.Render("Monthly budget"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 36),
				strings.Repeat("-", 20),
				strings.Repeat("-", 7),
				strings.Repeat("-", 14))

			for _, cat := range categories {
				budget := cli.SubtleStyle.Render("(none)")
				if cat.MonthlyBudget != nil {
					budget = cat.MonthlyBudget.StringFixed(2)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.Kind, budget)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		kindFlag   string
		budgetFlag string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long: `Create a new income or expense category.

Examples:
  saffron categories add Salary --kind income
  saffron categories add Rent --kind expense --budget 1000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			kind, err := model.ParseCategoryKind(kindFlag)
			if err != nil {
				return err
			}

			var budget *decimal.Decimal
			if budgetFlag != "" {
				amount, err := parseAmount(budgetFlag)
				if err != nil {
					return err
				}
				budget = &amount
			}

			cat, err := led.AddCategory(cmd.Context(), args[0], kind, budget)
			if err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Created %s category %q (%s)", cat.Kind, cat.Name, cat.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "expense", "category kind (income, expense)")
	cmd.Flags().StringVar(&budgetFlag, "budget", "", "optional monthly budget cap")

	return cmd
}

func renameCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <category> <new-name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			cat, err := led.ResolveCategory(args[0])
			if err != nil {
				return err
			}

			if err := led.RenameCategory(cmd.Context(), cat.ID, args[1]); err != nil {
				return fmt.Errorf("failed to rename category: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Renamed to %q", args[1])))
			return nil
		},
	}
}

func removeCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <category>",
		Short: "Remove a category no transaction references",
		Long: `Delete a category. Fails if any transaction still references it: reassign
or delete those transactions first. There is no cascading delete.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			cat, err := led.ResolveCategory(args[0])
			if err != nil {
				return err
			}

			if err := led.RemoveCategory(cmd.Context(), cat.ID); err != nil {
				return fmt.Errorf("failed to remove category: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Removed category %q", cat.Name)))
			return nil
		},
	}
}

func budgetCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "budget <category> [amount]",
		Short: "Set or clear a category's monthly budget",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			cat, err := led.ResolveCategory(args[0])
			if err != nil {
				return err
			}

			if clear {
				if err := led.ClearBudget(cmd.Context(), cat.ID); err != nil {
					return fmt.Errorf("failed to clear budget: %w", err)
				}
				fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Cleared budget for %q", cat.Name)))
				return nil
			}

			if len(args) < 2 {
				return fmt.Errorf("budget amount required (or use --clear)")
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			if err := led.UpdateBudget(cmd.Context(), cat.ID, amount); err != nil {
				return fmt.Errorf("failed to update budget: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Budget for %q set to %s", cat.Name, amount.StringFixed(2))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "remove the budget cap")

	return cmd
}
