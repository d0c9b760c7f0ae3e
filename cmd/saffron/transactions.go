package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mkade/saffron/internal/cli"
	"github.com/mkade/saffron/internal/ledger"
	"github.com/mkade/saffron/internal/model"
	"github.com/mkade/saffron/internal/service"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
		Long:  `Add, edit, delete, and list the ledger's transactions.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(editTxCmd())
	cmd.AddCommand(deleteTxCmd())
	cmd.AddCommand(listTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		dateFlag string
		noteFlag string
	)

	cmd := &cobra.Command{
		Use:   "add <category> <amount>",
		Short: "Record a transaction",
		Long: `Record a transaction against a category. The amount's sign is derived
from the category kind, so magnitudes are fine for both income and expenses.

Examples:
  saffron tx add Salary 2000 --date 2024-01-05
  saffron tx add Rent 1000 --date 2024-01-10 --note "January rent"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			cat, err := led.ResolveCategory(args[0])
			if err != nil {
				return err
			}

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			date := time.Now()
			if dateFlag != "" {
				if date, err = parseDate(dateFlag); err != nil {
					return err
				}
			}

			txn, err := led.AddTransaction(cmd.Context(), date, amount, cat.ID, noteFlag)
			if err != nil {
				return fmt.Errorf("failed to add transaction: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Recorded %s %s on %s (%s)",
				cat.Name, txn.Amount.StringFixed(2), txn.Date.Format(model.DateLayout), txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&noteFlag, "note", "", "optional note")

	return cmd
}

func editTxCmd() *cobra.Command {
	var (
		dateFlag     string
		amountFlag   string
		categoryFlag string
		noteFlag     string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Long:  `Change any of a transaction's date, amount, category, or note.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			var update ledger.TransactionUpdate

			if dateFlag != "" {
				date, err := parseDate(dateFlag)
				if err != nil {
					return err
				}
				update.Date = &date
			}
			if amountFlag != "" {
				amount, err := parseAmount(amountFlag)
				if err != nil {
					return err
				}
				update.Amount = &amount
			}
			if categoryFlag != "" {
				cat, err := led.ResolveCategory(categoryFlag)
				if err != nil {
					return err
				}
				update.CategoryID = &cat.ID
			}
			if cmd.Flags().Changed("note") {
				update.Note = &noteFlag
			}

			if update == (ledger.TransactionUpdate{}) {
				return fmt.Errorf("nothing to change: pass --date, --amount, --category, or --note")
			}

			txn, err := led.EditTransaction(cmd.Context(), args[0], update)
			if err != nil {
				return fmt.Errorf("failed to edit transaction: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Updated %s: %s on %s",
				txn.ID, txn.Amount.StringFixed(2), txn.Date.Format(model.DateLayout))))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&amountFlag, "amount", "", "new amount")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "new category")
	cmd.Flags().StringVar(&noteFlag, "note", "", "new note")

	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			if err := led.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Deleted"))
			return nil
		},
	}
}

func listTxCmd() *cobra.Command {
	var (
		fromFlag     string
		toFlag       string
		categoryFlag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions ordered by date",
		Long:  `List transactions ordered by date ascending, ties broken by insertion order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			filter, err := buildFilter(led, fromFlag, toFlag, categoryFlag)
			if err != nil {
				return err
			}

			txns := led.ListTransactions(filter)
			if len(txns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No matching transactions."))
				return nil
			}

			printTransactions(led, txns)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&toFlag, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "only this category")

	return cmd
}

// buildFilter translates flag values into a transaction filter.
func buildFilter(led *ledger.Ledger, from, to, category string) (service.TransactionFilter, error) {
	var filter service.TransactionFilter

	if from != "" {
		start, err := parseDate(from)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &start
	}
	if to != "" {
		end, err := parseDate(to)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &end
	}
	if category != "" {
		cat, err := led.ResolveCategory(category)
		if err != nil {
			return filter, err
		}
		filter.CategoryID = cat.ID
	}
	return filter, nil
}

func printTransactions(led *ledger.Ledger, txns []model.Transaction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Date"),
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("Amount"),
		cli.HeaderStyle.Render("Note"),
		cli.HeaderStyle.Render("ID"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 10),
		strings.Repeat("-", 16),
		strings.Repeat("-", 10),
		strings.Repeat("-", 20),
		strings.Repeat("-", 36))

	total := decimal.Zero
	for _, txn := range txns {
		name := txn.CategoryID
		if cat := led.Profile().CategoryByID(txn.CategoryID); cat != nil {
			name = cat.Name
		}
		amount := txn.Amount.StringFixed(2)
		if txn.Amount.IsNegative() {
			amount = cli.ErrorStyle.Render(amount)
		} else {
			amount = cli.SuccessStyle.Render(amount)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			txn.Date.Format(model.DateLayout), name, amount, txn.Note, cli.SubtleStyle.Render(txn.ID))
		total = total.Add(txn.Amount)
	}

	fmt.Fprintf(w, "\t%s\t%s\t\t\n", cli.BoldStyle.Render("Net"), cli.BoldStyle.Render(total.StringFixed(2)))
}
