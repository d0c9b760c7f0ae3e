package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mkade/saffron/internal/cli"
	"github.com/mkade/saffron/internal/ledger"
	"github.com/mkade/saffron/internal/model"
	"github.com/mkade/saffron/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Periodic summaries and budget checks",
		Long:  `Aggregate the ledger into monthly or yearly summaries, budget status, and statistics.`,
	}

	cmd.AddCommand(summaryCmd())
	cmd.AddCommand(averageCmd())
	cmd.AddCommand(topCmd())
	cmd.AddCommand(yearStatsCmd())
	cmd.AddCommand(budgetStatusCmd())

	return cmd
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <period>",
		Short: "Per-category totals and budget variance for a period",
		Long: `Aggregate one period. A period is a month (2024-01) or a year (2024).

Examples:
  saffron report summary 2024-01
  saffron report summary 2024`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			period, err := model.ParsePeriod(args[0])
			if err != nil {
				return err
			}

			agg := report.New(led.Profile()).Aggregate(period)
			printAggregate(led, agg)
			return nil
		},
	}
}

func printAggregate(led *ledger.Ledger, agg model.PeriodAggregate) {
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Summary for %s", agg.Period)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("Total"),
		cli.HeaderStyle.Render("Budget variance"))
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		strings.Repeat("-", 20), strings.Repeat("-", 10), strings.Repeat("-", 15))

	for _, cat := range led.Categories() {
		total, ok := agg.CategoryTotals[cat.ID]
		if !ok {
			continue
		}
		variance := ""
		if v, vok := agg.BudgetVariance[cat.ID]; vok {
			variance = v.StringFixed(2)
			if v.IsPositive() {
				variance = cli.OverBudget(variance)
			} else {
				variance = cli.UnderBudget(variance)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", cat.Name, total.StringFixed(2), variance)
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("%s %s\n", cli.BoldStyle.Render("Income: "), agg.TotalIncome.StringFixed(2))
	fmt.Printf("%s %s\n", cli.BoldStyle.Render("Expense:"), agg.TotalExpense.StringFixed(2))
	fmt.Printf("%s %s\n", cli.BoldStyle.Render("Net:    "), agg.Net.StringFixed(2))
}

func averageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "average <category> <year>",
		Short: "Mean monthly activity of a category over its active months",
		Long: `Average a category's monthly totals over the months of the year that
contain at least one of its transactions, so empty months don't dilute it.`,
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
			year, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[1])
			}

			avg, err := report.New(led.Profile()).YearlyAverage(cat.ID, year)
			if err != nil {
				return fmt.Errorf("failed to compute average: %w", err)
			}

			fmt.Printf("%s averaged %s per active month in %d\n",
				cli.BoldStyle.Render(cat.Name), avg.StringFixed(2), year)
			return nil
		},
	}
}

func topCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "top <period>",
		Short: "Largest expense categories of a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			period, err := model.ParsePeriod(args[0])
			if err != nil {
				return err
			}

			spends := report.New(led.Profile()).TopExpenses(period, n)
			if len(spends) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses in this period."))
				return nil
			}

			for i, spend := range spends {
				fmt.Printf("%d. %s\t%s\n", i+1, spend.Name, spend.Amount.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "count", 3, "how many categories to show")

	return cmd
}

func yearStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "year <year>",
		Short: "Yearly totals, averages, and savings rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}

			engine := report.New(led.Profile())
			stats := engine.YearStatistics(year)
			rate := engine.SavingsRate(model.YearPeriod(year))

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Statistics for %d", year)))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "Active months\t%d\n", stats.MonthsActive)
			fmt.Fprintf(w, "Total income\t%s\n", stats.TotalIncome.StringFixed(2))
			fmt.Fprintf(w, "Total expense\t%s\n", stats.TotalExpense.StringFixed(2))
			fmt.Fprintf(w, "Net\t%s\n", stats.Net.StringFixed(2))
			fmt.Fprintf(w, "Avg income/month\t%s\n", stats.AvgIncome.StringFixed(2))
			fmt.Fprintf(w, "Avg expense/month\t%s\n", stats.AvgExpense.StringFixed(2))
			fmt.Fprintf(w, "Avg net/month\t%s\n", stats.AvgNet.StringFixed(2))
			fmt.Fprintf(w, "Savings rate\t%s%%\n", rate.StringFixed(2))
			return nil
		},
	}
}

func budgetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget <period>",
		Short: "Budget consumption per budgeted category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			period, err := model.ParsePeriod(args[0])
			if err != nil {
				return err
			}

			statuses := report.New(led.Profile()).BudgetStatus(period)
			if len(statuses) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgeted categories with activity in this period."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Budget"),
				cli.HeaderStyle.Render("Actual"),
				cli.HeaderStyle.Render("Used"))

			for _, status := range statuses {
				used := status.Percent.StringFixed(2) + "%"
				if status.Exceeded {
					used = cli.OverBudget(used)
				} else {
					used = cli.UnderBudget(used)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					status.Name, status.Budget.StringFixed(2), status.Actual.StringFixed(2), used)
			}
			return nil
		},
	}
}
