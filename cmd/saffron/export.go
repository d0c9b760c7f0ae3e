package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkade/saffron/internal/cli"
	"github.com/mkade/saffron/internal/csvio"
	"github.com/mkade/saffron/internal/model"
	"github.com/mkade/saffron/internal/report"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export ledger data as CSV",
		Long: `Write CSV exports into the data directory's exports folder, never into
profile storage. Transaction exports can be re-imported with 'saffron import csv'.`,
	}

	cmd.AddCommand(exportTxCmd())
	cmd.AddCommand(exportReportCmd())

	return cmd
}

func exportTxCmd() *cobra.Command {
	var (
		fromFlag     string
		toFlag       string
		categoryFlag string
	)

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Export transactions (date, category, amount, note)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			led, store, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			filter, err := buildFilter(led, fromFlag, toFlag, categoryFlag)
			if err != nil {
				return err
			}
			txns := led.ListTransactions(filter)

			filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("20060102-150405"))
			f, path, err := store.CreateExport(filename)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := csvio.ExportTransactions(f, led.Profile(), txns); err != nil {
				return fmt.Errorf("failed to export transactions: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Exported %d transaction(s) to %s", len(txns), path)))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&toFlag, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "only this category")

	return cmd
}

func exportReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <period>",
		Short: "Export a period aggregate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, store, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			period, err := model.ParsePeriod(args[0])
			if err != nil {
				return err
			}
			agg := report.New(led.Profile()).Aggregate(period)

			filename := fmt.Sprintf("report-%s-%s.csv", period, time.Now().Format("20060102-150405"))
			f, path, err := store.CreateExport(filename)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := csvio.ExportAggregate(f, led.Profile(), agg); err != nil {
				return fmt.Errorf("failed to export report: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Exported %s report to %s", period, path)))
			return nil
		},
	}
}
