package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/mkade/saffron/internal/model"
)

// ExportTransactions writes transactions in the stable column order
// (date, category, amount, note) with ISO dates and two decimal places.
// Given the same transactions in the same order, the output is byte
// identical, and the file can be re-imported by Import.
func ExportTransactions(w io.Writer, profile *model.Profile, txns []model.Transaction) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, txn := range txns {
		name := txn.CategoryID
		if cat := profile.CategoryByID(txn.CategoryID); cat != nil {
			name = cat.Name
		}
		record := []string{
			txn.Date.Format(model.DateLayout),
			name,
			txn.Amount.StringFixed(2),
			txn.Note,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

// ExportAggregate writes a period aggregate: one row per category sorted by
// name, then income/expense/net summary rows. Deterministic like
// ExportTransactions.
func ExportAggregate(w io.Writer, profile *model.Profile, agg model.PeriodAggregate) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"period", "category", "total", "budget_variance"}); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	type line struct {
		name string
		id   string
	}
	lines := make([]line, 0, len(agg.CategoryTotals))
	for id := range agg.CategoryTotals {
		name := id
		if cat := profile.CategoryByID(id); cat != nil {
			name = cat.Name
		}
		lines = append(lines, line{name: name, id: id})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].name < lines[j].name })

	period := agg.Period.String()
	for _, l := range lines {
		variance := ""
		if v, ok := agg.BudgetVariance[l.id]; ok {
			variance = v.StringFixed(2)
		}
		record := []string{period, l.name, agg.CategoryTotals[l.id].StringFixed(2), variance}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	summary := [][]string{
		{period, "total_income", agg.TotalIncome.StringFixed(2), ""},
		{period, "total_expense", agg.TotalExpense.StringFixed(2), ""},
		{period, "net", agg.Net.StringFixed(2), ""},
	}
	for _, record := range summary {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write export summary: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}
