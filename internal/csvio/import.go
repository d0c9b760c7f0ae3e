// Package csvio implements the CSV import/export adapter. Import is best
// effort: each row is validated independently and bad rows are reported, not
// fatal. Export output is deterministic so unchanged data exports to
// byte-identical files.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkade/saffron/internal/common"
	"github.com/mkade/saffron/internal/ledger"
	"github.com/mkade/saffron/internal/model"
)

// Columns recognized in an import header, in canonical export order.
var columns = []string{"date", "category", "amount", "note"}

// ImportOptions controls category mapping during import.
type ImportOptions struct {
	// AutoCreateCategories creates an expense category for unmatched
	// category names instead of reporting the row as an error.
	AutoCreateCategories bool
}

// RowError describes why one input row was skipped.
type RowError struct {
	Field  string
	Reason string
	Row    int
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Result reports what an import did.
type Result struct {
	Imported  []model.Transaction
	Created   []model.Category
	RowErrors []RowError
}

// Import parses CSV rows and commits all valid ones to the ledger in a
// single durable write. The header must contain exactly the columns
// {date, category, amount, note} in any order, case-insensitively; anything
// else fails fast before row processing.
func Import(ctx context.Context, r io.Reader, led *ledger.Ledger, opts ImportOptions) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("%w: input is empty", common.ErrMalformedHeader)
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", common.ErrMalformedHeader, err)
	}

	index, err := headerIndex(header)
	if err != nil {
		return Result{}, err
	}

	var result Result
	row := 1 // header was row 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Row: row, Reason: err.Error()})
			continue
		}

		txn, rowErr := parseRow(ctx, record, index, row, led, opts, &result)
		if rowErr != nil {
			result.RowErrors = append(result.RowErrors, *rowErr)
			continue
		}
		result.Imported = append(result.Imported, txn)
	}

	if len(result.Imported) > 0 {
		if err := led.AddTransactions(ctx, result.Imported); err != nil {
			return Result{}, err
		}
	}

	slog.Info("csv import finished",
		"imported", len(result.Imported),
		"skipped", len(result.RowErrors),
		"categories_created", len(result.Created))
	return result, nil
}

// headerIndex validates the header and maps column name to field position.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if _, ok := index[name]; ok {
			return nil, fmt.Errorf("%w: duplicate column %q", common.ErrMalformedHeader, name)
		}
		index[name] = i
	}

	for _, want := range columns {
		if _, ok := index[want]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", common.ErrMalformedHeader, want)
		}
	}
	if len(index) != len(columns) {
		for name := range index {
			if !isKnownColumn(name) {
				return nil, fmt.Errorf("%w: unrecognized column %q", common.ErrMalformedHeader, name)
			}
		}
	}
	return index, nil
}

func isKnownColumn(name string) bool {
	for _, col := range columns {
		if col == name {
			return true
		}
	}
	return false
}

// parseRow validates one record. The returned RowError is nil for a valid row.
func parseRow(ctx context.Context, record []string, index map[string]int, row int, led *ledger.Ledger, opts ImportOptions, result *Result) (model.Transaction, *RowError) {
	if len(record) != len(columns) {
		return model.Transaction{}, &RowError{
			Row:    row,
			Reason: fmt.Sprintf("expected %d fields, got %d", len(columns), len(record)),
		}
	}

	date, err := time.Parse(model.DateLayout, strings.TrimSpace(record[index["date"]]))
	if err != nil {
		return model.Transaction{}, &RowError{
			Row:    row,
			Field:  "date",
			Reason: fmt.Sprintf("%q is not an ISO date (YYYY-MM-DD)", record[index["date"]]),
		}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[index["amount"]]))
	if err != nil {
		return model.Transaction{}, &RowError{
			Row:    row,
			Field:  "amount",
			Reason: fmt.Sprintf("%q is not a decimal amount", record[index["amount"]]),
		}
	}

	name := strings.TrimSpace(record[index["category"]])
	cat, err := led.ResolveCategory(name)
	if err != nil {
		if !opts.AutoCreateCategories {
			return model.Transaction{}, &RowError{
				Row:    row,
				Field:  "category",
				Reason: fmt.Sprintf("unknown category %q", name),
			}
		}
		created, createErr := led.AddCategory(ctx, name, model.KindExpense, nil)
		if createErr != nil {
			return model.Transaction{}, &RowError{Row: row, Field: "category", Reason: createErr.Error()}
		}
		result.Created = append(result.Created, created)
		cat = &created
	}

	txn, err := model.NewTransaction(date, amount, *cat, record[index["note"]])
	if err != nil {
		return model.Transaction{}, &RowError{Row: row, Reason: err.Error()}
	}
	return txn, nil
}
