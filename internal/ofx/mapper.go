package ofx

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkade/saffron/internal/csvio"
	"github.com/mkade/saffron/internal/ledger"
	"github.com/mkade/saffron/internal/model"
	"github.com/mkade/saffron/internal/service"
)

// FallbackCategory is where unmatched statement entries land when auto-create
// is enabled.
const FallbackCategory = "Uncategorized"

// Mapper assigns ledger categories to statement entries by keyword: the
// first configured keyword found in an entry's description (case-insensitive)
// selects its category.
type Mapper struct {
	keywords []string
	rules    map[string]string
}

// NewMapper creates a mapper from keyword→category-name rules. Keywords are
// tried longest first so "rent insurance" wins over "rent".
func NewMapper(rules map[string]string) *Mapper {
	keywords := make([]string, 0, len(rules))
	normalized := make(map[string]string, len(rules))
	for keyword, category := range rules {
		k := strings.ToLower(strings.TrimSpace(keyword))
		if k == "" {
			continue
		}
		keywords = append(keywords, k)
		normalized[k] = category
	}
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})
	return &Mapper{keywords: keywords, rules: normalized}
}

// match returns the category name for a description, or "".
func (m *Mapper) match(description string) string {
	desc := strings.ToLower(description)
	for _, keyword := range m.keywords {
		if strings.Contains(desc, keyword) {
			return m.rules[keyword]
		}
	}
	return ""
}

// Import maps statement entries to categories and commits the valid ones to
// the ledger in one durable write. Entries that match no rule are reported
// as row errors unless auto-create is enabled, in which case they fall back
// to the Uncategorized expense category. Statement descriptions become notes.
func (m *Mapper) Import(ctx context.Context, entries []service.StatementEntry, led *ledger.Ledger, opts csvio.ImportOptions) (csvio.Result, error) {
	var result csvio.Result

	for i, entry := range entries {
		row := i + 1

		amount, err := decimal.NewFromString(entry.Amount)
		if err != nil {
			result.RowErrors = append(result.RowErrors, csvio.RowError{
				Row:    row,
				Field:  "amount",
				Reason: fmt.Sprintf("%q is not a decimal amount", entry.Amount),
			})
			continue
		}

		name := m.match(entry.Description)
		if name == "" {
			if !opts.AutoCreateCategories {
				result.RowErrors = append(result.RowErrors, csvio.RowError{
					Row:    row,
					Field:  "category",
					Reason: fmt.Sprintf("no category rule matches %q", entry.Description),
				})
				continue
			}
			name = FallbackCategory
		}

		cat, err := led.ResolveCategory(name)
		if err != nil {
			if !opts.AutoCreateCategories {
				result.RowErrors = append(result.RowErrors, csvio.RowError{
					Row:    row,
					Field:  "category",
					Reason: fmt.Sprintf("unknown category %q", name),
				})
				continue
			}
			created, createErr := led.AddCategory(ctx, name, model.KindExpense, nil)
			if createErr != nil {
				result.RowErrors = append(result.RowErrors, csvio.RowError{Row: row, Field: "category", Reason: createErr.Error()})
				continue
			}
			result.Created = append(result.Created, created)
			cat = &created
		}

		txn, err := model.NewTransaction(entry.Date, amount, *cat, entry.Description)
		if err != nil {
			result.RowErrors = append(result.RowErrors, csvio.RowError{Row: row, Reason: err.Error()})
			continue
		}
		result.Imported = append(result.Imported, txn)
	}

	if len(result.Imported) > 0 {
		if err := led.AddTransactions(ctx, result.Imported); err != nil {
			return csvio.Result{}, err
		}
	}

	slog.Info("ofx import finished",
		"imported", len(result.Imported),
		"skipped", len(result.RowErrors))
	return result, nil
}
