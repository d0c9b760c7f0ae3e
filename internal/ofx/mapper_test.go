package ofx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkade/saffron/internal/csvio"
	"github.com/mkade/saffron/internal/ledger"
	"github.com/mkade/saffron/internal/model"
	"github.com/mkade/saffron/internal/service"
)

type memRepo struct{}

func (memRepo) Load(_ context.Context, name string) (*model.Profile, error) {
	return model.NewProfile(name), nil
}
func (memRepo) Save(_ context.Context, _ *model.Profile) error { return nil }
func (memRepo) List(_ context.Context) ([]string, error)       { return nil, nil }

func entry(day int, description, amount string) service.StatementEntry {
	return service.StatementEntry{
		Date:        time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Description: description,
		Amount:      amount,
	}
}

func TestMapperMatch(t *testing.T) {
	m := NewMapper(map[string]string{
		"rent":           "Rent",
		"rent insurance": "Insurance",
		"SAFEWAY":        "Groceries",
	})

	tests := []struct {
		name        string
		description string
		want        string
	}{
		{name: "simple keyword", description: "ACME PROPERTY RENT JAN", want: "Rent"},
		{name: "longest keyword wins", description: "RENT INSURANCE PREMIUM", want: "Insurance"},
		{name: "case insensitive", description: "safeway #1234", want: "Groceries"},
		{name: "no match", description: "UNKNOWN VENDOR", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.match(tt.description))
		})
	}
}

func TestMapperImport(t *testing.T) {
	ctx := context.Background()
	led := ledger.New(model.NewProfile("test"), memRepo{})
	_, err := led.AddCategory(ctx, "Groceries", model.KindExpense, nil)
	require.NoError(t, err)

	m := NewMapper(map[string]string{"safeway": "Groceries"})
	entries := []service.StatementEntry{
		entry(5, "SAFEWAY #1234", "-52.10"),
		entry(6, "SAFEWAY #1234", "-bad-"),
		entry(7, "MYSTERY SHOP", "-10.00"),
	}

	result, err := m.Import(ctx, entries, led, csvio.ImportOptions{})
	require.NoError(t, err)

	require.Len(t, result.Imported, 1)
	assert.Equal(t, "-52.10", result.Imported[0].Amount.StringFixed(2))
	assert.Equal(t, "SAFEWAY #1234", result.Imported[0].Note)

	require.Len(t, result.RowErrors, 2)
	assert.Equal(t, 2, result.RowErrors[0].Row)
	assert.Equal(t, "amount", result.RowErrors[0].Field)
	assert.Equal(t, 3, result.RowErrors[1].Row)
	assert.Equal(t, "category", result.RowErrors[1].Field)

	txns := led.ListTransactions(service.TransactionFilter{})
	assert.Len(t, txns, 1)
}

func TestMapperImport_FallbackWithAutoCreate(t *testing.T) {
	ctx := context.Background()
	led := ledger.New(model.NewProfile("test"), memRepo{})

	m := NewMapper(nil)
	entries := []service.StatementEntry{
		entry(5, "MYSTERY SHOP", "-10.00"),
		entry(6, "ANOTHER SHOP", "-20.00"),
	}

	result, err := m.Import(ctx, entries, led, csvio.ImportOptions{AutoCreateCategories: true})
	require.NoError(t, err)
	assert.Empty(t, result.RowErrors)
	require.Len(t, result.Imported, 2)

	// Both land in one freshly created fallback category.
	require.Len(t, result.Created, 1)
	assert.Equal(t, FallbackCategory, result.Created[0].Name)
	assert.Equal(t, result.Created[0].ID, result.Imported[0].CategoryID)
	assert.Equal(t, result.Created[0].ID, result.Imported[1].CategoryID)
}

func TestMapperImport_RuleNamesMissingCategory(t *testing.T) {
	ctx := context.Background()
	led := ledger.New(model.NewProfile("test"), memRepo{})

	// The rule matches, but the category it names does not exist.
	m := NewMapper(map[string]string{"safeway": "Groceries"})
	entries := []service.StatementEntry{entry(5, "SAFEWAY #1234", "-52.10")}

	result, err := m.Import(ctx, entries, led, csvio.ImportOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	require.Len(t, result.RowErrors, 1)
	assert.Contains(t, result.RowErrors[0].Reason, "Groceries")

	// With auto-create the named category is created on the fly.
	created, err := m.Import(ctx, entries, led, csvio.ImportOptions{AutoCreateCategories: true})
	require.NoError(t, err)
	require.Len(t, created.Imported, 1)
	require.Len(t, created.Created, 1)
	assert.Equal(t, "Groceries", created.Created[0].Name)
}
