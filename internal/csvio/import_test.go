package csvio

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkade/saffron/internal/common"
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

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	ctx := context.Background()
	led := ledger.New(model.NewProfile("test"), memRepo{})

	_, err := led.AddCategory(ctx, "Salary", model.KindIncome, nil)
	require.NoError(t, err)
	_, err = led.AddCategory(ctx, "Rent", model.KindExpense, nil)
	require.NoError(t, err)
	return led
}

func TestImport(t *testing.T) {
	led := newTestLedger(t)
	input := strings.Join([]string{
		"date,category,amount,note",
		"2024-01-05,Salary,2000,January pay",
		"2024-01-10,Rent,1000,",
	}, "\n")

	result, err := Import(context.Background(), strings.NewReader(input), led, ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Imported, 2)
	assert.Empty(t, result.RowErrors)
	assert.Empty(t, result.Created)

	txns := led.ListTransactions(service.TransactionFilter{})
	require.Len(t, txns, 2)
	assert.Equal(t, "2000.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "January pay", txns[0].Note)
	// Expense rows get the expense sign regardless of how the file spells them.
	assert.Equal(t, "-1000.00", txns[1].Amount.StringFixed(2))
}

func TestImport_HeaderOrderAndCaseInsensitive(t *testing.T) {
	led := newTestLedger(t)
	input := strings.Join([]string{
		"Amount,NOTE,Date,Category",
		"250.50,dinner,2024-03-02,Rent",
	}, "\n")

	result, err := Import(context.Background(), strings.NewReader(input), led, ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, "-250.50", result.Imported[0].Amount.StringFixed(2))
	assert.Equal(t, "dinner", result.Imported[0].Note)
}

func TestImport_MalformedHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "missing column", input: "date,category,amount\n2024-01-05,Rent,100"},
		{name: "unknown column", input: "date,category,amount,note,balance\n2024-01-05,Rent,100,,0"},
		{name: "duplicate column", input: "date,date,category,amount,note\n2024-01-05,2024-01-05,Rent,100,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			led := newTestLedger(t)
			_, err := Import(context.Background(), strings.NewReader(tt.input), led, ImportOptions{})
			assert.ErrorIs(t, err, common.ErrMalformedHeader)

			// Fail fast: nothing was committed.
			assert.Empty(t, led.ListTransactions(service.TransactionFilter{}))
		})
	}
}

func TestImport_BadRowsReportedOthersImported(t *testing.T) {
	led := newTestLedger(t)
	input := strings.Join([]string{
		"date,category,amount,note",
		"2024-01-05,Salary,2000,ok",
		"not-a-date,Rent,100,bad date",
		"2024-01-10,Rent,abc,bad amount",
		"2024-01-15,Gym,30,unknown category",
		"2024-01-20,Rent,50,ok",
	}, "\n")

	result, err := Import(context.Background(), strings.NewReader(input), led, ImportOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Imported, 2)
	require.Len(t, result.RowErrors, 3)

	assert.Equal(t, 3, result.RowErrors[0].Row)
	assert.Equal(t, "date", result.RowErrors[0].Field)
	assert.Equal(t, "amount", result.RowErrors[1].Field)
	assert.Equal(t, "category", result.RowErrors[2].Field)
	assert.Contains(t, result.RowErrors[2].Reason, "Gym")

	assert.Len(t, led.ListTransactions(service.TransactionFilter{}), 2)
}

func TestImport_AutoCreateCategories(t *testing.T) {
	led := newTestLedger(t)
	input := strings.Join([]string{
		"date,category,amount,note",
		"2024-01-15,Gym,30,membership",
		"2024-01-16,Gym,5,day pass",
	}, "\n")

	result, err := Import(context.Background(), strings.NewReader(input), led, ImportOptions{AutoCreateCategories: true})
	require.NoError(t, err)
	assert.Len(t, result.Imported, 2)
	assert.Empty(t, result.RowErrors)

	// One category created for both rows, as an expense with no budget.
	require.Len(t, result.Created, 1)
	assert.Equal(t, "Gym", result.Created[0].Name)
	assert.Equal(t, model.KindExpense, result.Created[0].Kind)
	assert.Nil(t, result.Created[0].MonthlyBudget)
}

func TestImport_WrongFieldCount(t *testing.T) {
	led := newTestLedger(t)
	input := strings.Join([]string{
		"date,category,amount,note",
		"2024-01-05,Rent,100",
	}, "\n")

	result, err := Import(context.Background(), strings.NewReader(input), led, ImportOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 2, result.RowErrors[0].Row)
}

func TestImport_RespectsExistingSigns(t *testing.T) {
	led := newTestLedger(t)
	input := strings.Join([]string{
		"date,category,amount,note",
		"2024-01-10,Rent,-1000,already negative",
		"2024-01-11,Salary,-2000,sign fixed",
	}, "\n")

	result, err := Import(context.Background(), strings.NewReader(input), led, ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Imported, 2)
	assert.Equal(t, "-1000.00", result.Imported[0].Amount.StringFixed(2))
	assert.Equal(t, "2000.00", result.Imported[1].Amount.StringFixed(2))
}
