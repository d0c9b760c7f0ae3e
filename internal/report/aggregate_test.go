package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkade/saffron/internal/common"
	"github.com/mkade/saffron/internal/ledger"
	"github.com/mkade/saffron/internal/model"
)

type memRepo struct{}

func (memRepo) Load(_ context.Context, name string) (*model.Profile, error) {
	return model.NewProfile(name), nil
}
func (memRepo) Save(_ context.Context, _ *model.Profile) error { return nil }
func (memRepo) List(_ context.Context) ([]string, error)      { return nil, nil }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixtureLedger builds the worked example: Salary income, Rent with a 1000
// budget, two months of activity.
func fixtureLedger(t *testing.T) (*ledger.Ledger, model.Category, model.Category) {
	t.Helper()
	ctx := context.Background()
	led := ledger.New(model.NewProfile("test"), memRepo{})

	salary, err := led.AddCategory(ctx, "Salary", model.KindIncome, nil)
	require.NoError(t, err)
	budget := amt("1000")
	rent, err := led.AddCategory(ctx, "Rent", model.KindExpense, &budget)
	require.NoError(t, err)

	for _, txn := range []struct {
		date   time.Time
		amount string
		cat    string
	}{
		{date(2024, 1, 5), "2000", salary.ID},
		{date(2024, 1, 10), "1000", rent.ID},
		{date(2024, 2, 5), "2000", salary.ID},
		{date(2024, 2, 10), "1200", rent.ID},
	} {
		_, err := led.AddTransaction(ctx, txn.date, amt(txn.amount), txn.cat, "")
		require.NoError(t, err)
	}

	return led, salary, rent
}

func TestAggregate_MonthlyWorkedExample(t *testing.T) {
	led, salary, rent := fixtureLedger(t)
	engine := New(led.Profile())

	jan := engine.Aggregate(model.MonthPeriod(2024, time.January))
	assert.Equal(t, "2000.00", jan.TotalIncome.StringFixed(2))
	assert.Equal(t, "-1000.00", jan.TotalExpense.StringFixed(2))
	assert.Equal(t, "1000.00", jan.Net.StringFixed(2))
	assert.Equal(t, "2000.00", jan.CategoryTotals[salary.ID].StringFixed(2))
	assert.Equal(t, "-1000.00", jan.CategoryTotals[rent.ID].StringFixed(2))

	// Rent spent exactly its budget in January.
	require.Contains(t, jan.BudgetVariance, rent.ID)
	assert.Equal(t, "0.00", jan.BudgetVariance[rent.ID].StringFixed(2))
	// Salary has no budget, so no variance entry.
	assert.NotContains(t, jan.BudgetVariance, salary.ID)

	feb := engine.Aggregate(model.MonthPeriod(2024, time.February))
	assert.Equal(t, "200.00", feb.BudgetVariance[rent.ID].StringFixed(2))
	assert.Equal(t, "800.00", feb.Net.StringFixed(2))
}

func TestAggregate_Yearly(t *testing.T) {
	led, _, rent := fixtureLedger(t)
	engine := New(led.Profile())

	year := engine.Aggregate(model.YearPeriod(2024))
	assert.Equal(t, "4000.00", year.TotalIncome.StringFixed(2))
	assert.Equal(t, "-2200.00", year.TotalExpense.StringFixed(2))
	assert.Equal(t, "1800.00", year.Net.StringFixed(2))

	// Annual variance scales the monthly budget by 12: 2200 - 12000.
	assert.Equal(t, "-9800.00", year.BudgetVariance[rent.ID].StringFixed(2))
}

func TestAggregate_EmptyPeriod(t *testing.T) {
	led, _, _ := fixtureLedger(t)
	engine := New(led.Profile())

	empty := engine.Aggregate(model.MonthPeriod(2023, time.June))
	assert.Equal(t, "0.00", empty.TotalIncome.StringFixed(2))
	assert.Equal(t, "0.00", empty.TotalExpense.StringFixed(2))
	assert.Equal(t, "0.00", empty.Net.StringFixed(2))
	assert.Empty(t, empty.CategoryTotals)
	assert.Empty(t, empty.BudgetVariance)
}

func TestAggregate_InsertionOrderIndependent(t *testing.T) {
	ctx := context.Background()

	build := func(reversed bool) model.PeriodAggregate {
		led := ledger.New(model.NewProfile("test"), memRepo{})
		salary, err := led.AddCategory(ctx, "Salary", model.KindIncome, nil)
		require.NoError(t, err)
		rent, err := led.AddCategory(ctx, "Rent", model.KindExpense, nil)
		require.NoError(t, err)

		entries := []struct {
			date   time.Time
			amount string
			cat    string
		}{
			{date(2024, 1, 5), "2000", salary.ID},
			{date(2024, 1, 10), "999.99", rent.ID},
			{date(2024, 1, 20), "0.01", rent.ID},
		}
		if reversed {
			for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
		for _, e := range entries {
			_, err := led.AddTransaction(ctx, e.date, amt(e.amount), e.cat, "")
			require.NoError(t, err)
		}
		return New(led.Profile()).Aggregate(model.MonthPeriod(2024, time.January))
	}

	forward := build(false)
	backward := build(true)
	assert.Equal(t, forward.TotalIncome.StringFixed(2), backward.TotalIncome.StringFixed(2))
	assert.Equal(t, forward.TotalExpense.StringFixed(2), backward.TotalExpense.StringFixed(2))
	assert.Equal(t, forward.Net.StringFixed(2), backward.Net.StringFixed(2))
	assert.Equal(t, "-1000.00", backward.TotalExpense.StringFixed(2))
}

func TestYearlyAverage(t *testing.T) {
	led, _, rent := fixtureLedger(t)
	engine := New(led.Profile())

	// (1000 + 1200) / 2 active months, not / 12.
	avg, err := engine.YearlyAverage(rent.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, "1100.00", avg.StringFixed(2))

	// A year with no activity averages to zero.
	avg, err = engine.YearlyAverage(rent.ID, 2023)
	require.NoError(t, err)
	assert.True(t, avg.IsZero())

	_, err = engine.YearlyAverage("missing", 2024)
	assert.ErrorIs(t, err, common.ErrUnknownCategory)
}

func TestSavingsRate(t *testing.T) {
	led, _, _ := fixtureLedger(t)
	engine := New(led.Profile())

	// January: (2000 - 1000) / 2000 = 50%.
	assert.Equal(t, "50.00", engine.SavingsRate(model.MonthPeriod(2024, time.January)).StringFixed(2))

	// A period without income reports zero instead of dividing by it.
	assert.True(t, engine.SavingsRate(model.MonthPeriod(2023, time.June)).IsZero())
}

func TestTopExpenses(t *testing.T) {
	ctx := context.Background()
	led, _, _ := fixtureLedger(t)

	groceries, err := led.AddCategory(ctx, "Groceries", model.KindExpense, nil)
	require.NoError(t, err)
	_, err = led.AddTransaction(ctx, date(2024, 1, 15), amt("350"), groceries.ID, "")
	require.NoError(t, err)

	top := New(led.Profile()).TopExpenses(model.MonthPeriod(2024, time.January), 3)
	require.Len(t, top, 2)
	assert.Equal(t, "Rent", top[0].Name)
	assert.Equal(t, "1000.00", top[0].Amount.StringFixed(2))
	assert.Equal(t, "Groceries", top[1].Name)

	// Income categories never appear.
	for _, spend := range top {
		assert.NotEqual(t, "Salary", spend.Name)
	}

	one := New(led.Profile()).TopExpenses(model.MonthPeriod(2024, time.January), 1)
	assert.Len(t, one, 1)
}

func TestYearStatistics(t *testing.T) {
	led, _, _ := fixtureLedger(t)
	stats := New(led.Profile()).YearStatistics(2024)

	assert.Equal(t, 2, stats.MonthsActive)
	assert.Equal(t, "4000.00", stats.TotalIncome.StringFixed(2))
	assert.Equal(t, "-2200.00", stats.TotalExpense.StringFixed(2))
	assert.Equal(t, "2000.00", stats.AvgIncome.StringFixed(2))
	assert.Equal(t, "-1100.00", stats.AvgExpense.StringFixed(2))
	assert.Equal(t, "900.00", stats.AvgNet.StringFixed(2))
	assert.Equal(t, "2000.00", stats.MonthlyIncome[model.MonthPeriod(2024, time.January)].StringFixed(2))
	assert.Equal(t, "-1200.00", stats.MonthlyExpense[model.MonthPeriod(2024, time.February)].StringFixed(2))
}

func TestBudgetStatus(t *testing.T) {
	led, _, rent := fixtureLedger(t)
	engine := New(led.Profile())

	jan := engine.BudgetStatus(model.MonthPeriod(2024, time.January))
	require.Len(t, jan, 1)
	assert.Equal(t, rent.ID, jan[0].CategoryID)
	assert.Equal(t, "100.00", jan[0].Percent.StringFixed(2))
	assert.False(t, jan[0].Exceeded)

	feb := engine.BudgetStatus(model.MonthPeriod(2024, time.February))
	require.Len(t, feb, 1)
	assert.Equal(t, "120.00", feb[0].Percent.StringFixed(2))
	assert.True(t, feb[0].Exceeded)
}
