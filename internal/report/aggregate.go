// Package report computes derived views over a profile: period aggregates,
// yearly statistics, and trend forecasts. Nothing here is persisted; every
// call recomputes from the current ledger contents.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkade/saffron/internal/common"
	"github.com/mkade/saffron/internal/model"
)

// Engine computes aggregates and forecasts for one profile.
type Engine struct {
	profile *model.Profile
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow overrides the clock used to decide which month is still in
// progress. Intended for tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates a reporting engine over a profile.
func New(profile *model.Profile, opts ...Option) *Engine {
	e := &Engine{
		profile: profile,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Aggregate computes the period's totals, net, and budget variance.
//
// Per-category totals are signed. Budget variance compares the magnitude of a
// budgeted category's activity against its monthly budget scaled to the
// period length, so positive variance always means over budget. Budgeted
// categories with no activity in the period get no variance entry; a period
// with no transactions at all yields a zero aggregate.
func (e *Engine) Aggregate(period model.Period) model.PeriodAggregate {
	agg := model.PeriodAggregate{
		Period:         period,
		CategoryTotals: make(map[string]decimal.Decimal),
		BudgetVariance: make(map[string]decimal.Decimal),
		TotalIncome:    decimal.Zero,
		TotalExpense:   decimal.Zero,
		Net:            decimal.Zero,
	}

	for _, txn := range e.profile.Transactions {
		if !period.Contains(txn.Date) {
			continue
		}

		agg.CategoryTotals[txn.CategoryID] = agg.CategoryTotals[txn.CategoryID].Add(txn.Amount)
		if txn.Amount.IsNegative() {
			agg.TotalExpense = agg.TotalExpense.Add(txn.Amount)
		} else {
			agg.TotalIncome = agg.TotalIncome.Add(txn.Amount)
		}
	}
	agg.Net = agg.TotalIncome.Add(agg.TotalExpense)

	months := decimal.NewFromInt(int64(period.Months()))
	for id, total := range agg.CategoryTotals {
		cat := e.profile.CategoryByID(id)
		if cat == nil || cat.MonthlyBudget == nil {
			continue
		}
		scaled := cat.MonthlyBudget.Mul(months)
		agg.BudgetVariance[id] = total.Abs().Sub(scaled)
	}

	return agg
}

// YearlyAverage returns the mean monthly activity magnitude of a category
// over the months of year that contain at least one of its transactions.
// Months without activity do not dilute the average. A year with no activity
// yields zero.
func (e *Engine) YearlyAverage(categoryID string, year int) (decimal.Decimal, error) {
	if e.profile.CategoryByID(categoryID) == nil {
		return decimal.Zero, fmt.Errorf("%w: %s", common.ErrUnknownCategory, categoryID)
	}

	monthly := make(map[model.Period]decimal.Decimal)
	for _, txn := range e.profile.Transactions {
		if txn.CategoryID != categoryID || txn.Date.Year() != year {
			continue
		}
		p := model.PeriodOf(txn.Date)
		monthly[p] = monthly[p].Add(txn.Amount)
	}

	if len(monthly) == 0 {
		return decimal.Zero, nil
	}

	sum := decimal.Zero
	for _, total := range monthly {
		sum = sum.Add(total.Abs())
	}
	return sum.Div(decimal.NewFromInt(int64(len(monthly)))), nil
}

// SavingsRate returns (income − expense) / income × 100 for the period,
// or zero when the period has no income.
func (e *Engine) SavingsRate(period model.Period) decimal.Decimal {
	agg := e.Aggregate(period)
	if agg.TotalIncome.IsZero() {
		return decimal.Zero
	}
	return agg.Net.Div(agg.TotalIncome).Mul(decimal.NewFromInt(100)).Round(2)
}

// TopExpenses returns the n largest expense categories of the period by
// magnitude, descending, with name ties broken alphabetically for
// deterministic output.
func (e *Engine) TopExpenses(period model.Period, n int) []model.CategorySpend {
	agg := e.Aggregate(period)

	spends := make([]model.CategorySpend, 0, len(agg.CategoryTotals))
	for id, total := range agg.CategoryTotals {
		if !total.IsNegative() {
			continue
		}
		name := id
		if cat := e.profile.CategoryByID(id); cat != nil {
			name = cat.Name
		}
		spends = append(spends, model.CategorySpend{
			CategoryID: id,
			Name:       name,
			Amount:     total.Abs(),
		})
	}

	sort.Slice(spends, func(i, j int) bool {
		if !spends[i].Amount.Equal(spends[j].Amount) {
			return spends[i].Amount.GreaterThan(spends[j].Amount)
		}
		return spends[i].Name < spends[j].Name
	})

	if n > 0 && len(spends) > n {
		spends = spends[:n]
	}
	return spends
}

// YearStatistics summarizes a year: totals plus monthly series and averages
// over the months that saw any activity.
func (e *Engine) YearStatistics(year int) model.YearStatistics {
	stats := model.YearStatistics{
		Year:           year,
		TotalIncome:    decimal.Zero,
		TotalExpense:   decimal.Zero,
		Net:            decimal.Zero,
		AvgIncome:      decimal.Zero,
		AvgExpense:     decimal.Zero,
		AvgNet:         decimal.Zero,
		MonthlyIncome:  make(map[model.Period]decimal.Decimal),
		MonthlyExpense: make(map[model.Period]decimal.Decimal),
	}

	active := make(map[model.Period]struct{})
	for _, txn := range e.profile.Transactions {
		if txn.Date.Year() != year {
			continue
		}
		p := model.PeriodOf(txn.Date)
		active[p] = struct{}{}
		if txn.Amount.IsNegative() {
			stats.MonthlyExpense[p] = stats.MonthlyExpense[p].Add(txn.Amount)
			stats.TotalExpense = stats.TotalExpense.Add(txn.Amount)
		} else {
			stats.MonthlyIncome[p] = stats.MonthlyIncome[p].Add(txn.Amount)
			stats.TotalIncome = stats.TotalIncome.Add(txn.Amount)
		}
	}

	stats.Net = stats.TotalIncome.Add(stats.TotalExpense)
	stats.MonthsActive = len(active)
	if stats.MonthsActive > 0 {
		months := decimal.NewFromInt(int64(stats.MonthsActive))
		stats.AvgIncome = stats.TotalIncome.Div(months)
		stats.AvgExpense = stats.TotalExpense.Div(months)
		stats.AvgNet = stats.Net.Div(months)
	}
	return stats
}

// BudgetStatus reports budget consumption for every budgeted category with
// activity in the period, sorted by category name.
func (e *Engine) BudgetStatus(period model.Period) []model.BudgetStatus {
	agg := e.Aggregate(period)
	months := decimal.NewFromInt(int64(period.Months()))

	statuses := make([]model.BudgetStatus, 0, len(agg.BudgetVariance))
	for id := range agg.BudgetVariance {
		cat := e.profile.CategoryByID(id)
		scaled := cat.MonthlyBudget.Mul(months)
		actual := agg.CategoryTotals[id].Abs()

		status := model.BudgetStatus{
			CategoryID: id,
			Name:       cat.Name,
			Budget:     scaled,
			Actual:     actual,
			Percent:    decimal.Zero,
		}
		if scaled.IsPositive() {
			status.Percent = actual.Div(scaled).Mul(decimal.NewFromInt(100)).Round(2)
			status.Exceeded = actual.GreaterThan(scaled)
		}
		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Name < statuses[j].Name
	})
	return statuses
}
