package model

import "github.com/shopspring/decimal"

// PeriodAggregate is a derived view of one period's activity. It is computed
// on demand and never persisted, so it always reflects the current ledger.
type PeriodAggregate struct {
	// CategoryTotals maps category id to the signed sum of its transactions
	// in the period.
	CategoryTotals map[string]decimal.Decimal
	// BudgetVariance maps category id to actual spend magnitude minus the
	// budget scaled to the period length. Positive means over budget.
	// Categories without a budget have no entry.
	BudgetVariance map[string]decimal.Decimal
	Period         Period
	TotalIncome    decimal.Decimal
	// TotalExpense is the signed (negative) sum of expense transactions.
	TotalExpense decimal.Decimal
	// Net is TotalIncome + TotalExpense.
	Net decimal.Decimal
}

// TrendDirection classifies the slope of a forecast fit.
type TrendDirection string

const (
	// TrendRising means the fitted slope exceeds the stability threshold.
	TrendRising TrendDirection = "rising"
	// TrendFalling means the fitted slope is below the negative threshold.
	TrendFalling TrendDirection = "falling"
	// TrendStable means the fitted slope is within the threshold band.
	TrendStable TrendDirection = "stable"
)

// ForecastResult is a derived short-term projection for one category or for
// the overall monthly net.
type ForecastResult struct {
	// CategoryID is empty for an overall forecast.
	CategoryID string
	Direction  TrendDirection
	// Projected is the fitted value one period beyond the last complete one.
	Projected decimal.Decimal
	// Projections extends the fit further out; Projections[0] == Projected.
	Projections []decimal.Decimal
	Slope       decimal.Decimal
	Intercept   decimal.Decimal
	// PeriodsUsed is the number of historical months behind the fit.
	PeriodsUsed int
}

// YearStatistics summarizes a whole year of activity.
type YearStatistics struct {
	Year          int
	MonthsActive  int
	TotalIncome   decimal.Decimal
	TotalExpense  decimal.Decimal
	Net           decimal.Decimal
	AvgIncome     decimal.Decimal
	AvgExpense    decimal.Decimal
	AvgNet        decimal.Decimal
	MonthlyIncome map[Period]decimal.Decimal
	// MonthlyExpense holds signed (negative) monthly expense sums.
	MonthlyExpense map[Period]decimal.Decimal
}

// CategorySpend pairs a category with its activity magnitude in a period.
type CategorySpend struct {
	CategoryID string
	Name       string
	Amount     decimal.Decimal
}

// BudgetStatus reports how much of a category's scaled budget a period
// consumed.
type BudgetStatus struct {
	CategoryID string
	Name       string
	Budget     decimal.Decimal
	Actual     decimal.Decimal
	// Percent is Actual/Budget × 100, rounded to two decimal places.
	Percent  decimal.Decimal
	Exceeded bool
}
