package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mkade/saffron/internal/common"
	"github.com/mkade/saffron/internal/model"
)

// DefaultLookback is the number of trailing complete months a forecast
// considers when the caller does not say otherwise.
const DefaultLookback = 6

// stableThreshold is the slope band, in currency units per month, inside
// which a trend counts as stable.
var stableThreshold = decimal.RequireFromString("0.01")

// Forecast fits a least-squares line through the trailing monthly totals of
// a category (or, with an empty categoryID, the overall monthly net) and
// projects it horizon months past the last complete month.
//
// The month containing the engine's clock is in progress and never enters
// the fit. Category series use activity magnitudes, so a rising trend means
// growing activity regardless of sign convention.
func (e *Engine) Forecast(categoryID string, lookback, horizon int) (model.ForecastResult, error) {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if horizon <= 0 {
		horizon = 1
	}
	if categoryID != "" && e.profile.CategoryByID(categoryID) == nil {
		return model.ForecastResult{}, fmt.Errorf("%w: %s", common.ErrUnknownCategory, categoryID)
	}

	series := e.monthlySeries(categoryID, lookback)
	n := len(series)
	if n < 2 {
		return model.ForecastResult{}, fmt.Errorf(
			"%w: forecast needs at least 2 complete months, have %d", common.ErrInsufficientHistory, n)
	}

	slope, intercept := leastSquares(series)

	projections := make([]decimal.Decimal, horizon)
	for k := 0; k < horizon; k++ {
		x := decimal.NewFromInt(int64(n + k))
		projections[k] = intercept.Add(slope.Mul(x)).Round(2)
	}

	direction := model.TrendStable
	switch {
	case slope.GreaterThan(stableThreshold):
		direction = model.TrendRising
	case slope.LessThan(stableThreshold.Neg()):
		direction = model.TrendFalling
	}

	return model.ForecastResult{
		CategoryID:  categoryID,
		Direction:   direction,
		Projected:   projections[0],
		Projections: projections,
		Slope:       slope,
		Intercept:   intercept,
		PeriodsUsed: n,
	}, nil
}

// monthlySeries returns up to lookback monthly totals ending at the last
// complete month. The window is trimmed at the front to the target's first
// recorded month, so months before any history exist don't count as zeros;
// gaps inside the window do.
func (e *Engine) monthlySeries(categoryID string, lookback int) []decimal.Decimal {
	lastComplete := model.PeriodOf(e.now()).Prev()

	totals := make(map[model.Period]decimal.Decimal)
	var first *model.Period
	for _, txn := range e.profile.Transactions {
		if categoryID != "" && txn.CategoryID != categoryID {
			continue
		}
		p := model.PeriodOf(txn.Date)
		totals[p] = totals[p].Add(txn.Amount)
		if first == nil || before(p, *first) {
			f := p
			first = &f
		}
	}
	if first == nil {
		return nil
	}

	var series []decimal.Decimal
	p := lastComplete
	for i := 0; i < lookback; i++ {
		if before(p, *first) {
			break
		}
		value := totals[p]
		if categoryID != "" {
			value = value.Abs()
		}
		series = append([]decimal.Decimal{value}, series...)
		p = p.Prev()
	}
	return series
}

// before reports whether month period a precedes b.
func before(a, b model.Period) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	return a.Month < b.Month
}

// leastSquares fits y = intercept + slope·x over x = 0..n-1.
func leastSquares(series []decimal.Decimal) (slope, intercept decimal.Decimal) {
	n := int64(len(series))
	nd := decimal.NewFromInt(n)

	sumX := decimal.NewFromInt(n * (n - 1) / 2)
	sumX2 := decimal.NewFromInt((n - 1) * n * (2*n - 1) / 6)
	sumY := decimal.Zero
	sumXY := decimal.Zero
	for i, y := range series {
		sumY = sumY.Add(y)
		sumXY = sumXY.Add(y.Mul(decimal.NewFromInt(int64(i))))
	}

	denom := nd.Mul(sumX2).Sub(sumX.Mul(sumX))
	if denom.IsZero() {
		return decimal.Zero, sumY.Div(nd)
	}

	slope = nd.Mul(sumXY).Sub(sumX.Mul(sumY)).Div(denom)
	intercept = sumY.Sub(slope.Mul(sumX)).Div(nd)
	return slope, intercept
}

// OverallForecast is shorthand for a forecast of the monthly net.
func (e *Engine) OverallForecast(lookback, horizon int) (model.ForecastResult, error) {
	return e.Forecast("", lookback, horizon)
}
