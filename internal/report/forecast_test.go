package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkade/saffron/internal/common"
	"github.com/mkade/saffron/internal/ledger"
	"github.com/mkade/saffron/internal/model"
)

// fixedNow pins the clock to mid-April 2024, so March is the last complete
// month.
func fixedNow() time.Time {
	return time.Date(2024, time.April, 15, 12, 0, 0, 0, time.UTC)
}

func forecastLedger(t *testing.T, monthlyRent []string) (*ledger.Ledger, model.Category) {
	t.Helper()
	ctx := context.Background()
	led := ledger.New(model.NewProfile("test"), memRepo{})

	rent, err := led.AddCategory(ctx, "Rent", model.KindExpense, nil)
	require.NoError(t, err)

	// monthlyRent[0] lands in January 2024, one value per month.
	for i, amount := range monthlyRent {
		_, err := led.AddTransaction(ctx, date(2024, time.Month(i+1), 10), amt(amount), rent.ID, "")
		require.NoError(t, err)
	}
	return led, rent
}

func TestForecast_InsufficientHistory(t *testing.T) {
	tests := []struct {
		name    string
		monthly []string
	}{
		{name: "no history", monthly: nil},
		{name: "one period", monthly: []string{"1000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			led, rent := forecastLedger(t, tt.monthly)
			engine := New(led.Profile(), WithNow(fixedNow))

			_, err := engine.Forecast(rent.ID, 6, 1)
			assert.ErrorIs(t, err, common.ErrInsufficientHistory)
		})
	}
}

func TestForecast_RisingTrend(t *testing.T) {
	led, rent := forecastLedger(t, []string{"100", "200", "300"})
	engine := New(led.Profile(), WithNow(fixedNow))

	result, err := engine.Forecast(rent.ID, 6, 1)
	require.NoError(t, err)

	assert.Equal(t, model.TrendRising, result.Direction)
	assert.Equal(t, 3, result.PeriodsUsed)
	// A perfect 100/month slope projects 400 next.
	assert.Equal(t, "400.00", result.Projected.StringFixed(2))
	assert.Equal(t, "100", result.Slope.String())
}

func TestForecast_FallingAndStable(t *testing.T) {
	tests := []struct {
		name    string
		monthly []string
		want    model.TrendDirection
	}{
		{name: "falling", monthly: []string{"300", "200", "100"}, want: model.TrendFalling},
		{name: "flat is stable", monthly: []string{"250", "250", "250"}, want: model.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			led, rent := forecastLedger(t, tt.monthly)
			engine := New(led.Profile(), WithNow(fixedNow))

			result, err := engine.Forecast(rent.ID, 6, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Direction)
		})
	}
}

func TestForecast_ExcludesInProgressMonth(t *testing.T) {
	// April data exists but April is in progress under fixedNow.
	led, rent := forecastLedger(t, []string{"100", "200", "300", "9999"})
	engine := New(led.Profile(), WithNow(fixedNow))

	result, err := engine.Forecast(rent.ID, 6, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, result.PeriodsUsed)
	assert.Equal(t, "400.00", result.Projected.StringFixed(2))
}

func TestForecast_LookbackWindow(t *testing.T) {
	led, rent := forecastLedger(t, []string{"500", "100", "200", "300"})
	// Pin to May so April is complete and months Feb..Apr fit lookback 3.
	engine := New(led.Profile(), WithNow(func() time.Time {
		return time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)
	}))

	result, err := engine.Forecast(rent.ID, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, result.PeriodsUsed)
	// January's 500 is outside the window, so the fit is the clean 100/month.
	assert.Equal(t, "400.00", result.Projected.StringFixed(2))
}

func TestForecast_GapMonthCountsAsZero(t *testing.T) {
	ctx := context.Background()
	led := ledger.New(model.NewProfile("test"), memRepo{})
	rent, err := led.AddCategory(ctx, "Rent", model.KindExpense, nil)
	require.NoError(t, err)

	// Activity in January and March only; February is a genuine zero.
	_, err = led.AddTransaction(ctx, date(2024, time.January, 10), amt("300"), rent.ID, "")
	require.NoError(t, err)
	_, err = led.AddTransaction(ctx, date(2024, time.March, 10), amt("300"), rent.ID, "")
	require.NoError(t, err)

	engine := New(led.Profile(), WithNow(fixedNow))
	result, err := engine.Forecast(rent.ID, 6, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, result.PeriodsUsed)
}

func TestForecast_Overall(t *testing.T) {
	ctx := context.Background()
	led := ledger.New(model.NewProfile("test"), memRepo{})

	salary, err := led.AddCategory(ctx, "Salary", model.KindIncome, nil)
	require.NoError(t, err)
	rent, err := led.AddCategory(ctx, "Rent", model.KindExpense, nil)
	require.NoError(t, err)

	// Net: Jan 1000, Feb 800, Mar 600.
	for i, rentAmount := range []string{"1000", "1200", "1400"} {
		m := time.Month(i + 1)
		_, err := led.AddTransaction(ctx, date(2024, m, 5), amt("2000"), salary.ID, "")
		require.NoError(t, err)
		_, err = led.AddTransaction(ctx, date(2024, m, 10), amt(rentAmount), rent.ID, "")
		require.NoError(t, err)
	}

	engine := New(led.Profile(), WithNow(fixedNow))
	result, err := engine.OverallForecast(6, 2)
	require.NoError(t, err)

	assert.Equal(t, model.TrendFalling, result.Direction)
	assert.Equal(t, "400.00", result.Projected.StringFixed(2))
	require.Len(t, result.Projections, 2)
	assert.Equal(t, "200.00", result.Projections[1].StringFixed(2))
}

func TestForecast_UnknownCategory(t *testing.T) {
	led, _ := forecastLedger(t, []string{"100", "200"})
	engine := New(led.Profile(), WithNow(fixedNow))

	_, err := engine.Forecast("missing", 6, 1)
	assert.ErrorIs(t, err, common.ErrUnknownCategory)
}
