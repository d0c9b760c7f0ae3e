package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Period
		wantErr bool
	}{
		{name: "month", input: "2024-01", want: MonthPeriod(2024, time.January)},
		{name: "december", input: "2024-12", want: MonthPeriod(2024, time.December)},
		{name: "year", input: "2024", want: YearPeriod(2024)},
		{name: "month out of range", input: "2024-13", wantErr: true},
		{name: "garbage", input: "jan 2024", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodString(t *testing.T) {
	assert.Equal(t, "2024-01", MonthPeriod(2024, time.January).String())
	assert.Equal(t, "2024", YearPeriod(2024).String())

	// String round-trips through ParsePeriod.
	for _, p := range []Period{MonthPeriod(2024, time.July), YearPeriod(1999)} {
		parsed, err := ParsePeriod(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestPeriodContains(t *testing.T) {
	jan := MonthPeriod(2024, time.January)
	assert.True(t, jan.Contains(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, jan.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, jan.Contains(time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)))

	year := YearPeriod(2024)
	assert.True(t, year.Contains(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, year.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPeriodNextPrev(t *testing.T) {
	assert.Equal(t, MonthPeriod(2024, time.February), MonthPeriod(2024, time.January).Next())
	assert.Equal(t, MonthPeriod(2025, time.January), MonthPeriod(2024, time.December).Next())
	assert.Equal(t, MonthPeriod(2023, time.December), MonthPeriod(2024, time.January).Prev())
	assert.Equal(t, YearPeriod(2025), YearPeriod(2024).Next())
	assert.Equal(t, YearPeriod(2023), YearPeriod(2024).Prev())

	// Next and Prev are inverses across the year boundary.
	p := MonthPeriod(2024, time.December)
	assert.Equal(t, p, p.Next().Prev())
}

func TestPeriodMonths(t *testing.T) {
	assert.Equal(t, 1, MonthPeriod(2024, time.June).Months())
	assert.Equal(t, 12, YearPeriod(2024).Months())
}
