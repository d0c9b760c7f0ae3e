package model

import (
	"fmt"
	"time"

	"github.com/mkade/saffron/internal/common"
)

// Period is an aggregation window: a calendar month or a calendar year.
// A zero Month means the period spans the whole year.
type Period struct {
	Year  int
	Month time.Month
}

// MonthPeriod returns the period covering a single calendar month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// YearPeriod returns the period covering a whole calendar year.
func YearPeriod(year int) Period {
	return Period{Year: year}
}

// PeriodOf returns the month period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// IsYear reports whether the period spans a whole year.
func (p Period) IsYear() bool {
	return p.Month == 0
}

// Months returns how many months the period spans.
func (p Period) Months() int {
	if p.IsYear() {
		return 12
	}
	return 1
}

// Contains reports whether the date falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if t.Year() != p.Year {
		return false
	}
	return p.IsYear() || t.Month() == p.Month
}

// Next returns the period immediately following this one.
func (p Period) Next() Period {
	if p.IsYear() {
		return Period{Year: p.Year + 1}
	}
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Prev returns the period immediately preceding this one.
func (p Period) Prev() Period {
	if p.IsYear() {
		return Period{Year: p.Year - 1}
	}
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// String renders the period as "2024" or "2024-01".
func (p Period) String() string {
	if p.IsYear() {
		return fmt.Sprintf("%04d", p.Year)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// ParsePeriod parses "2024" as a year period and "2024-01" as a month period.
func ParsePeriod(s string) (Period, error) {
	if t, err := time.Parse("2006-01", s); err == nil {
		return MonthPeriod(t.Year(), t.Month()), nil
	}
	if t, err := time.Parse("2006", s); err == nil {
		return YearPeriod(t.Year()), nil
	}
	return Period{}, fmt.Errorf("%w: period must be YYYY or YYYY-MM, got %q", common.ErrInvalidDate, s)
}
