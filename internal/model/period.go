package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned when a month or year is out of range.
var ErrInvalidPeriod = errors.New("invalid period")

// Period is a calendar month. Start is inclusive and End is exclusive.
type Period struct {
	Start time.Time
	End   time.Time
	Month int
	Year  int
}

// MonthPeriod returns the period covering the given month in UTC.
func MonthPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidPeriod, month)
	}
	if year < 1000 || year > 9999 {
		return Period{}, fmt.Errorf("%w: year %d is not a four-digit year", ErrInvalidPeriod, year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Month: month,
		Year:  year,
	}, nil
}

// PeriodContaining returns the month period that contains t.
func PeriodContaining(t time.Time) Period {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Month: int(t.Month()),
		Year:  t.Year(),
	}
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	return PeriodContaining(p.Start.AddDate(0, -1, 0))
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
