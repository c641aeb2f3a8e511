// Package schedule plans how many consultations land on each day of a date
// range and hands dates out one at a time.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format for assigned dates.
const DateLayout = "2006-01-02"

var (
	ErrInvalidRange = errors.New("invalid date range")
	ErrInvalidTotal = errors.New("target total must be at least 1")
)

// DateRange is an inclusive range of calendar days in UTC.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange builds a range from two instants, truncated to their calendar day.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{start: civil(start), end: civil(end)}
	if r.end.Before(r.start) {
		return DateRange{}, fmt.Errorf("%w: end %s is before start %s",
			ErrInvalidRange, r.end.Format(DateLayout), r.start.Format(DateLayout))
	}
	return r, nil
}

// ParseDateRange parses two YYYY-MM-DD dates.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
	}
	return NewDateRange(s, e)
}

// DefaultDateRange covers 2025-08-01 through 2025-09-12.
func DefaultDateRange() DateRange {
	return DateRange{
		start: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(2025, time.September, 12, 0, 0, 0, 0, time.UTC),
	}
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

// TotalDays is end - start + 1.
func (r DateRange) TotalDays() int {
	return int(r.end.Sub(r.start)/(24*time.Hour)) + 1
}

// Day returns the i-th day of the range, counting from zero.
func (r DateRange) Day(i int) time.Time {
	return r.start.AddDate(0, 0, i)
}

func (r DateRange) String() string {
	return r.start.Format(DateLayout) + ".." + r.end.Format(DateLayout)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
