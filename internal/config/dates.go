package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/vocseed/internal/schedule"
)

// ParseDate accepts YYYY-MM-DD or a natural expression such as
// "6 weeks ago" or "yesterday", resolved against now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(schedule.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := naturaldate.Parse(s, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	// naturaldate returns now unchanged for input it does not understand.
	if t.Equal(now) && !strings.EqualFold(s, "now") && !strings.EqualFold(s, "today") {
		return time.Time{}, fmt.Errorf("parsing date %q: not a date", s)
	}
	return t, nil
}

// DateRange resolves the configured schedule window.
func (c *Config) DateRange(now time.Time) (schedule.DateRange, error) {
	start, err := ParseDate(c.Schedule.Start, now)
	if err != nil {
		return schedule.DateRange{}, fmt.Errorf("schedule start: %w", err)
	}
	end, err := ParseDate(c.Schedule.End, now)
	if err != nil {
		return schedule.DateRange{}, fmt.Errorf("schedule end: %w", err)
	}
	return schedule.NewDateRange(start, end)
}
