package schedule

import (
	"slices"
	"sync"
	"time"
)

// DayCount pairs a calendar day with a count.
type DayCount struct {
	Date  time.Time `json:"-" yaml:"-"`
	Day   string    `json:"date" yaml:"date"`
	Count int       `json:"count" yaml:"count"`
}

// Quota holds the remaining number of assignments allowed per day, in
// ascending date order. It is mutated only by decrementing on assignment.
//
// total tracks the sum of all counts. A day left negative by reconciliation
// still counts against it, so a quota never hands out more units than it
// was planned for.
type Quota struct {
	mu    sync.Mutex
	days  []DayCount
	total int
}

func newQuota(days []DayCount) *Quota {
	q := &Quota{days: days}
	for _, d := range days {
		q.total += d.Count
	}
	return q
}

// NewQuota builds a quota from per-day counts. Days are ordered ascending;
// duplicate dates keep the last count.
func NewQuota(days []DayCount) *Quota {
	byDay := make(map[string]int, len(days))
	var out []DayCount
	for _, d := range days {
		date := civil(d.Date)
		key := date.Format(DateLayout)
		if i, ok := byDay[key]; ok {
			out[i].Count = d.Count
			continue
		}
		byDay[key] = len(out)
		out = append(out, DayCount{Date: date, Day: key, Count: d.Count})
	}
	slices.SortFunc(out, func(a, b DayCount) int { return a.Date.Compare(b.Date) })
	return newQuota(out)
}

// Len is the number of days in the quota.
func (q *Quota) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.days)
}

// Days returns a snapshot of all days in ascending order.
func (q *Quota) Days() []DayCount {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.days)
}

// Total is the sum of all counts, negative ones included. It is the number
// of assignments still available.
func (q *Quota) Total() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.total
}

// Remaining returns the count left for date, or 0 when the date is not in the quota.
func (q *Quota) Remaining(date time.Time) int {
	key := civil(date).Format(DateLayout)
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, d := range q.days {
		if d.Day == key {
			return d.Count
		}
	}
	return 0
}

// Top returns the n days with the highest counts, earliest first on ties.
func (q *Quota) Top(n int) []DayCount {
	days := q.Days()
	slices.SortStableFunc(days, func(a, b DayCount) int { return b.Count - a.Count })
	if n >= 0 && n < len(days) {
		days = days[:n]
	}
	return days
}

// Pending returns the days that still have a positive count. It is empty
// once Total reaches zero, even if an underflowed plan left a day positive.
func (q *Quota) Pending() []DayCount {
	if q.Total() <= 0 {
		return nil
	}
	var out []DayCount
	for _, d := range q.Days() {
		if d.Count > 0 {
			out = append(out, d)
		}
	}
	return out
}

// takeEarliest decrements the earliest day with a positive count. The scan
// always starts from the first day so under-filled early days drain first.
func (q *Quota) takeEarliest() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.total <= 0 {
		return time.Time{}, false
	}
	for i := range q.days {
		if q.days[i].Count > 0 {
			q.days[i].Count--
			q.total--
			return q.days[i].Date, true
		}
	}
	return time.Time{}, false
}
