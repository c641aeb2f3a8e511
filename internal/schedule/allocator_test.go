package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestAllocator_ExhaustsAfterTarget(t *testing.T) {
	// Large enough that reconciliation adds to the busiest day.
	const total = 5000
	src := NewSource(11)
	plan, err := NewGenerator(src, nil).Generate(mustRange(t, "2025-08-01", "2025-08-10"), total)
	require.NoError(t, err)
	require.False(t, plan.Underflow())

	alloc := NewAllocator(plan.Quota, NewTimeSampler(src))
	for i := range total {
		_, err := alloc.AssignNext()
		require.NoError(t, err, "assignment %d", i+1)
	}

	_, err = alloc.AssignNext()
	assert.ErrorIs(t, err, ErrAllocationExhausted)
	assert.Equal(t, 0, plan.Quota.Total())
	assert.Empty(t, plan.Quota.Pending())
}

func TestAllocator_SkipsExhaustedEarlierDays(t *testing.T) {
	q := NewQuota([]DayCount{
		{Date: day(t, "2025-08-01"), Count: 0},
		{Date: day(t, "2025-08-02"), Count: 3},
	})
	alloc := NewAllocator(q, NewTimeSampler(NewSource(1)))

	got, err := alloc.AssignNext()
	require.NoError(t, err)
	assert.Equal(t, "2025-08-02", got.DateString())
	assert.Equal(t, 2, q.Remaining(day(t, "2025-08-02")))
}

func TestAllocator_PrefersEarliestDayWithCapacity(t *testing.T) {
	// Given out of order on purpose; the quota orders days ascending.
	q := NewQuota([]DayCount{
		{Date: day(t, "2025-08-03"), Count: 1},
		{Date: day(t, "2025-08-01"), Count: 2},
		{Date: day(t, "2025-08-02"), Count: 0},
	})
	alloc := NewAllocator(q, NewTimeSampler(NewSource(1)))

	var got []string
	for {
		a, err := alloc.AssignNext()
		if err != nil {
			assert.ErrorIs(t, err, ErrAllocationExhausted)
			break
		}
		got = append(got, a.DateString())
	}
	assert.Equal(t, []string{"2025-08-01", "2025-08-01", "2025-08-03"}, got)
}

func TestAllocator_NegativeDayCountsAgainstTotal(t *testing.T) {
	q := NewQuota([]DayCount{
		{Date: day(t, "2025-08-01"), Count: 3},
		{Date: day(t, "2025-08-02"), Count: -1},
	})
	require.Equal(t, 2, q.Total())
	alloc := NewAllocator(q, NewTimeSampler(NewSource(1)))

	for range 2 {
		a, err := alloc.AssignNext()
		require.NoError(t, err)
		assert.Equal(t, "2025-08-01", a.DateString())
	}
	_, err := alloc.AssignNext()
	assert.ErrorIs(t, err, ErrAllocationExhausted)
	assert.Equal(t, 1, q.Remaining(day(t, "2025-08-01")))
	assert.Equal(t, -1, q.Remaining(day(t, "2025-08-02")))
}

func TestAllocator_TwoDayScenario(t *testing.T) {
	src := NewSource(2025)
	r := mustRange(t, "2025-08-01", "2025-08-02")
	plan, err := NewGenerator(src, nil).Generate(r, 5)
	require.NoError(t, err)

	days := plan.Quota.Days()
	require.Len(t, days, 2)
	assert.Equal(t, "2025-08-01", days[0].Day)
	assert.Equal(t, "2025-08-02", days[1].Day)
	assert.Equal(t, 5, days[0].Count+days[1].Count)

	alloc := NewAllocator(plan.Quota, NewTimeSampler(src))
	var prev time.Time
	for range 5 {
		a, err := alloc.AssignNext()
		require.NoError(t, err)
		assert.False(t, a.Date.Before(prev), "dates must not decrease")
		assert.Contains(t, timeSet(), a.Time)
		prev = a.Date
	}
	_, err = alloc.AssignNext()
	assert.ErrorIs(t, err, ErrAllocationExhausted)
	assert.Equal(t, 0, plan.Quota.Total())
}

func TestAllocator_TwoDayScenarioWithoutUnderflow(t *testing.T) {
	q := NewQuota([]DayCount{
		{Date: day(t, "2025-08-01"), Count: 2},
		{Date: day(t, "2025-08-02"), Count: 3},
	})
	alloc := NewAllocator(q, NewTimeSampler(NewSource(5)))

	var dates []string
	for range 5 {
		a, err := alloc.AssignNext()
		require.NoError(t, err)
		dates = append(dates, a.DateString())
	}
	assert.Equal(t, []string{"2025-08-01", "2025-08-01", "2025-08-02", "2025-08-02", "2025-08-02"}, dates)

	_, err := alloc.AssignNext()
	assert.ErrorIs(t, err, ErrAllocationExhausted)
}

func TestAllocator_ConcurrentCallersNeverDoubleAllocate(t *testing.T) {
	const total = 10000
	src := NewSource(99)
	plan, err := NewGenerator(src, nil).Generate(mustRange(t, "2025-08-01", "2025-08-20"), total)
	require.NoError(t, err)
	require.False(t, plan.Underflow())
	want := map[string]int{}
	for _, d := range plan.Quota.Days() {
		want[d.Day] = d.Count
	}

	alloc := NewAllocator(plan.Quota, NewTimeSampler(src))
	var (
		mu  sync.Mutex
		got = map[string]int{}
		wg  sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				a, err := alloc.AssignNext()
				if err != nil {
					return
				}
				mu.Lock()
				got[a.DateString()]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, want, got)
}

func TestAllocator_Reproducible(t *testing.T) {
	run := func() []Assignment {
		src := NewSource(31)
		plan, err := NewGenerator(src, nil).Generate(DefaultDateRange(), 300)
		require.NoError(t, err)
		alloc := NewAllocator(plan.Quota, NewTimeSampler(src))
		var out []Assignment
		for range 50 {
			a, err := alloc.AssignNext()
			require.NoError(t, err)
			out = append(out, a)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func timeSet() []string {
	out := make([]string, len(TimeWeights))
	for i, tw := range TimeWeights {
		out[i] = tw.Time
	}
	return out
}
