package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := ParseDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestBaseCount_Breakpoints(t *testing.T) {
	tests := map[string]struct {
		i, days int
		want    int
	}{
		"first day":            {0, 43, 100},
		"end of early phase":   {12, 43, 127},
		"start of middle":      {13, 43, 130},
		"end of middle phase":  {30, 43, 189},
		"start of late phase":  {31, 43, 192},
		"last day":             {42, 43, 220},
		"single day":           {0, 1, 100},
		"second of two days":   {1, 2, 160},
		"middle of ten days":   {5, 10, 160},
		"late phase ten days":  {9, 10, 212},
		"exact late threshold": {7, 10, 190},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, BaseCount(tc.i, tc.days))
		})
	}
}

func TestGenerate_SumsToTarget(t *testing.T) {
	ranges := []DateRange{
		DefaultDateRange(),
		mustRange(t, "2025-08-01", "2025-08-01"),
		mustRange(t, "2025-08-01", "2025-08-02"),
		mustRange(t, "2024-12-20", "2025-01-15"),
	}
	totals := []int{1, 5, 100, 7267, 20000}

	for seed := uint64(1); seed <= 5; seed++ {
		for _, r := range ranges {
			for _, total := range totals {
				plan, err := NewGenerator(NewSource(seed), nil).Generate(r, total)
				require.NoError(t, err)
				assert.Equal(t, total, plan.Quota.Total(), "range %s total %d seed %d", r, total, seed)
				assert.Equal(t, r.TotalDays(), plan.Quota.Len())
			}
		}
	}
}

func TestGenerate_PreReconciliationCountsArePositive(t *testing.T) {
	r := DefaultDateRange()
	for seed := uint64(1); seed <= 20; seed++ {
		plan, err := NewGenerator(NewSource(seed), nil).Generate(r, 7267)
		require.NoError(t, err)
		require.Len(t, plan.Generated, r.TotalDays())
		for i, n := range plan.Generated {
			assert.GreaterOrEqual(t, n, 1)
			base := BaseCount(i, r.TotalDays())
			assert.GreaterOrEqual(t, n, int(float64(base)*jitterMin)-1)
			assert.LessOrEqual(t, n, int(float64(base)*jitterMax))
		}
	}
}

func TestGenerate_ReconcilesOnBusiestDay(t *testing.T) {
	r := DefaultDateRange()
	plan, err := NewGenerator(NewSource(42), nil).Generate(r, 7267)
	require.NoError(t, err)

	busiest := 0
	for i, n := range plan.Generated {
		if n > plan.Generated[busiest] {
			busiest = i
		}
	}
	assert.Equal(t, r.Day(busiest), plan.Adjusted)

	days := plan.Quota.Days()
	for i, d := range days {
		if i == busiest {
			assert.Equal(t, plan.Generated[i]+plan.Delta, d.Count)
			continue
		}
		assert.Equal(t, plan.Generated[i], d.Count, "day %s", d.Day)
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	r := DefaultDateRange()
	a, err := NewGenerator(NewSource(7), nil).Generate(r, 5000)
	require.NoError(t, err)
	b, err := NewGenerator(NewSource(7), nil).Generate(r, 5000)
	require.NoError(t, err)
	assert.Equal(t, a.Quota.Days(), b.Quota.Days())

	c, err := NewGenerator(NewSource(8), nil).Generate(r, 5000)
	require.NoError(t, err)
	assert.NotEqual(t, a.Generated, c.Generated)
}

func TestGenerate_UnderflowIsFlaggedNotClamped(t *testing.T) {
	r := DefaultDateRange()
	plan, err := NewGenerator(NewSource(3), nil).Generate(r, 1)
	require.NoError(t, err)

	assert.True(t, plan.Underflow())
	assert.Less(t, plan.Quota.Remaining(plan.Adjusted), 0)
	assert.Equal(t, 1, plan.Quota.Total())
}

func TestGenerate_InvalidInput(t *testing.T) {
	g := NewGenerator(NewSource(1), nil)

	_, err := g.Generate(DefaultDateRange(), 0)
	assert.ErrorIs(t, err, ErrInvalidTotal)

	inverted := DateRange{
		start: time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
		end:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err = g.Generate(inverted, 10)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2025-08-01", "2025-09-12")
	require.NoError(t, err)
	assert.Equal(t, 43, r.TotalDays())
	assert.Equal(t, DefaultDateRange(), r)

	_, err = ParseDateRange("2025-08-02", "2025-08-01")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ParseDateRange("08/01/2025", "2025-08-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDateRange_CrossesDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	r, err := NewDateRange(
		time.Date(2025, 3, 8, 23, 0, 0, 0, loc),
		time.Date(2025, 3, 10, 1, 0, 0, 0, loc),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, r.TotalDays())
	assert.Equal(t, "2025-03-09", r.Day(1).Format(DateLayout))
}
