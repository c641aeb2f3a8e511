package schedule

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/christopherklint97/vocseed/internal/metrics"
)

const (
	jitterMin = 0.8
	jitterMax = 1.2
)

// BaseCount is the trend value for day i of totalDays before jitter:
// 100→130 over the first 30% of the range, 130→190 over the next 40%,
// then 190 upward at a slower slope.
func BaseCount(i, totalDays int) int {
	progress := float64(i) / float64(totalDays)
	switch {
	case progress < 0.3:
		return 100 + int(progress*100)
	case progress < 0.7:
		return 130 + int((progress-0.3)*150)
	default:
		return 190 + int((progress-0.7)*110)
	}
}

// Plan is the result of one quota generation.
type Plan struct {
	Range  DateRange
	Target int
	// Generated holds the jittered per-day counts before reconciliation.
	Generated []int
	// Adjusted is the day that absorbed the reconciliation delta.
	Adjusted time.Time
	Delta    int
	Quota    *Quota
}

// Underflow reports whether reconciliation left the adjusted day negative.
func (p *Plan) Underflow() bool {
	return p.Delta != 0 && p.Quota.Remaining(p.Adjusted) < 0
}

// Generator produces daily quotas along the three-phase growth curve.
type Generator struct {
	jitter distuv.Uniform
	logger *slog.Logger
}

// NewGenerator returns a generator drawing jitter from src.
func NewGenerator(src rand.Source, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{
		jitter: distuv.Uniform{Min: jitterMin, Max: jitterMax, Src: src},
		logger: logger,
	}
}

// Generate allocates total across every day of r. The returned quota always
// sums to total exactly. If the jittered counts overshoot by more than the
// busiest day holds, that day goes negative; this is logged and counted, not
// clamped. The quota still hands out exactly total units.
func (g *Generator) Generate(r DateRange, total int) (*Plan, error) {
	days := r.TotalDays()
	if days <= 0 {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidRange, days)
	}
	if total < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTotal, total)
	}

	generated := make([]int, days)
	counts := make([]DayCount, days)
	allocated := 0
	maxIdx := 0
	for i := range days {
		n := max(1, int(float64(BaseCount(i, days))*g.jitter.Rand()))
		generated[i] = n
		date := r.Day(i)
		counts[i] = DayCount{Date: date, Day: date.Format(DateLayout), Count: n}
		allocated += n
		if n > counts[maxIdx].Count {
			maxIdx = i
		}
	}

	plan := &Plan{
		Range:     r,
		Target:    total,
		Generated: generated,
		Adjusted:  counts[maxIdx].Date,
		Delta:     total - allocated,
	}
	counts[maxIdx].Count += plan.Delta
	plan.Quota = newQuota(counts)

	metrics.QuotaPlannedTotal.Set(float64(total))
	metrics.QuotaDays.Set(float64(days))

	g.logger.Debug("quota generated",
		"range", r.String(), "target", total, "allocated", allocated,
		"adjusted", counts[maxIdx].Day, "delta", plan.Delta)

	if counts[maxIdx].Count < 0 {
		metrics.QuotaUnderflowTotal.Inc()
		g.logger.Warn("reconciliation drove day negative",
			"date", counts[maxIdx].Day, "count", counts[maxIdx].Count,
			"target", total, "allocated", allocated)
	}

	return plan, nil
}
