package schedule

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/christopherklint97/vocseed/internal/metrics"
)

// ErrAllocationExhausted means no day has quota left. It marks the normal end
// of a schedule; callers should stop asking rather than retry.
var ErrAllocationExhausted = errors.New("allocation exhausted")

// Assignment is the date and time handed to one record file.
type Assignment struct {
	Date time.Time
	Time string
}

// DateString formats the assigned date as YYYY-MM-DD.
func (a Assignment) DateString() string {
	return a.Date.Format(DateLayout)
}

// Allocator hands out one date per call from a shared Quota. It is safe for
// concurrent use: the scan and decrement happen under the quota's lock, so
// two callers never receive the same unit.
type Allocator struct {
	quota   *Quota
	sampler *TimeSampler
}

// NewAllocator wraps quota. The quota is consumed in place, not copied.
func NewAllocator(quota *Quota, sampler *TimeSampler) *Allocator {
	return &Allocator{quota: quota, sampler: sampler}
}

// AssignNext takes one unit from the earliest day with a positive count and
// pairs it with a sampled time.
func (a *Allocator) AssignNext() (Assignment, error) {
	date, ok := a.quota.takeEarliest()
	if !ok {
		metrics.AllocationExhaustedTotal.Inc()
		return Assignment{}, ErrAllocationExhausted
	}
	metrics.AssignmentsTotal.Inc()
	return Assignment{Date: date, Time: a.sampler.Sample()}, nil
}

// Quota returns the quota being consumed.
func (a *Allocator) Quota() *Quota {
	return a.quota
}

// NewSource returns a PCG source for seed. A zero seed draws one from the clock.
func NewSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}
