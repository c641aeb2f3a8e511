package schedule

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// TimeWeight is one slot of the time-of-day distribution.
type TimeWeight struct {
	Time   string
	Weight float64
}

// TimeWeights covers business hours in 30-minute slots. Volume is lowest at
// opening and closing, peaks around noon and again at 17:00.
var TimeWeights = []TimeWeight{
	{"09:00", 0.8}, {"09:30", 1.0}, {"10:00", 1.2}, {"10:30", 1.3},
	{"11:00", 1.4}, {"11:30", 1.5}, {"12:00", 1.6}, {"12:30", 1.4},
	{"13:00", 1.2}, {"13:30", 1.1}, {"14:00", 1.3}, {"14:30", 1.4},
	{"15:00", 1.5}, {"15:30", 1.6}, {"16:00", 1.7}, {"16:30", 1.8},
	{"17:00", 1.9}, {"17:30", 1.7}, {"18:00", 1.2},
}

// TimeSampler draws consultation times from TimeWeights. Draws are
// independent; the mutex only guards the random source.
type TimeSampler struct {
	mu   sync.Mutex
	dist distuv.Categorical
}

// NewTimeSampler returns a sampler drawing from src.
func NewTimeSampler(src rand.Source) *TimeSampler {
	w := make([]float64, len(TimeWeights))
	for i, tw := range TimeWeights {
		w[i] = tw.Weight
	}
	return &TimeSampler{dist: distuv.NewCategorical(w, src)}
}

// Sample returns one HH:MM time.
func (s *TimeSampler) Sample() string {
	s.mu.Lock()
	idx := int(s.dist.Rand())
	s.mu.Unlock()
	return TimeWeights[idx].Time
}
