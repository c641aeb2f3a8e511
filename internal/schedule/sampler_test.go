package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeWeights_Shape(t *testing.T) {
	require.Len(t, TimeWeights, 19)
	assert.Equal(t, "09:00", TimeWeights[0].Time)
	assert.Equal(t, "18:00", TimeWeights[len(TimeWeights)-1].Time)

	weight := map[string]float64{}
	for _, tw := range TimeWeights {
		weight[tw.Time] = tw.Weight
	}
	assert.Greater(t, weight["12:00"], weight["09:00"])
	assert.Greater(t, weight["12:00"], weight["13:30"])
	assert.Greater(t, weight["17:00"], weight["12:00"])
	assert.Greater(t, weight["17:00"], weight["18:00"])
}

func TestTimeSampler_StaysInTable(t *testing.T) {
	s := NewTimeSampler(NewSource(17))
	valid := map[string]bool{}
	for _, tw := range TimeWeights {
		valid[tw.Time] = true
	}

	counts := map[string]int{}
	for range 50000 {
		v := s.Sample()
		require.True(t, valid[v], "unexpected time %q", v)
		counts[v]++
	}

	// 17:00 carries 1.9/26.4 of the mass, 09:00 only 0.8/26.4.
	assert.Greater(t, counts["17:00"], counts["09:00"]*3/2)
	assert.Greater(t, counts["16:30"], counts["13:30"])
	assert.Len(t, counts, len(TimeWeights))
}
