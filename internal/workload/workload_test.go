package workload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratorDeterministic(t *testing.T) {
	for _, dist := range []Distribution{Uniform, Zipf} {
		a := New(dist, 1000, 7).Batch(500)
		b := New(dist, 1000, 7).Batch(500)
		require.Equal(t, a, b, dist.String())
		for _, k := range a {
			require.True(t, k >= 0 && k < 1000)
		}
	}
}

func TestZipfSkew(t *testing.T) {
	keys := New(Zipf, 10000, 1).Batch(20000)
	counts := map[int64]int{}
	for _, k := range keys {
		counts[k]++
	}
	require.Greater(t, counts[0], counts[5000])
	require.Less(t, len(counts), 10000)
}

func TestParseDistribution(t *testing.T) {
	d, err := ParseDistribution("zipf")
	require.Nil(t, err)
	require.Equal(t, Zipf, d)
	_, err = ParseDistribution("pareto")
	require.NotNil(t, err)
}
