package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortedSet_Runs(t *testing.T) {
	r := runs([]int64{5, 3, 5, 9, 3, 5})
	require.Equal(t, []batchRun{
		{key: 3, count: 2, first: 1, last: 4},
		{key: 5, count: 3, first: 0, last: 5},
		{key: 9, count: 1, first: 3, last: 3},
	}, r)
	require.Empty(t, runs(nil))
}

func TestSortedSet_MasksRestored(t *testing.T) {
	e := NewSortedSetEngine(4)
	for _, step := range scripted {
		_, err := e.ProcessBatch(step.keys)
		require.Nil(t, err)
		require.Equal(t, e.Len(), e.order.Len())
		for _, f := range e.freq {
			require.NotEqual(t, maskedFreq, f)
		}
	}

	// a rejected batch must not leave masks behind either
	_, err := e.ProcessBatch([]int64{4, 11, 12, 13, 14})
	require.ErrorIs(t, err, ErrCapacityExceeded)
	for _, f := range e.freq {
		require.NotEqual(t, maskedFreq, f)
	}
}

func TestSortedSet_Clock(t *testing.T) {
	e := NewSortedSetEngine(2)
	_, err := e.ProcessBatch([]int64{1, 2, 1})
	require.Nil(t, err)
	require.Equal(t, uint64(3), e.clock)

	_, err = e.ProcessBatch([]int64{1, 2, 3})
	require.ErrorIs(t, err, ErrCapacityExceeded)
	require.Equal(t, uint64(3), e.clock)

	// 2 arrived at frequency 1 after nothing else, so it goes first
	plan, err := e.ProcessBatch([]int64{3})
	require.Nil(t, err)
	require.Equal(t, []int64{2}, plan.EvictedKeys)
	require.Equal(t, []int64{3, 1}, e.Keys())
}
