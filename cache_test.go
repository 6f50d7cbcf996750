package hitlfu_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	hitlfu "github.com/CsRic/Hit-Aware-LFU-Cache"
)

func newManager(t *testing.T, kind hitlfu.EngineKind, capacity int) *hitlfu.Manager {
	manager, err := hitlfu.NewBuilder(capacity).Engine(kind).RecordStats().Build()
	require.Nil(t, err)
	return manager
}

var kinds = []hitlfu.EngineKind{hitlfu.BucketList, hitlfu.SortedSet}

func TestManager_FillAndEvict(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			manager := newManager(t, kind, 4)
			plan, err := manager.ProcessBatch([]int64{0, 1, 2, 3, 3, 3, 3, 2, 2, 3, 2, 1, 1, 0})
			require.Nil(t, err)
			require.Equal(t, []int32{0, 1, 2, 3}, plan.AdmittedSlots)
			require.Empty(t, plan.EvictedSlots)
			require.Equal(t, 4, manager.Len())

			plan, err = manager.ProcessBatch([]int64{4, 5, 1, 1})
			require.Nil(t, err)
			require.Equal(t, []int32{0, 2, 1, 1}, plan.ResolvedSlots)
			require.Equal(t, []int64{4, 5}, plan.AdmittedKeys)
			require.Equal(t, []int32{0, 2}, plan.AdmittedSlots)
			require.Equal(t, []int32{0, 2}, plan.EvictedSlots)
			require.Equal(t, []int64{0, 2}, plan.EvictedKeys)
			require.Equal(t, []int64{4, 5, 3, 1}, manager.Keys())

			_, ok := manager.Lookup(0)
			require.False(t, ok)
			slot, ok := manager.Lookup(4)
			require.True(t, ok)
			require.Equal(t, int32(0), slot)
			f, ok := manager.Frequency(1)
			require.True(t, ok)
			require.Equal(t, uint64(5), f)
		})
	}
}

func TestManager_Rejected(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			manager := newManager(t, kind, 4)
			_, err := manager.ProcessBatch([]int64{1, 2, 3})
			require.Nil(t, err)

			plan, err := manager.ProcessBatch([]int64{8, 9, 10, 11, 12})
			require.ErrorIs(t, err, hitlfu.ErrCapacityExceeded)
			require.Nil(t, plan)
			require.Equal(t, []int64{1, 2, 3}, manager.Keys())

			stats := manager.CollectStats()
			require.Equal(t, uint64(1), stats.Batches)
			require.Equal(t, uint64(1), stats.RejectedBatches)
			require.Equal(t, uint64(3), stats.Requests)
		})
	}
}

func TestManager_PlanIsExecutable(t *testing.T) {
	// replay plans against a slot array the way a caller moves data, every
	// resolved slot must then hold the requested key
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			const capacity = 8
			manager := newManager(t, kind, capacity)
			slots := make([]int64, capacity)
			backing := map[int64]bool{}
			batches := [][]int64{
				{1, 2, 3, 4, 5, 6, 7, 8},
				{1, 1, 2, 9, 10},
				{11, 12, 13, 1, 2},
				{20, 21, 22, 23, 24, 25, 26, 27},
				{1, 20, 30, 30, 30},
			}
			for _, keys := range batches {
				plan, err := manager.ProcessBatch(keys)
				require.Nil(t, err)
				require.Nil(t, plan.Validate(len(keys)))
				for i, slot := range plan.EvictedSlots {
					require.Equal(t, plan.EvictedKeys[i], slots[slot])
					backing[slots[slot]] = true
				}
				for i, slot := range plan.AdmittedSlots {
					slots[slot] = plan.AdmittedKeys[i]
				}
				for i, key := range keys {
					require.Equal(t, key, slots[plan.ResolvedSlots[i]])
				}
			}
			require.NotEmpty(t, backing)
		})
	}
}

func TestManager_Reset(t *testing.T) {
	manager := newManager(t, hitlfu.BucketList, 3)
	_, err := manager.ProcessBatch([]int64{1, 2, 3})
	require.Nil(t, err)
	manager.Reset()
	require.Equal(t, 0, manager.Len())
	require.Empty(t, manager.Keys())
	require.Equal(t, hitlfu.Stats{}, manager.CollectStats())

	plan, err := manager.ProcessBatch([]int64{7})
	require.Nil(t, err)
	require.Equal(t, []int32{0}, plan.AdmittedSlots)
}

func TestManager_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	manager, err := hitlfu.NewBuilder(2).Logger(logger).Build()
	require.Nil(t, err)

	_, err = manager.ProcessBatch([]int64{1, 2, 2})
	require.Nil(t, err)
	require.True(t, strings.Contains(buf.String(), "batch processed"))
	require.True(t, strings.Contains(buf.String(), "admitted=2"))

	buf.Reset()
	_, err = manager.ProcessBatch([]int64{1, 2, 3})
	require.ErrorIs(t, err, hitlfu.ErrCapacityExceeded)
	require.True(t, strings.Contains(buf.String(), "level=WARN"))
	require.True(t, strings.Contains(buf.String(), "batch rejected"))
}

func TestManager_SilentByDefault(t *testing.T) {
	manager, err := hitlfu.New(1)
	require.Nil(t, err)
	_, err = manager.ProcessBatch([]int64{1, 2})
	require.ErrorIs(t, err, hitlfu.ErrCapacityExceeded)
	require.Equal(t, hitlfu.Stats{}, manager.CollectStats())
}
