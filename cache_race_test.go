package hitlfu_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	hitlfu "github.com/CsRic/Hit-Aware-LFU-Cache"
	"github.com/CsRic/Hit-Aware-LFU-Cache/internal/workload"
)

func processParallel(t *testing.T, kind hitlfu.EngineKind) {
	for _, size := range []int{64, 512, 4096} {
		sharded, err := hitlfu.NewBuilder(size).Engine(kind).Shards(8).RecordStats().BuildSharded()
		require.Nil(t, err)

		var wg sync.WaitGroup
		var mu sync.Mutex
		total := 0
		for i := 1; i <= 16; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				gen := workload.New(workload.Zipf, uint64(size*10), int64(i))
				for j := 0; j < 200; j++ {
					keys := gen.Batch(gen.Intn(size/4) + 1)
					plan, err := sharded.ProcessBatch(context.Background(), keys)
					if err != nil {
						if !errors.Is(err, hitlfu.ErrCapacityExceeded) {
							panic(err)
						}
					} else if plan.Validate(len(keys)) != nil {
						panic(plan.Validate(len(keys)))
					}
					mu.Lock()
					total++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		stats := sharded.CollectStats()
		require.Equal(t, uint64(total), stats.Batches+stats.RejectedBatches)
		require.True(t, sharded.Len() <= size)
		require.Equal(t, stats.Admissions-stats.Evictions, uint64(sharded.Len()))
	}
}

func TestSharded_ProcessParallel(t *testing.T) {
	processParallel(t, hitlfu.BucketList)
}

func TestSharded_ProcessParallelSortedSet(t *testing.T) {
	processParallel(t, hitlfu.SortedSet)
}
