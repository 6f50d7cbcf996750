package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	_ "net/http/pprof"

	hitlfu "github.com/CsRic/Hit-Aware-LFU-Cache"
	"github.com/CsRic/Hit-Aware-LFU-Cache/internal/workload"
)

// An infinite loop that keeps a sharded manager busy from several
// goroutines, so heap and GC behaviour can be watched through pprof at
// http://localhost:6060/debug/pprof while it runs.

const CACHE_SIZE = 500000

func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()

	manager, err := hitlfu.NewBuilder(CACHE_SIZE).Shards(16).RecordStats().BuildSharded()
	if err != nil {
		panic("manager build failed")
	}

	go func() {
		for range time.Tick(10 * time.Second) {
			stats := manager.CollectStats()
			fmt.Printf("batches %d, rejected %d, hit ratio %.4f, resident %d\n",
				stats.Batches, stats.RejectedBatches, stats.HitRatio(), manager.Len())
		}
	}()

	fmt.Println("==== start ====")
	var wg sync.WaitGroup
	for i := 1; i <= 6; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			gen := workload.New(workload.Zipf, CACHE_SIZE*100, int64(i))
			for {
				keys := gen.Batch(gen.Intn(8192) + 1)
				plan, err := manager.ProcessBatch(context.Background(), keys)
				if err != nil {
					if errors.Is(err, hitlfu.ErrCapacityExceeded) {
						continue
					}
					panic(err)
				}
				if err := plan.Validate(len(keys)); err != nil {
					panic(err)
				}
			}
		}()
	}
	wg.Wait()
}
