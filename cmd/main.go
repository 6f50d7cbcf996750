package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/dgraph-io/ristretto"

	hitlfu "github.com/CsRic/Hit-Aware-LFU-Cache"
	"github.com/CsRic/Hit-Aware-LFU-Cache/internal/workload"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

var (
	engineName = flag.String("engine", "bucketlist", "index engine, bucketlist or sortedset")
	capacity   = flag.Int("capacity", 16384, "number of cache slots")
	keyRange   = flag.Uint64("range", 0, "keys are drawn from [0, range), 0 means 10 * capacity")
	batchSize  = flag.Int("batch", 4096, "requests per batch")
	epochs     = flag.Int("epochs", 1000, "number of batches")
	distName   = flag.String("dist", "zipf", "key distribution, uniform or zipf")
	seed       = flag.Int64("seed", 0, "workload seed")
	check      = flag.Bool("check", false, "run both engines in lockstep and compare plans")
	baseline   = flag.Bool("ristretto", false, "replay the workload through ristretto for a hit ratio baseline")
	demo       = flag.Bool("demo", false, "print the plans of a small scripted run and exit")
	verbose    = flag.Bool("v", false, "log every batch")
)

func other(kind hitlfu.EngineKind) hitlfu.EngineKind {
	if kind == hitlfu.BucketList {
		return hitlfu.SortedSet
	}
	return hitlfu.BucketList
}

func printPlan(keys []int64, plan *hitlfu.Plan) {
	fmt.Println("keys          ", keys)
	fmt.Println("resolved slots", plan.ResolvedSlots)
	fmt.Println("admitted keys ", plan.AdmittedKeys)
	fmt.Println("admitted slots", plan.AdmittedSlots)
	fmt.Println("evicted slots ", plan.EvictedSlots)
	fmt.Println("evicted keys  ", plan.EvictedKeys)
	fmt.Println()
}

func runDemo(kind hitlfu.EngineKind, logger *slog.Logger) {
	manager, err := hitlfu.NewBuilder(4).Engine(kind).Logger(logger).Build()
	if err != nil {
		log.Fatal(err)
	}
	batches := [][]int64{
		{0, 1, 2, 3, 3, 3, 3, 2, 2, 3, 2, 1, 1, 0},
		{4, 5, 1, 1},
		{4, 4, 4, 4, 4, 4, 0},
		{8, 9, 10},
		{11, 12, 13, 12, 11, 12, 13, 12, 11},
		{20, 21, 22, 23, 24},
	}
	for _, keys := range batches {
		plan, err := manager.ProcessBatch(keys)
		if err != nil {
			fmt.Println("keys          ", keys)
			fmt.Println("rejected:", err)
			continue
		}
		printPlan(keys, plan)
	}
}

// run drives the manager with the configured workload and reports its
// throughput. With check set a second manager on the other engine must
// produce the same plan for every batch.
func run(kind hitlfu.EngineKind, dist workload.Distribution, logger *slog.Logger) error {
	manager, err := hitlfu.NewBuilder(*capacity).Engine(kind).Logger(logger).RecordStats().Build()
	if err != nil {
		return err
	}
	var shadow *hitlfu.Manager
	if *check {
		shadow, err = hitlfu.NewBuilder(*capacity).Engine(other(kind)).Build()
		if err != nil {
			return err
		}
	}

	gen := workload.New(dist, *keyRange, *seed)
	var elapsed time.Duration
	for i := 0; i < *epochs; i++ {
		keys := gen.Batch(*batchSize)
		now := time.Now()
		plan, err := manager.ProcessBatch(keys)
		elapsed += time.Since(now)
		if err != nil && !errors.Is(err, hitlfu.ErrCapacityExceeded) {
			return err
		}
		if shadow == nil {
			continue
		}
		want, werr := shadow.ProcessBatch(keys)
		if (err == nil) != (werr == nil) {
			return fmt.Errorf("batch %d: %s returned %v, %s returned %v", i, kind, err, other(kind), werr)
		}
		if err == nil && plan.Fingerprint() != want.Fingerprint() {
			return fmt.Errorf("batch %d: plans of %s and %s differ", i, kind, other(kind))
		}
	}

	stats := manager.CollectStats()
	fmt.Printf("engine %s, capacity %d, %s keys in [0, %d)\n", kind, *capacity, dist, *keyRange)
	fmt.Printf("batches %d, rejected %d, requests %d\n", stats.Batches, stats.RejectedBatches, stats.Requests)
	fmt.Printf("hit ratio %.4f, admissions %d, evictions %d\n", stats.HitRatio(), stats.Admissions, stats.Evictions)
	if stats.Requests > 0 {
		fmt.Printf("%v total, %.1f ns/request\n", elapsed, float64(elapsed.Nanoseconds())/float64(stats.Requests))
	}
	if *check {
		fmt.Printf("%d batches matched %s\n", *epochs, other(kind))
	}
	return nil
}

// runRistretto replays the same request stream one key at a time.
func runRistretto(dist workload.Distribution) error {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(*capacity) * 10,
		MaxCost:     int64(*capacity),
		BufferItems: 64,
	})
	if err != nil {
		return err
	}
	defer client.Close()
	gen := workload.New(dist, *keyRange, *seed)
	var hits, requests uint64
	for i := 0; i < *epochs; i++ {
		for _, key := range gen.Batch(*batchSize) {
			requests++
			if _, ok := client.Get(key); ok {
				hits++
				continue
			}
			client.Set(key, key, 1)
		}
		client.Wait()
	}
	if requests > 0 {
		fmt.Printf("ristretto hit ratio %.4f\n", float64(hits)/float64(requests))
	}
	return nil
}

func main() {
	flag.Parse()
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	kind, err := hitlfu.ParseEngineKind(*engineName)
	if err != nil {
		log.Fatal(err)
	}
	if *demo {
		runDemo(kind, logger)
		return
	}
	dist, err := workload.ParseDistribution(*distName)
	if err != nil {
		log.Fatal(err)
	}
	if *keyRange == 0 {
		*keyRange = uint64(*capacity) * 10
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := run(kind, dist, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
	if *baseline {
		if err := runRistretto(dist); err != nil {
			logger.Error("ristretto baseline failed", "error", err)
			os.Exit(1)
		}
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal("could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
