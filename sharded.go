package hitlfu

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/tidwall/hashmap"
	"golang.org/x/sync/errgroup"

	"github.com/CsRic/Hit-Aware-LFU-Cache/internal"
	"github.com/CsRic/Hit-Aware-LFU-Cache/internal/stats"
)

type shard struct {
	mu      sync.Mutex
	manager *Manager
	// offset is the first global slot owned by this shard.
	offset int32
}

// ShardedManager splits the slots over independent managers and routes
// every key to one of them by hash. It is safe for concurrent use: a batch
// locks the shards it touches, and batches on disjoint shards run in
// parallel. Slots in plans are global, in [0, capacity).
type ShardedManager struct {
	shards   []*shard
	hasher   *internal.Hasher
	capacity int
	stats    *stats.CacheStatsInternal
	logger   *slog.Logger
}

func newShardedManager(b *Builder) (*ShardedManager, error) {
	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &ShardedManager{
		hasher:   internal.NewHasher(0),
		capacity: b.capacity,
		logger:   logger,
	}
	if b.recordStats {
		s.stats = stats.NewStats()
	}
	size, extra := b.capacity/b.shards, b.capacity%b.shards
	offset := 0
	for i := 0; i < b.shards; i++ {
		n := size
		if i < extra {
			n++
		}
		engine, err := internal.NewEngine(b.engine, n)
		if err != nil {
			return nil, err
		}
		s.shards = append(s.shards, &shard{
			manager: newManager(engine, logger.With("shard", i), false),
			offset:  int32(offset),
		})
		offset += n
	}
	return s, nil
}

func distinct(keys []int64) int {
	seen := hashmap.New[int64, struct{}](len(keys))
	for _, key := range keys {
		seen.Set(key, struct{}{})
	}
	return seen.Len()
}

// ProcessBatch splits keys by shard and resolves every part as one
// transaction. Either all shards apply their part or, when any shard would
// receive more distinct keys than it has slots, none does and
// ErrCapacityExceeded is returned. ctx is only checked before work starts,
// a batch is never abandoned half way.
func (s *ShardedManager) ProcessBatch(ctx context.Context, keys []int64) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(s.shards)
	parts := make([][]int64, n)
	positions := make([][]int, n)
	for i, key := range keys {
		idx := s.hasher.Shard(key, n)
		parts[idx] = append(parts[idx], key)
		positions[idx] = append(positions[idx], i)
	}

	// lock in shard order so concurrent batches cannot deadlock
	for i := range parts {
		if len(parts[i]) == 0 {
			continue
		}
		s.shards[i].mu.Lock()
		defer s.shards[i].mu.Unlock()
	}
	for i, part := range parts {
		if len(part) == 0 {
			continue
		}
		if d, c := distinct(part), s.shards[i].manager.Capacity(); d > c {
			s.stats.Add(stats.NumRejectedBatches, 1)
			err := fmt.Errorf("%w: %d distinct keys routed to shard %d with %d slots", ErrCapacityExceeded, d, i, c)
			s.logger.Warn("batch rejected", "keys", len(keys), "shard", i, "error", err)
			return nil, err
		}
	}

	plans := make([]*Plan, n)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range parts {
		if len(parts[i]) == 0 {
			continue
		}
		i := i
		g.Go(func() error {
			plan, err := s.shards[i].manager.ProcessBatch(parts[i])
			plans[i] = plan
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plan := &Plan{ResolvedSlots: make([]int32, len(keys))}
	for i, p := range plans {
		if p == nil {
			continue
		}
		offset := s.shards[i].offset
		for j, slot := range p.ResolvedSlots {
			plan.ResolvedSlots[positions[i][j]] = slot + offset
		}
		for j, key := range p.AdmittedKeys {
			plan.AdmittedKeys = append(plan.AdmittedKeys, key)
			plan.AdmittedSlots = append(plan.AdmittedSlots, p.AdmittedSlots[j]+offset)
		}
		for j, slot := range p.EvictedSlots {
			plan.EvictedSlots = append(plan.EvictedSlots, slot+offset)
			plan.EvictedKeys = append(plan.EvictedKeys, p.EvictedKeys[j])
		}
	}
	s.stats.Add(stats.NumBatches, 1)
	s.stats.Add(stats.NumRequests, uint64(len(keys)))
	s.stats.Add(stats.NumHits, uint64(len(keys)-len(plan.AdmittedKeys)))
	s.stats.Add(stats.NumAdmissions, uint64(len(plan.AdmittedKeys)))
	s.stats.Add(stats.NumEvictions, uint64(len(plan.EvictedKeys)))
	return plan, nil
}

func (s *ShardedManager) Lookup(key int64) (int32, bool) {
	sh := s.shards[s.hasher.Shard(key, len(s.shards))]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	slot, ok := sh.manager.Lookup(key)
	if !ok {
		return internal.Nil, false
	}
	return slot + sh.offset, true
}

func (s *ShardedManager) Frequency(key int64) (uint64, bool) {
	sh := s.shards[s.hasher.Shard(key, len(s.shards))]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.manager.Frequency(key)
}

func (s *ShardedManager) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		total += sh.manager.Len()
		sh.mu.Unlock()
	}
	return total
}

func (s *ShardedManager) Capacity() int {
	return s.capacity
}

func (s *ShardedManager) Shards() int {
	return len(s.shards)
}

func (s *ShardedManager) Reset() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.manager.Reset()
		sh.mu.Unlock()
	}
	s.stats.Reset()
}

func (s *ShardedManager) CollectStats() Stats {
	return newStats(s.stats)
}
