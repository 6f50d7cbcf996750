package hitlfu

import (
	"io"
	"log/slog"

	"github.com/CsRic/Hit-Aware-LFU-Cache/internal"
	"github.com/CsRic/Hit-Aware-LFU-Cache/internal/stats"
)

type (
	Plan       = internal.Plan
	EngineKind = internal.EngineKind
)

const (
	BucketList = internal.BucketList
	SortedSet  = internal.SortedSet
)

var (
	ErrInvalidCapacity    = internal.ErrInvalidCapacity
	ErrCapacityExceeded   = internal.ErrCapacityExceeded
	ErrInvariantViolation = internal.ErrInvariantViolation
	ErrInvalidPlan        = internal.ErrInvalidPlan
)

// ParseEngineKind maps "bucketlist" and "sortedset" to their engine.
func ParseEngineKind(s string) (EngineKind, error) {
	return internal.ParseEngineKind(s)
}

// Manager maps batches of CPU side keys onto cache slots.
// Concurrent access must be guarded by the caller, see ShardedManager.
type Manager struct {
	engine internal.Engine
	stats  *stats.CacheStatsInternal
	logger *slog.Logger
}

// New creates a Manager with the bucket list engine.
func New(capacity int) (*Manager, error) {
	return NewBuilder(capacity).Build()
}

func newManager(engine internal.Engine, logger *slog.Logger, record bool) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Manager{engine: engine, logger: logger}
	if record {
		m.stats = stats.NewStats()
	}
	return m
}

// ProcessBatch resolves keys to slots in one step and returns the plan the
// caller must execute: copy every evicted slot out to its key, then copy
// every admitted key into its slot. After that ResolvedSlots is where each
// requested key can be read.
//
// If keys holds more distinct values than the cache has slots the call
// fails with ErrCapacityExceeded and nothing changes.
func (m *Manager) ProcessBatch(keys []int64) (*Plan, error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("cache index corrupted", "keys", len(keys), "error", r)
			panic(r)
		}
	}()

	plan, err := m.engine.ProcessBatch(keys)
	if err != nil {
		m.stats.Add(stats.NumRejectedBatches, 1)
		m.logger.Warn("batch rejected", "keys", len(keys), "capacity", m.engine.Capacity(), "error", err)
		return nil, err
	}
	m.stats.Add(stats.NumBatches, 1)
	m.stats.Add(stats.NumRequests, uint64(len(keys)))
	m.stats.Add(stats.NumHits, uint64(len(keys)-len(plan.AdmittedKeys)))
	m.stats.Add(stats.NumAdmissions, uint64(len(plan.AdmittedKeys)))
	m.stats.Add(stats.NumEvictions, uint64(len(plan.EvictedKeys)))
	m.logger.Debug("batch processed",
		"keys", len(keys),
		"admitted", len(plan.AdmittedKeys),
		"evicted", len(plan.EvictedKeys),
		"resident", m.engine.Len(),
	)
	return plan, nil
}

// Reset drops every resident key, all slots become free.
func (m *Manager) Reset() {
	m.engine.Reset()
	m.stats.Reset()
}

// Len returns the number of resident keys.
func (m *Manager) Len() int {
	return m.engine.Len()
}

func (m *Manager) Capacity() int {
	return m.engine.Capacity()
}

// Lookup returns the slot of a resident key. It does not count as a request.
func (m *Manager) Lookup(key int64) (int32, bool) {
	return m.engine.Lookup(key)
}

// Frequency returns how often a resident key has been requested since it
// was admitted.
func (m *Manager) Frequency(key int64) (uint64, bool) {
	return m.engine.Frequency(key)
}

// Keys returns the resident keys, next eviction candidate first.
func (m *Manager) Keys() []int64 {
	return m.engine.Keys()
}

// CollectStats returns the counters recorded so far. Without
// Builder.RecordStats all counters are zero.
func (m *Manager) CollectStats() Stats {
	return newStats(m.stats)
}
