package internal

import (
	"cmp"
	"slices"

	"github.com/google/btree"
	"github.com/tidwall/hashmap"
)

// maskedFreq marks the frequency cell of a slot protected by the batch in
// flight. The minimum scan skips masked cells.
const maskedFreq = ^uint64(0)

type sortedItem struct {
	freq    uint64
	arrival uint64
	slot    int32
}

func lessSortedItem(a, b sortedItem) bool {
	if a.freq != b.freq {
		return a.freq < b.freq
	}
	if a.arrival != b.arrival {
		return a.arrival < b.arrival
	}
	return a.slot < b.slot
}

// batchRun is one distinct key of a batch: how often it was requested and
// where it first and last appeared.
type batchRun struct {
	key         int64
	count       uint64
	first, last int
}

// SortedSetEngine is the O(n log n) engine. It keeps per slot frequency
// cells and an ordered set over them, decides a whole batch against the
// frequencies as they were before the batch, then applies all frequency
// changes in one pass.
type SortedSetEngine struct {
	capacity int
	freq     []uint64
	arrival  []uint64
	owner    []int64
	index    *hashmap.Map[int64, int32]
	order    *btree.BTreeG[sortedItem]
	pool     *SlotPool
	// clock counts requests of all successful batches, arrivals are
	// derived from it.
	clock uint64
}

func NewSortedSetEngine(capacity int) *SortedSetEngine {
	return &SortedSetEngine{
		capacity: capacity,
		freq:     make([]uint64, capacity),
		arrival:  make([]uint64, capacity),
		owner:    make([]int64, capacity),
		index:    hashmap.New[int64, int32](capacity),
		order:    btree.NewG[sortedItem](32, lessSortedItem),
		pool:     NewSlotPool(capacity),
	}
}

// runs deduplicates keys by sorting their positions once.
func runs(keys []int64) []batchRun {
	pos := make([]int, len(keys))
	for i := range pos {
		pos[i] = i
	}
	slices.SortStableFunc(pos, func(a, b int) int {
		return cmp.Compare(keys[a], keys[b])
	})
	out := make([]batchRun, 0, len(keys))
	for _, p := range pos {
		if n := len(out); n > 0 && out[n-1].key == keys[p] {
			out[n-1].count++
			out[n-1].last = p
			continue
		}
		out = append(out, batchRun{key: keys[p], count: 1, first: p, last: p})
	}
	return out
}

func (e *SortedSetEngine) ProcessBatch(keys []int64) (*Plan, error) {
	unique := runs(keys)
	if len(unique) > e.capacity {
		return nil, capacityExceededError(len(unique), e.capacity)
	}

	// mask wanted residents, collect the rest for admission
	var masked []int32
	var backup []uint64
	var admits []batchRun
	for _, r := range unique {
		if slot, ok := e.index.Get(r.key); ok {
			masked = append(masked, slot)
			backup = append(backup, e.freq[slot])
			e.freq[slot] = maskedFreq
		} else {
			admits = append(admits, r)
		}
	}
	slices.SortFunc(admits, func(a, b batchRun) int {
		return cmp.Compare(a.first, b.first)
	})

	victims := e.victims(len(admits) - e.pool.Len())
	plan := newPlan(len(keys))
	for _, r := range admits {
		if e.pool.Len() == 0 {
			if len(victims) == 0 {
				violation("no unprotected entry left to evict, %d resident, %d masked", e.order.Len(), len(masked))
			}
			slot := victims[0]
			victims = victims[1:]
			plan.evict(e.evict(slot), slot)
		}
		plan.admit(r.key, e.admit(r.key))
	}

	for i, slot := range masked {
		e.freq[slot] = backup[i]
	}
	for _, r := range unique {
		slot, _ := e.index.Get(r.key)
		e.reposition(slot, r.count, e.clock+uint64(r.last))
	}
	e.clock += uint64(len(keys))

	for _, key := range keys {
		slot, _ := e.index.Get(key)
		plan.ResolvedSlots = append(plan.ResolvedSlots, slot)
	}
	return plan, nil
}

// victims returns the n lowest unmasked slots in eviction order.
func (e *SortedSetEngine) victims(n int) []int32 {
	if n <= 0 {
		return nil
	}
	out := make([]int32, 0, n)
	e.order.Ascend(func(it sortedItem) bool {
		if e.freq[it.slot] != maskedFreq {
			out = append(out, it.slot)
		}
		return len(out) < n
	})
	return out
}

func (e *SortedSetEngine) evict(slot int32) int64 {
	key := e.owner[slot]
	e.order.Delete(sortedItem{freq: e.freq[slot], arrival: e.arrival[slot], slot: slot})
	e.freq[slot] = 0
	e.arrival[slot] = 0
	e.index.Delete(key)
	e.pool.Release(slot)
	return key
}

// admit binds key to a free slot. The slot joins the ordered set once the
// batch frequencies are applied.
func (e *SortedSetEngine) admit(key int64) int32 {
	slot, ok := e.pool.Draw()
	if !ok {
		violation("no free slot to admit key %d", key)
	}
	e.owner[slot] = key
	e.freq[slot] = 0
	e.index.Set(key, slot)
	return slot
}

func (e *SortedSetEngine) reposition(slot int32, count, arrival uint64) {
	if e.freq[slot] != 0 {
		e.order.Delete(sortedItem{freq: e.freq[slot], arrival: e.arrival[slot], slot: slot})
	}
	e.freq[slot] += count
	e.arrival[slot] = arrival
	e.order.ReplaceOrInsert(sortedItem{freq: e.freq[slot], arrival: arrival, slot: slot})
}

func (e *SortedSetEngine) Reset() {
	clear(e.freq)
	clear(e.arrival)
	clear(e.owner)
	e.index = hashmap.New[int64, int32](e.capacity)
	e.order.Clear(false)
	e.pool.Reset()
	e.clock = 0
}

func (e *SortedSetEngine) Capacity() int {
	return e.capacity
}

func (e *SortedSetEngine) Len() int {
	return e.index.Len()
}

func (e *SortedSetEngine) Free() int {
	return e.pool.Len()
}

func (e *SortedSetEngine) Lookup(key int64) (int32, bool) {
	return e.index.Get(key)
}

func (e *SortedSetEngine) Frequency(key int64) (uint64, bool) {
	slot, ok := e.index.Get(key)
	if !ok {
		return 0, false
	}
	return e.freq[slot], true
}

func (e *SortedSetEngine) Keys() []int64 {
	keys := make([]int64, 0, e.order.Len())
	e.order.Ascend(func(it sortedItem) bool {
		keys = append(keys, e.owner[it.slot])
		return true
	})
	return keys
}
