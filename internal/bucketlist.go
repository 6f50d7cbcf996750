package internal

import "github.com/tidwall/hashmap"

// BucketListEngine is the O(1) engine. Entries sit in one list ordered by
// non-decreasing frequency, oldest arrival first inside a frequency, and
// buckets remember the tail of each frequency block.
type BucketListEngine struct {
	capacity int
	list     *List
	index    *hashmap.Map[int64, int32]
	buckets  buckets
	pool     *SlotPool
	guard    protectedSet
	// cursor is the eviction scan position of the call in flight. Every
	// entry before it is protected.
	cursor int32
}

func NewBucketListEngine(capacity int) *BucketListEngine {
	return &BucketListEngine{
		capacity: capacity,
		list:     NewList(capacity),
		index:    hashmap.New[int64, int32](capacity),
		buckets:  newBuckets(),
		pool:     NewSlotPool(capacity),
		guard:    newProtectedSet(),
		cursor:   Nil,
	}
}

func (e *BucketListEngine) ProcessBatch(keys []int64) (*Plan, error) {
	defer e.guard.release()

	// protect residents and count distinct keys before anything changes
	absent := hashmap.New[int64, struct{}](0)
	for _, key := range keys {
		if slot, ok := e.index.Get(key); ok {
			e.guard.acquire(slot)
		} else {
			absent.Set(key, struct{}{})
		}
	}
	if distinct := e.guard.len() + absent.Len(); distinct > e.capacity {
		return nil, capacityExceededError(distinct, e.capacity)
	}

	plan := newPlan(len(keys))
	e.cursor = e.list.Front()
	for _, key := range keys {
		if slot, ok := e.index.Get(key); ok {
			e.touch(slot)
			plan.ResolvedSlots = append(plan.ResolvedSlots, slot)
			continue
		}
		if e.pool.Len() == 0 {
			evictedKey, evictedSlot := e.evict()
			plan.evict(evictedKey, evictedSlot)
		}
		slot := e.admit(key)
		plan.admit(key, slot)
		plan.ResolvedSlots = append(plan.ResolvedSlots, slot)
	}
	return plan, nil
}

// touch bumps the frequency of slot from f to f+1 and relinks it at the
// end of the f+1 block.
func (e *BucketListEngine) touch(slot int32) {
	entry := e.list.Entry(slot)
	f := entry.freq

	at := Nil
	if a, ok := e.buckets.anchor(f + 1); ok {
		// join the existing f+1 block at its end
		at = a
	} else if a, _ := e.buckets.anchor(f); a != slot {
		// open the f+1 block right after the f block
		at = a
	}
	// else slot is last at f with nothing at f+1: already in place

	e.buckets.leave(e.list, slot, f)
	if at != Nil {
		if e.cursor == slot {
			e.cursor = e.list.Next(slot)
		}
		e.list.MoveAfter(slot, at)
	}
	entry.freq = f + 1
	e.buckets.set(f+1, slot)
}

// evict removes the first unprotected entry at or after the cursor.
func (e *BucketListEngine) evict() (int64, int32) {
	for e.cursor != Nil && e.guard.has(e.cursor) {
		e.cursor = e.list.Next(e.cursor)
	}
	if e.cursor == Nil {
		violation("no unprotected entry left to evict, %d resident, %d protected", e.list.Len(), e.guard.len())
	}
	slot := e.cursor
	e.cursor = e.list.Next(slot)

	entry := e.list.Entry(slot)
	key := entry.key
	e.buckets.leave(e.list, slot, entry.freq)
	e.list.Remove(slot)
	entry.reset()
	e.index.Delete(key)
	e.pool.Release(slot)
	return key, slot
}

// admit links key at the end of the frequency 1 block and protects it for
// the rest of the batch.
func (e *BucketListEngine) admit(key int64) int32 {
	slot, ok := e.pool.Draw()
	if !ok {
		violation("no free slot to admit key %d", key)
	}
	entry := e.list.Entry(slot)
	entry.key = key
	entry.freq = 1
	if a, ok := e.buckets.anchor(1); ok {
		e.list.InsertAfter(slot, a)
	} else {
		e.list.PushFront(slot)
	}
	e.buckets.set(1, slot)
	e.index.Set(key, slot)
	e.guard.acquire(slot)
	return slot
}

func (e *BucketListEngine) Reset() {
	e.list.Reset()
	e.index = hashmap.New[int64, int32](e.capacity)
	e.buckets.reset()
	e.pool.Reset()
	e.guard.release()
	e.cursor = Nil
}

func (e *BucketListEngine) Capacity() int {
	return e.capacity
}

func (e *BucketListEngine) Len() int {
	return e.list.Len()
}

func (e *BucketListEngine) Free() int {
	return e.pool.Len()
}

func (e *BucketListEngine) Lookup(key int64) (int32, bool) {
	return e.index.Get(key)
}

func (e *BucketListEngine) Frequency(key int64) (uint64, bool) {
	slot, ok := e.index.Get(key)
	if !ok {
		return 0, false
	}
	return e.list.Entry(slot).freq, true
}

func (e *BucketListEngine) Keys() []int64 {
	keys := make([]int64, 0, e.list.Len())
	for s := e.list.Front(); s != Nil; s = e.list.Next(s) {
		keys = append(keys, e.list.Entry(s).key)
	}
	return keys
}
