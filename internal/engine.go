package internal

import "fmt"

type EngineKind uint8

const (
	// BucketList keeps entries in a frequency ordered list with per
	// frequency splice anchors. Every touch, admit and evict is O(1).
	BucketList EngineKind = iota
	// SortedSet keeps entries in an ordered tree and applies a whole
	// batch of frequency updates at once, O(n log n) per batch.
	SortedSet
)

func (k EngineKind) String() string {
	switch k {
	case BucketList:
		return "bucketlist"
	case SortedSet:
		return "sortedset"
	}
	return fmt.Sprintf("EngineKind(%d)", uint8(k))
}

func ParseEngineKind(s string) (EngineKind, error) {
	switch s {
	case "bucketlist":
		return BucketList, nil
	case "sortedset":
		return SortedSet, nil
	}
	return 0, fmt.Errorf("unknown engine %q", s)
}

// Engine maps batches of keys onto a fixed set of cache slots with LFU
// eviction. Implementations are not safe for concurrent use.
//
// Live entries are ordered by (frequency, arrival) where arrival is the
// request that brought the entry to its current frequency. Eviction takes
// the first entry in that order which is not protected by the batch in
// flight, so equal frequencies are evicted first in, first out.
type Engine interface {
	// ProcessBatch resolves keys as one transaction. If more distinct keys
	// are requested than there are slots, it returns ErrCapacityExceeded
	// and leaves the engine untouched.
	ProcessBatch(keys []int64) (*Plan, error)
	// Reset drops every resident key and frees every slot.
	Reset()
	Capacity() int
	// Len is the number of resident keys.
	Len() int
	// Free is the number of unused slots.
	Free() int
	// Lookup returns the slot of a resident key without touching it.
	Lookup(key int64) (int32, bool)
	Frequency(key int64) (uint64, bool)
	// Keys returns resident keys in eviction order.
	Keys() []int64
}

func NewEngine(kind EngineKind, capacity int) (Engine, error) {
	if capacity <= 0 {
		return nil, invalidCapacityError(capacity)
	}
	switch kind {
	case BucketList:
		return NewBucketListEngine(capacity), nil
	case SortedSet:
		return NewSortedSetEngine(capacity), nil
	}
	return nil, fmt.Errorf("unknown engine %s", kind)
}
