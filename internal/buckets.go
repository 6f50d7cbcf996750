package internal

import "github.com/tidwall/hashmap"

// buckets maps every frequency present in a List to the slot of the last
// entry holding it. Equal frequencies are contiguous in the list, so the
// anchor is where the next entry reaching that frequency is spliced in.
//
// An anchor for f exists iff some live entry has frequency f. Transitions:
//   - set: an entry arrives at f and becomes the last of the f block.
//   - leave: an entry stops holding f. If it was the anchor, the anchor is
//     retargeted to its predecessor when that one still holds f, otherwise
//     the bucket is dropped.
type buckets struct {
	anchors *hashmap.Map[uint64, int32]
}

func newBuckets() buckets {
	return buckets{anchors: hashmap.New[uint64, int32](0)}
}

func (b *buckets) reset() {
	b.anchors = hashmap.New[uint64, int32](0)
}

func (b *buckets) anchor(freq uint64) (int32, bool) {
	return b.anchors.Get(freq)
}

func (b *buckets) set(freq uint64, slot int32) {
	b.anchors.Set(freq, slot)
}

// leave must run while slot is still linked at its old position.
func (b *buckets) leave(l *List, slot int32, freq uint64) {
	a, ok := b.anchors.Get(freq)
	if !ok || a != slot {
		return
	}
	if p := l.Prev(slot); p != Nil && l.Entry(p).freq == freq {
		b.anchors.Set(freq, p)
		return
	}
	b.anchors.Delete(freq)
}

func (b *buckets) len() int {
	return b.anchors.Len()
}
