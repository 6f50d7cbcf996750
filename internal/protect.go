package internal

import "github.com/RoaringBitmap/roaring/v2"

// protectedSet holds the slots that must not be evicted by the batch in
// flight. It is filled during one call and released when the call returns,
// so protection never leaks into the next batch.
type protectedSet struct {
	slots *roaring.Bitmap
}

func newProtectedSet() protectedSet {
	return protectedSet{slots: roaring.New()}
}

func (p *protectedSet) acquire(slot int32) {
	p.slots.Add(uint32(slot))
}

func (p *protectedSet) has(slot int32) bool {
	return p.slots.Contains(uint32(slot))
}

func (p *protectedSet) len() int {
	return int(p.slots.GetCardinality())
}

func (p *protectedSet) release() {
	p.slots.Clear()
}
