package internal

// SlotPool is the free list of cache slots owned by one engine.
// Slots are handed out LIFO: a slot released by an eviction is the next
// one drawn, and a fresh pool hands out 0, 1, 2, ... in order.
type SlotPool struct {
	free     []int32
	capacity int
}

func NewSlotPool(capacity int) *SlotPool {
	p := &SlotPool{capacity: capacity, free: make([]int32, 0, capacity)}
	p.Reset()
	return p
}

// Reset marks every slot free again.
func (p *SlotPool) Reset() {
	p.free = p.free[:0]
	for i := p.capacity - 1; i >= 0; i-- {
		p.free = append(p.free, int32(i))
	}
}

// Draw takes the most recently released slot.
func (p *SlotPool) Draw() (int32, bool) {
	n := len(p.free)
	if n == 0 {
		return Nil, false
	}
	slot := p.free[n-1]
	p.free = p.free[:n-1]
	return slot, true
}

func (p *SlotPool) Release(slot int32) {
	p.free = append(p.free, slot)
}

func (p *SlotPool) Len() int {
	return len(p.free)
}
