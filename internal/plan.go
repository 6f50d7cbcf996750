package internal

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Plan is the outcome of one batch: where every requested key now lives,
// and the admit/evict slot pairs the caller must copy to make it true.
type Plan struct {
	// ResolvedSlots holds the slot of every requested key, in request order.
	ResolvedSlots []int32
	// AdmittedKeys and AdmittedSlots list newly admitted keys in admission
	// order and the slot each one was given.
	AdmittedKeys  []int64
	AdmittedSlots []int32
	// EvictedSlots and EvictedKeys list the slots freed by eviction in
	// eviction order and the key that occupied each one.
	EvictedSlots []int32
	EvictedKeys  []int64
}

func newPlan(n int) *Plan {
	return &Plan{ResolvedSlots: make([]int32, 0, n)}
}

func (p *Plan) admit(key int64, slot int32) {
	p.AdmittedKeys = append(p.AdmittedKeys, key)
	p.AdmittedSlots = append(p.AdmittedSlots, slot)
}

func (p *Plan) evict(key int64, slot int32) {
	p.EvictedSlots = append(p.EvictedSlots, slot)
	p.EvictedKeys = append(p.EvictedKeys, key)
}

// Validate checks the shape of a plan produced for a batch of n keys.
func (p *Plan) Validate(n int) error {
	switch {
	case len(p.ResolvedSlots) != n:
		return fmt.Errorf("%w: %d resolved slots for %d keys", ErrInvalidPlan, len(p.ResolvedSlots), n)
	case len(p.AdmittedKeys) != len(p.AdmittedSlots):
		return fmt.Errorf("%w: %d admitted keys but %d admitted slots", ErrInvalidPlan, len(p.AdmittedKeys), len(p.AdmittedSlots))
	case len(p.EvictedKeys) != len(p.EvictedSlots):
		return fmt.Errorf("%w: %d evicted keys but %d evicted slots", ErrInvalidPlan, len(p.EvictedKeys), len(p.EvictedSlots))
	case len(p.EvictedSlots) > len(p.AdmittedSlots):
		return fmt.Errorf("%w: %d evictions for %d admissions", ErrInvalidPlan, len(p.EvictedSlots), len(p.AdmittedSlots))
	}
	return nil
}

// Fingerprint digests all five sequences. Two plans with the same
// fingerprint describe the same slot resolution and data movement.
func (p *Plan) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	put32 := func(section []int32) {
		put(uint64(len(section)))
		for _, v := range section {
			put(uint64(uint32(v)))
		}
	}
	put64 := func(section []int64) {
		put(uint64(len(section)))
		for _, v := range section {
			put(uint64(v))
		}
	}
	put32(p.ResolvedSlots)
	put64(p.AdmittedKeys)
	put32(p.AdmittedSlots)
	put32(p.EvictedSlots)
	put64(p.EvictedKeys)
	return d.Sum64()
}
