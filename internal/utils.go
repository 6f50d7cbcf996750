package internal

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Hasher spreads keys over shards.
type Hasher struct {
	seed uint64
}

func NewHasher(seed uint64) *Hasher {
	return &Hasher{seed: seed}
}

func (h *Hasher) hash(key int64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(key))
	return xxh3.HashSeed(b[:], h.seed)
}

// Shard returns the shard in [0, n) that owns key.
func (h *Hasher) Shard(key int64, n int) int {
	return int(h.hash(key) % uint64(n))
}
