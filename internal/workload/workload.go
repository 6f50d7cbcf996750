// Package workload generates reproducible request batches for tests and
// the benchmark harness.
package workload

import (
	"fmt"
	"math/rand"
)

type Distribution uint8

const (
	Uniform Distribution = iota
	Zipf
)

func (d Distribution) String() string {
	switch d {
	case Uniform:
		return "uniform"
	case Zipf:
		return "zipf"
	}
	return fmt.Sprintf("Distribution(%d)", uint8(d))
}

func ParseDistribution(s string) (Distribution, error) {
	switch s {
	case "uniform":
		return Uniform, nil
	case "zipf":
		return Zipf, nil
	}
	return 0, fmt.Errorf("unknown distribution %q", s)
}

// Generator draws keys from [0, keyRange).
type Generator struct {
	r        *rand.Rand
	zipf     *rand.Zipf
	keyRange uint64
}

func New(dist Distribution, keyRange uint64, seed int64) *Generator {
	r := rand.New(rand.NewSource(seed))
	g := &Generator{r: r, keyRange: keyRange}
	if dist == Zipf && keyRange > 1 {
		g.zipf = rand.NewZipf(r, 1.01, 9.0, keyRange-1)
	}
	return g
}

func (g *Generator) Key() int64 {
	if g.zipf != nil {
		return int64(g.zipf.Uint64())
	}
	return g.r.Int63n(int64(g.keyRange))
}

// Batch returns n keys, duplicates included.
func (g *Generator) Batch(n int) []int64 {
	keys := make([]int64, n)
	for i := range keys {
		keys[i] = g.Key()
	}
	return keys
}

// Intn exposes the generator's source so callers can vary batch sizes
// reproducibly.
func (g *Generator) Intn(n int) int {
	return g.r.Intn(n)
}
