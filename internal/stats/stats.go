package stats

import "sync/atomic"

type CacheStatsType int

const (
	NumBatches CacheStatsType = iota
	NumRejectedBatches
	NumRequests
	NumHits
	NumAdmissions
	NumEvictions

	// counter end
	counterStatsEnd
)

// CacheStatsInternal is a set of counters. A nil value records nothing.
type CacheStatsInternal struct {
	counterData []atomic.Uint64
}

func NewStats() *CacheStatsInternal {
	return &CacheStatsInternal{
		counterData: make([]atomic.Uint64, counterStatsEnd),
	}
}

func (s *CacheStatsInternal) Add(t CacheStatsType, value uint64) {
	if s != nil {
		s.counterData[int(t)].Add(value)
	}
}

func (s *CacheStatsInternal) Get(t CacheStatsType) uint64 {
	if s == nil {
		return 0
	}
	return s.counterData[int(t)].Load()
}

func (s *CacheStatsInternal) Reset() {
	if s == nil {
		return
	}
	for i := range s.counterData {
		s.counterData[i].Store(0)
	}
}
