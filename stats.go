package hitlfu

import "github.com/CsRic/Hit-Aware-LFU-Cache/internal/stats"

type Stats struct {
	Batches         uint64
	RejectedBatches uint64
	Requests        uint64
	Hits            uint64
	Admissions      uint64
	Evictions       uint64
}

func newStats(s *stats.CacheStatsInternal) Stats {
	return Stats{
		Batches:         s.Get(stats.NumBatches),
		RejectedBatches: s.Get(stats.NumRejectedBatches),
		Requests:        s.Get(stats.NumRequests),
		Hits:            s.Get(stats.NumHits),
		Admissions:      s.Get(stats.NumAdmissions),
		Evictions:       s.Get(stats.NumEvictions),
	}
}

// HitRatio is the share of requests served without an admission.
func (s Stats) HitRatio() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Requests)
}
