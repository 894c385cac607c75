package stats

import (
	"sync/atomic"
)

type Type int

const (
	// counters
	Gets Type = iota
	Hits
	Misses
	Puts
	Evictions
	Removals
	Boundaries

	counterEnd

	// percentiles
	WindowLength
	TopKSize
	RequestLatency

	percentileEnd
)

// Recorder collects counters and percentiles of one cache instance.
// A nil Recorder ignores every call.
type Recorder struct {
	counters    []atomic.Uint64
	percentiles []*Percentile
}

func New() *Recorder {
	r := &Recorder{
		counters: make([]atomic.Uint64, counterEnd),
	}
	for i := 0; i < int(percentileEnd-counterEnd-1); i++ {
		r.percentiles = append(r.percentiles, NewPercentile())
	}
	return r
}

func (r *Recorder) Add(t Type, value uint64) {
	if r == nil {
		return
	}
	if t < counterEnd {
		r.counters[t].Add(value)
		return
	}
	r.percentiles[t-counterEnd-1].Add(float64(value))
}

func (r *Recorder) Count(t Type) uint64 {
	if r == nil || t >= counterEnd {
		return 0
	}
	return r.counters[t].Load()
}

func (r *Recorder) Summary(t Type) Summary {
	if r == nil || t <= counterEnd || t >= percentileEnd {
		return Summary{}
	}
	return r.percentiles[t-counterEnd-1].Summary()
}

func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	for i := range r.counters {
		r.counters[i].Store(0)
	}
	for _, p := range r.percentiles {
		p.Reset()
	}
}
