package dsca

import (
	"github.com/streamcache/dsca-go/internal"
)

// Cache is a simulated cache: it tracks which keys are resident, values
// are never stored. A request is a Get, followed by a Put on a miss.
type Cache[K comparable] interface {
	Has(key K) bool
	// Get reports a hit and updates the policy state of key.
	Get(key K) bool
	// Put inserts key and returns the key it evicted, if any. A Put on a
	// resident key counts as a hit and evicts nothing.
	Put(key K) (evicted K, ok bool)
	Remove(key K) bool
	Clear()
	Len() int
	Capacity() int
	// Dump lists the resident keys in the policy's priority order.
	Dump() []K
	// Position is the index of key in Dump, ErrNotFound if it is absent.
	Position(key K) (int, error)
}

type cache[K comparable] struct {
	internal.Policy[K]
}

func (c cache[K]) Position(key K) (int, error) {
	pos, ok := c.Policy.Position(key)
	if !ok {
		return 0, ErrNotFound
	}
	return pos, nil
}

// New builds a cache of the given kind holding at most capacity keys.
func New[K comparable](kind Kind, capacity int, p Params) (Cache[K], error) {
	policy, err := newPolicy[K](kind, capacity, p)
	if err != nil {
		return nil, err
	}
	return cache[K]{policy}, nil
}

func newPolicy[K comparable](kind Kind, capacity int, p Params) (internal.Policy[K], error) {
	p = p.withDefaults(capacity)
	if err := p.validate(kind, capacity); err != nil {
		return nil, err
	}
	switch kind {
	case LRU:
		return internal.NewLRU[K](capacity), nil
	case KLRU:
		return internal.NewKLRU[K](capacity, p.Segments, p.CachedSegments), nil
	case ARC:
		return internal.NewARC[K](capacity), nil
	case SS:
		return internal.NewSpaceSaving[K](capacity, p.Monitored), nil
	case DSCA:
		return internal.NewDSCA[K](capacity, p.Monitored, p.WindowSize, false), nil
	case TwoDSCA:
		return internal.NewDSCA[K](capacity, p.Monitored, p.WindowSize, true), nil
	case DSCASW:
		return internal.NewSlidingDSCA[K](capacity, p.Monitored, p.Subwindows, p.SubwindowSize), nil
	case DSCAFS:
		return internal.NewFixedSplitDSCA[K](capacity, p.Monitored, p.WindowSize, *p.LRUPortion), nil
	case DSCAFT:
		return internal.NewThresholdDSCA[K](capacity, p.Monitored, p.WindowSize, *p.Threshold), nil
	case DSCAAWS, TwoDSCAAWS:
		return internal.NewAdaptiveWindowDSCA[K](
			capacity, p.Monitored, p.HypothesisCheckPeriod,
			p.HypothesisCheckA, p.HypothesisCheckEpsilon, kind == TwoDSCAAWS,
		), nil
	case ADSCASTK:
		return internal.NewAdaptiveDSCA[K](capacity, p.Monitored, p.WindowSize, false), nil
	case ADSCAATK:
		return internal.NewAdaptiveDSCA[K](capacity, p.Monitored, p.WindowSize, true), nil
	case TLFU:
		t := internal.NewTinyLFU[K](capacity)
		t.Doorkeeper(p.Doorkeeper)
		return t, nil
	}
	return nil, invalid("unknown policy %d", uint8(kind))
}
