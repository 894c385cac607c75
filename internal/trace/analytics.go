package trace

import (
	"cmp"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

type ObjectCount struct {
	Object uint64
	Count  int
}

type Analytics struct {
	Requests      int
	Objects       int
	OneHitWonders int
	// AverageDistance is the mean number of other requests between two
	// consecutive requests of the same object.
	AverageDistance float64
	Top             []ObjectCount
}

// Analyze summarizes keys, Top lists the topN most requested objects.
func Analyze(keys []uint64, topN int) Analytics {
	distinct := mapset.NewThreadUnsafeSet[uint64]()
	once := mapset.NewThreadUnsafeSet[uint64]()
	first := make(map[uint64]int)
	last := make(map[uint64]int)
	counts := make(map[uint64]int)

	for i, k := range keys {
		if distinct.Add(k) {
			once.Add(k)
			first[k] = i
		} else {
			once.Remove(k)
		}
		last[k] = i
		counts[k]++
	}

	a := Analytics{
		Requests:      len(keys),
		Objects:       distinct.Cardinality(),
		OneHitWonders: once.Cardinality(),
	}

	var distance, pairs int
	top := make([]ObjectCount, 0, len(counts))
	for k, c := range counts {
		distance += last[k] - first[k] + 1 - c
		pairs += c - 1
		top = append(top, ObjectCount{Object: k, Count: c})
	}
	if pairs > 0 {
		a.AverageDistance = float64(distance) / float64(pairs)
	}

	slices.SortFunc(top, func(x, y ObjectCount) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return cmp.Compare(x.Object, y.Object)
	})
	a.Top = top[:min(topN, len(top))]
	return a
}
