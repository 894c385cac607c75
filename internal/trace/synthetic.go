package trace

import (
	"math"
	"math/rand"
	"sort"
)

// Zipf draws n requests over universe objects, object i is requested with
// probability proportional to 1/(i+1)^s. Any s > 0 is accepted.
func Zipf(seed int64, s float64, universe uint64, n int) []uint64 {
	cdf := make([]float64, universe)
	sum := 0.0
	for i := range cdf {
		sum += 1 / math.Pow(float64(i+1), s)
		cdf[i] = sum
	}
	r := rand.New(rand.NewSource(seed))
	keys := make([]uint64, n)
	for i := range keys {
		j := sort.SearchFloat64s(cdf, r.Float64()*sum)
		keys[i] = uint64(min(j, len(cdf)-1))
	}
	return keys
}

// Loop requests objects 0..universe-1 cyclically.
func Loop(universe uint64, n int) []uint64 {
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = uint64(i) % universe
	}
	return keys
}

// Sequential requests n distinct objects once each.
func Sequential(n int) []uint64 {
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = uint64(i)
	}
	return keys
}

// Shift concatenates two zipf phases whose popular objects differ, the
// second phase ranks objects in reverse.
func Shift(seed int64, s float64, universe uint64, n int) []uint64 {
	keys := Zipf(seed, s, universe, n/2)
	for _, k := range Zipf(seed+1, s, universe, n-n/2) {
		keys = append(keys, universe-1-k)
	}
	return keys
}
