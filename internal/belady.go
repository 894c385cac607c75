package internal

import (
	"container/heap"

	"github.com/tidwall/hashmap"
)

type nextUse[K comparable] struct {
	key  K
	next int
}

// farthest is a max-heap on next use. Entries go stale when their key is
// requested again, pop skips them.
type farthest[K comparable] []nextUse[K]

func (h farthest[K]) Len() int           { return len(h) }
func (h farthest[K]) Less(i, j int) bool { return h[i].next > h[j].next }
func (h farthest[K]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *farthest[K]) Push(x any)        { *h = append(*h, x.(nextUse[K])) }
func (h *farthest[K]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Belady replays trace through a clairvoyant cache of the given capacity
// and returns the number of hits among the requests after the first warmup
// ones. A miss is only admitted if the key is requested again before the
// farthest resident key, so no online policy can do better.
func Belady[K comparable](trace []K, capacity, warmup int) int {
	if capacity <= 0 {
		return 0
	}
	never := len(trace)
	next := make([]int, len(trace))
	seen := hashmap.New[K, int](0)
	for i := len(trace) - 1; i >= 0; i-- {
		if j, ok := seen.Get(trace[i]); ok {
			next[i] = j
		} else {
			next[i] = never
		}
		seen.Set(trace[i], i)
	}

	resident := hashmap.New[K, int](capacity)
	h := make(farthest[K], 0, capacity)
	hits := 0
	for i, k := range trace {
		if _, ok := resident.Get(k); ok {
			if i >= warmup {
				hits++
			}
			resident.Set(k, next[i])
			heap.Push(&h, nextUse[K]{key: k, next: next[i]})
			continue
		}
		if next[i] == never {
			continue
		}
		if resident.Len() >= capacity {
			victim := popFarthest(&h, resident)
			if victim.next <= next[i] {
				heap.Push(&h, victim)
				continue
			}
			resident.Delete(victim.key)
		}
		resident.Set(k, next[i])
		heap.Push(&h, nextUse[K]{key: k, next: next[i]})
	}
	return hits
}

func popFarthest[K comparable](h *farthest[K], resident *hashmap.Map[K, int]) nextUse[K] {
	for {
		top := heap.Pop(h).(nextUse[K])
		if cur, ok := resident.Get(top.key); ok && cur == top.next {
			return top
		}
	}
}
