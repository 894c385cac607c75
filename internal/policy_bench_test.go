package internal

import (
	"math/rand"
	"testing"
)

func benchPolicies() map[string]func() Policy[uint64] {
	return map[string]func() Policy[uint64]{
		"lru":    func() Policy[uint64] { return NewLRU[uint64](10000) },
		"klru":   func() Policy[uint64] { return NewKLRU[uint64](10000, 2, 1) },
		"arc":    func() Policy[uint64] { return NewARC[uint64](10000) },
		"ss":     func() Policy[uint64] { return NewSpaceSaving[uint64](10000, 20000) },
		"dsca":   func() Policy[uint64] { return NewDSCA[uint64](10000, 20000, 1000, false) },
		"dscasw": func() Policy[uint64] { return NewSlidingDSCA[uint64](10000, 20000, 4, 250) },
		"adsca":  func() Policy[uint64] { return NewAdaptiveDSCA[uint64](10000, 20000, 1000, true) },
		"tlfu":   func() Policy[uint64] { return NewTinyLFU[uint64](10000) },
	}
}

func BenchmarkPolicy_Request(b *testing.B) {
	r := rand.New(rand.NewSource(0))
	z := rand.NewZipf(r, 1.4, 9.0, 100000)
	keys := make([]uint64, 1<<16)
	for i := range keys {
		keys[i] = z.Uint64()
	}

	for name, build := range benchPolicies() {
		b.Run(name, func(b *testing.B) {
			p := build()
			for _, k := range keys {
				request(p, k)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				request(p, keys[i&65535])
			}
		})
	}
}

func BenchmarkPolicy_Write(b *testing.B) {
	for name, build := range benchPolicies() {
		b.Run(name, func(b *testing.B) {
			p := build()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				p.Put(uint64(i))
			}
		})
	}
}
