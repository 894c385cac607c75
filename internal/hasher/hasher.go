package hasher

import (
	"unsafe"

	"github.com/zeebo/xxh3"
)

// Hasher hashes cache keys with xxh3. String keys are hashed by content,
// other keys by their in-memory representation unless a string key
// function is given.
type Hasher[K comparable] struct {
	ksize int
	kstr  bool
	kfunc func(K) string
}

func NewHasher[K comparable](stringKeyFunc func(K) string) *Hasher[K] {
	h := &Hasher[K]{kfunc: stringKeyFunc}
	var k K
	switch ((interface{})(k)).(type) {
	case string:
		h.kstr = true
	default:
		h.ksize = int(unsafe.Sizeof(k))
	}
	return h
}

func (h *Hasher[K]) Hash(key K) uint64 {
	var strKey string
	if h.kfunc != nil {
		strKey = h.kfunc(key)
	} else if h.kstr {
		strKey = *(*string)(unsafe.Pointer(&key))
	} else {
		strKey = unsafe.String((*byte)(unsafe.Pointer(&key)), h.ksize)
	}
	return xxh3.HashString(strKey)
}

// String hashes an arbitrary identifier, trace readers use it for object
// names that are not numeric.
func String(s string) uint64 {
	return xxh3.HashString(s)
}
