package bf

import (
	bloomfilter "github.com/holiman/bloomfilter/v2"
)

// Bloomfilter is the doorkeeper in front of a frequency sketch: a key's
// first occurrence only sets its bits here.
type Bloomfilter struct {
	filter   *bloomfilter.Filter
	capacity int
}

const bitsPerKey = 10

// NewWithSize creates a filter sized for size distinct keys.
func NewWithSize(size int) *Bloomfilter {
	d := &Bloomfilter{}
	d.EnsureCapacity(size)
	return d
}

// EnsureCapacity grows the filter, dropping its content, if it was sized
// for fewer keys.
func (d *Bloomfilter) EnsureCapacity(size int) {
	if d.filter != nil && size <= d.capacity {
		return
	}
	d.capacity = max(size, 1)
	d.Reset()
}

// Insert adds h and reports whether it was not present yet.
func (d *Bloomfilter) Insert(h uint64) bool {
	if d.filter.ContainsHash(h) {
		return false
	}
	d.filter.AddHash(h)
	return true
}

func (d *Bloomfilter) Exist(h uint64) bool {
	return d.filter.ContainsHash(h)
}

func (d *Bloomfilter) Reset() {
	m := uint64(max(64, bitsPerKey*d.capacity))
	filter, err := bloomfilter.New(m, 4)
	if err != nil {
		// m and k are always in range
		panic(err)
	}
	d.filter = filter
}
