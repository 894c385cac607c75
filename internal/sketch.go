package internal

// CountMinSketch is a 4-bit count-min sketch with 4 counters per key, all
// of them located in one 64 byte block. Counters are halved once the number
// of additions reaches the sample size.
type CountMinSketch struct {
	table      []uint64
	additions  uint
	sampleSize uint
	blockMask  uint
}

func NewCountMinSketch(size uint) *CountMinSketch {
	s := &CountMinSketch{}
	s.ensureCapacity(size)
	return s
}

// indexOf return table index and counter index together
func (s *CountMinSketch) indexOf(h uint64, block uint64, offset uint8) (uint, uint) {
	counterHash := h + uint64(1+offset)*(h>>32)
	// max block + 7(8 * 8 bytes), fit 64 bytes cache line
	index := block + counterHash&1 + uint64(offset<<1)
	return uint(index), uint((counterHash & 0xF) << 2)
}

func (s *CountMinSketch) inc(index uint, offset uint) bool {
	mask := uint64(0xF << offset)
	if s.table[index]&mask != mask {
		s.table[index] += 1 << offset
		return true
	}
	return false
}

// Add increments the counters of h and reports whether the sketch was aged.
func (s *CountMinSketch) Add(h uint64) bool {
	block := (spread(h) & uint64(s.blockMask)) << 3
	hc := rehash(h)
	added := false
	for i := uint8(0); i < 4; i++ {
		index, offset := s.indexOf(hc, block, i)
		added = s.inc(index, offset) || added
	}

	if added {
		s.additions++
		if s.additions == s.sampleSize {
			s.reset()
			return true
		}
	}
	return false
}

func (s *CountMinSketch) reset() {
	for i := range s.table {
		s.table[i] = (s.table[i] >> 1) & 0x7777777777777777
	}
	s.additions = s.additions >> 1
}

func (s *CountMinSketch) count(h uint64, block uint64, offset uint8) uint {
	index, off := s.indexOf(h, block, offset)
	return uint((s.table[index] >> off) & 0xF)
}

func (s *CountMinSketch) Estimate(h uint64) uint {
	block := (spread(h) & uint64(s.blockMask)) << 3
	hc := rehash(h)
	m := uint(15)
	for i := uint8(0); i < 4; i++ {
		m = min(m, s.count(hc, block, i))
	}
	return m
}

func (s *CountMinSketch) ensureCapacity(size uint) {
	if len(s.table) >= int(size) {
		return
	}
	newSize := max(next2Power(size), 8)
	s.table = make([]uint64, newSize)
	s.sampleSize = max(10*size, 10)
	s.blockMask = uint((len(s.table) >> 3) - 1)
	s.additions = 0
}

func next2Power(x uint) uint {
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	return x
}

func spread(h uint64) uint64 {
	h ^= h >> 17
	h *= 0xed5ad4bb
	h ^= h >> 11
	h *= 0xac4c1b51
	h ^= h >> 15
	return h
}

func rehash(h uint64) uint64 {
	h *= 0x31848bab
	h ^= h >> 14
	return h
}
