package stats

import (
	"sync"

	"github.com/influxdata/tdigest"
)

type digestBuilder struct {
	bufferSize int
	buffer     []float64
	digest     *tdigest.TDigest
}

func newDigestBuilder(bufferSize int) *digestBuilder {
	return &digestBuilder{
		bufferSize: bufferSize,
		buffer:     make([]float64, 0, bufferSize),
		digest:     tdigest.New(),
	}
}

// add buffers v, the digest is only touched once per full buffer.
func (b *digestBuilder) add(v float64) bool {
	b.buffer = append(b.buffer, v)
	if len(b.buffer) == b.bufferSize {
		b.build()
		return true
	}
	return false
}

func (b *digestBuilder) build() {
	for _, v := range b.buffer {
		b.digest.Add(v, 1)
	}
	b.buffer = b.buffer[:0]
}

func (b *digestBuilder) reset() {
	b.buffer = b.buffer[:0]
	b.digest.Reset()
}

// Percentile estimates the distribution of every value added so far.
// It is safe for concurrent use.
type Percentile struct {
	mu      sync.Mutex
	builder *digestBuilder
	total   *tdigest.TDigest
	count   uint64
}

func NewPercentile() *Percentile {
	return &Percentile{
		builder: newDigestBuilder(1000),
		total:   tdigest.New(),
	}
}

func (p *Percentile) Add(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	if p.builder.add(v) {
		p.flush()
	}
}

func (p *Percentile) flush() {
	p.builder.build()
	p.total.Merge(p.builder.digest)
	p.builder.reset()
}

func (p *Percentile) estimate() *tdigest.TDigest {
	final := tdigest.New()
	p.mu.Lock()
	p.flush()
	final.Merge(p.total)
	p.mu.Unlock()
	return final
}

func (p *Percentile) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.builder.reset()
	p.total.Reset()
	p.count = 0
}

// Summary is a fixed set of quantiles of a Percentile.
type Summary struct {
	Count uint64
	P0    float64
	P50   float64
	P90   float64
	P99   float64
	P100  float64
}

func (p *Percentile) Summary() Summary {
	p.mu.Lock()
	count := p.count
	p.mu.Unlock()
	if count == 0 {
		return Summary{}
	}
	d := p.estimate()
	return Summary{
		Count: count,
		P0:    d.Quantile(0),
		P50:   d.Quantile(0.5),
		P90:   d.Quantile(0.9),
		P99:   d.Quantile(0.99),
		P100:  d.Quantile(1),
	}
}
