package stats

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()
	require.Len(t, r.counters, 7)
	require.Len(t, r.percentiles, 3)

	r.Add(Gets, 3)
	r.Add(Hits, 2)
	r.Add(Evictions, 1)
	for i := 1; i <= 100; i++ {
		r.Add(WindowLength, uint64(i))
	}
	require.Equal(t, uint64(3), r.Count(Gets))
	require.Equal(t, uint64(2), r.Count(Hits))
	require.Equal(t, uint64(0), r.Count(Misses))
	require.Equal(t, uint64(0), r.Count(WindowLength))

	s := r.Summary(WindowLength)
	require.Equal(t, uint64(100), s.Count)
	require.Equal(t, 50.5, s.P50)
	require.Equal(t, Summary{}, r.Summary(TopKSize))
	require.Equal(t, Summary{}, r.Summary(Gets))

	r.Reset()
	require.Equal(t, uint64(0), r.Count(Gets))
	require.Equal(t, Summary{}, r.Summary(WindowLength))
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	r.Add(Gets, 1)
	require.Equal(t, uint64(0), r.Count(Gets))
	require.Equal(t, Summary{}, r.Summary(WindowLength))
	r.Reset()
}

func TestPercentileSimple(t *testing.T) {
	ps := NewPercentile()
	for i := 1; i <= 100; i++ {
		ps.Add(float64(i))
	}

	d := ps.estimate()
	data := []float64{}
	for _, r := range []float64{0.001, 0.01, 0.5, 0.99, 0.999} {
		data = append(data, d.Quantile(r))
	}
	require.Equal(t, float64(1), data[0])
	require.Equal(t, 2-0.5, data[1])
	require.Equal(t, 50.5, data[2])
	require.Equal(t, 100-0.5, data[3])
	require.Equal(t, float64(100), data[4])
}

func TestPercentileParallel(t *testing.T) {
	ps := NewPercentile()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		start := 1e6 / 10 * i
		go func(start int) {
			defer wg.Done()
			for i := start + 1; i <= start+1e5; i++ {
				ps.Add(float64(i))
			}
		}(start)
	}
	wg.Wait()

	d := ps.estimate()
	data := []float64{}
	for _, r := range []float64{0.001, 0.01, 0.5, 0.99, 0.999} {
		data = append(data, d.Quantile(r))
	}

	require.True(t, math.Abs(data[0]-1000.5)/1000.5 < 0.05)
	require.True(t, math.Abs(data[1]-10000.5)/10000.5 < 0.05)
	require.True(t, math.Abs(data[2]-500000.5)/500000.5 < 0.05)
	require.True(t, math.Abs(data[3]-990000.5)/990000.5 < 0.05)
	require.True(t, math.Abs(data[4]-999000.5)/999000.5 < 0.05)
	require.Equal(t, uint64(1e6), ps.Summary().Count)
}
