package clock_test

import (
	"testing"
	"time"

	"github.com/streamcache/dsca-go/internal/clock"
	"github.com/stretchr/testify/require"
)

func TestClock_NowNano(t *testing.T) {
	c := clock.New()
	start := c.NowNano()
	time.Sleep(5 * time.Millisecond)
	end := c.NowNano()

	require.Greater(t, end, start)
	require.GreaterOrEqual(t, c.Elapsed(start), 5*time.Millisecond)
}

func TestClock_SetStart(t *testing.T) {
	c := &clock.Clock{}
	ts := time.Now().UnixNano()
	c.SetStart(ts)
	require.Equal(t, ts, c.Start.UnixNano())
}
