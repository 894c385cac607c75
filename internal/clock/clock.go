package clock

import (
	"time"
)

// Clock measures monotonic nanoseconds since Start.
type Clock struct {
	Start time.Time
}

func New() *Clock {
	return &Clock{Start: time.Now()}
}

func (c *Clock) NowNano() int64 {
	return time.Since(c.Start).Nanoseconds()
}

// Elapsed returns the time passed since the NowNano reading from.
func (c *Clock) Elapsed(from int64) time.Duration {
	return time.Duration(c.NowNano() - from)
}

func (c *Clock) SetStart(ts int64) {
	c.Start = time.Unix(0, ts)
}
