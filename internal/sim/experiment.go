// Package sim replays request traces through simulated caches and reports
// their hit ratios.
package sim

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streamcache/dsca-go"
	"github.com/streamcache/dsca-go/internal/stats"
	"github.com/streamcache/dsca-go/internal/trace"
)

type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidExperiment is wrapped by experiment and source validation
// errors. Cache parameter errors raised while building the client keep
// wrapping dsca.ErrInvalidConfig.
const ErrInvalidExperiment = constError("invalid experiment")

// Source is the request stream of an experiment: a trace file when Path
// is set, a synthetic workload otherwise.
type Source struct {
	Path      string  `toml:",omitempty"`
	Synthetic string  `toml:",omitempty"` // zipf, shift, loop or sequential
	Seed      int64   `toml:",omitempty"`
	Skew      float64 `toml:",omitempty"`
	Universe  uint64  `toml:",omitempty"`
	Requests  int     `toml:",omitempty"`
}

func (s Source) String() string {
	if s.Path != "" {
		return s.Path
	}
	switch s.Synthetic {
	case "loop":
		return fmt.Sprintf("loop(universe=%d,n=%d)", s.Universe, s.Requests)
	case "sequential":
		return fmt.Sprintf("sequential(n=%d)", s.Requests)
	}
	return fmt.Sprintf("%s(seed=%d,s=%g,universe=%d,n=%d)", s.Synthetic, s.Seed, s.Skew, s.Universe, s.Requests)
}

func (s Source) validate() error {
	if s.Path != "" {
		return nil
	}
	if s.Requests <= 0 {
		return fmt.Errorf("%w: synthetic source needs a positive request count", ErrInvalidExperiment)
	}
	switch s.Synthetic {
	case "zipf", "shift":
		if s.Skew <= 0 {
			return fmt.Errorf("%w: %s source needs a positive skew", ErrInvalidExperiment, s.Synthetic)
		}
		fallthrough
	case "loop":
		if s.Universe == 0 {
			return fmt.Errorf("%w: %s source needs a universe", ErrInvalidExperiment, s.Synthetic)
		}
	case "sequential":
	case "":
		return fmt.Errorf("%w: no trace path or synthetic workload", ErrInvalidExperiment)
	default:
		return fmt.Errorf("%w: unknown synthetic workload %q", ErrInvalidExperiment, s.Synthetic)
	}
	return nil
}

// Load reads or generates the trace.
func (s Source) Load() (*trace.Trace, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.Path != "" {
		return trace.Load(s.Path)
	}
	var keys []uint64
	switch s.Synthetic {
	case "zipf":
		keys = trace.Zipf(s.Seed, s.Skew, s.Universe, s.Requests)
	case "shift":
		keys = trace.Shift(s.Seed, s.Skew, s.Universe, s.Requests)
	case "loop":
		keys = trace.Loop(s.Universe, s.Requests)
	case "sequential":
		keys = trace.Sequential(s.Requests)
	}
	return trace.FromKeys(s.String(), keys), nil
}

// Experiment is one replay of a source through one cache.
type Experiment struct {
	Name     string `toml:",omitempty"`
	Policy   string
	Capacity int
	Params   dsca.Params
	Source   Source
	// requests excluded from the hit ratio while the cache warms up
	Warmup int `toml:",omitempty"`
	// also compute the offline optimal hit ratio
	Optimal bool `toml:",omitempty"`
}

func (e Experiment) validate() error {
	if e.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidExperiment, e.Capacity)
	}
	if e.Warmup < 0 {
		return fmt.Errorf("%w: negative warmup %d", ErrInvalidExperiment, e.Warmup)
	}
	return e.Source.validate()
}

// Result is the outcome of one experiment.
type Result struct {
	RunID      uuid.UUID     `json:"run_id"`
	Name       string        `json:"name,omitempty"`
	Policy     string        `json:"policy"`
	Capacity   int           `json:"capacity"`
	Params     dsca.Params   `json:"params"`
	Trace      string        `json:"trace"`
	Digest     string        `json:"digest"`
	Requests   int           `json:"requests"`
	Hits       int           `json:"hits"`
	HitRatio   float64       `json:"hit_ratio"`
	Optimal    float64       `json:"optimal,omitempty"`
	Boundaries uint64        `json:"boundaries,omitempty"`
	TopK       stats.Summary `json:"topk"`
	Latency    stats.Summary `json:"latency_ns"`
	Duration   time.Duration `json:"duration"`
}
