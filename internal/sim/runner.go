package sim

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"github.com/google/uuid"
	"github.com/streamcache/dsca-go"
	"github.com/streamcache/dsca-go/internal"
	"github.com/streamcache/dsca-go/internal/clock"
	"github.com/streamcache/dsca-go/internal/stats"
	"github.com/streamcache/dsca-go/internal/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// cancellation is checked once per this many requests
const checkEvery = 1024

// Runner executes queued experiments, each on its own goroutine with at
// most workers running at once. Sources shared by several experiments are
// loaded once.
type Runner struct {
	workers int
	logger  *slog.Logger
	clock   *clock.Clock

	mu     sync.Mutex
	queue  *deque.Deque[Experiment]
	traces map[string]*trace.Trace
	loads  singleflight.Group
}

func NewRunner(workers int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		workers: max(1, workers),
		logger:  logger,
		clock:   clock.New(),
		queue:   deque.New[Experiment](),
		traces:  map[string]*trace.Trace{},
	}
}

// Add queues experiments.
func (r *Runner) Add(experiments ...Experiment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range experiments {
		r.queue.PushBack(e)
	}
}

// Len returns the number of queued experiments.
func (r *Runner) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queue.Len()
}

func (r *Runner) drain() []Experiment {
	r.mu.Lock()
	defer r.mu.Unlock()
	experiments := make([]Experiment, 0, r.queue.Len())
	for r.queue.Len() > 0 {
		experiments = append(experiments, r.queue.PopFront())
	}
	return experiments
}

// Run executes every queued experiment and returns the results in queue
// order. The first failure cancels the experiments still running.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	experiments := r.drain()
	results := make([]Result, len(experiments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, e := range experiments {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := r.RunOne(gctx, e)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunOne executes a single experiment.
func (r *Runner) RunOne(ctx context.Context, e Experiment) (Result, error) {
	if err := e.validate(); err != nil {
		return Result{}, err
	}
	client, err := NewClient(e.Policy, e.Params)
	if err != nil {
		return Result{}, err
	}
	t, err := r.Trace(e.Source)
	if err != nil {
		return Result{}, err
	}
	if err := client.Init(e.Capacity); err != nil {
		return Result{}, err
	}
	defer client.Close()

	res := Result{
		RunID:    uuid.New(),
		Name:     e.Name,
		Policy:   client.Name(),
		Capacity: e.Capacity,
		Params:   e.Params,
		Trace:    t.Name,
		Digest:   digest(t.Digest),
	}
	log := r.logger.With("run", res.RunID, "policy", res.Policy, "capacity", e.Capacity, "trace", t.Name)
	log.Debug("Starting experiment", "requests", t.Len(), "warmup", e.Warmup)

	keys := t.Keys()
	rec := stats.New()
	start := r.clock.NowNano()
	for i, k := range keys {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				log.Warn("Experiment cancelled", "done", i)
				return Result{}, err
			}
		}
		now := r.clock.NowNano()
		hit := client.Request(k)
		rec.Add(stats.RequestLatency, uint64(r.clock.Elapsed(now)))
		if i < e.Warmup {
			continue
		}
		res.Requests++
		if hit {
			res.Hits++
		}
	}
	res.Duration = r.clock.Elapsed(start)
	res.Latency = rec.Summary(stats.RequestLatency)
	if res.Requests > 0 {
		res.HitRatio = float64(res.Hits) / float64(res.Requests)
	}
	if s, ok := client.(interface{ Stats() dsca.Stats }); ok {
		st := s.Stats()
		res.Boundaries = st.Boundaries
		res.TopK = st.TopKSize
	}
	if e.Optimal && res.Requests > 0 {
		res.Optimal = float64(internal.Belady(keys, e.Capacity, e.Warmup)) / float64(res.Requests)
	}

	log.Info("Experiment finished", "hitratio", res.HitRatio, "elapsed", res.Duration.Round(time.Millisecond), "metrics", client.Metrics())
	return res, nil
}

// Trace returns the trace of a source, loading it at most once.
func (r *Runner) Trace(src Source) (*trace.Trace, error) {
	key := src.String()
	r.mu.Lock()
	t, ok := r.traces[key]
	r.mu.Unlock()
	if ok {
		return t, nil
	}
	v, err, _ := r.loads.Do(key, func() (any, error) {
		r.mu.Lock()
		t, ok := r.traces[key]
		r.mu.Unlock()
		if ok {
			return t, nil
		}
		start := time.Now()
		t, err := src.Load()
		if err != nil {
			return nil, err
		}
		r.logger.Debug("Loaded trace", "trace", t.Name, "requests", t.Len(), "elapsed", time.Since(start))
		r.mu.Lock()
		r.traces[key] = t
		r.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*trace.Trace), nil
}

func digest(d uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], d)
	return hex.EncodeToString(b[:])
}
