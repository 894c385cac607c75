package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/streamcache/dsca-go"
	"github.com/streamcache/dsca-go/internal"
	"github.com/streamcache/dsca-go/internal/sim"
	"github.com/streamcache/dsca-go/internal/trace"
	"github.com/urfave/cli/v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML experiment file",
	}
	policyFlag = &cli.StringSliceFlag{
		Name:  "policy",
		Usage: "Policy kind or baseline to simulate, repeatable (see the policies command)",
	}
	capacityFlag = &cli.IntSliceFlag{
		Name:  "capacity",
		Usage: "Cache capacity in objects, repeatable",
	}
	paramFlag = &cli.StringSliceFlag{
		Name:  "param",
		Usage: "Policy parameter as name=value, repeatable (e.g. window_size=1000)",
	}
	warmupFlag = &cli.IntFlag{
		Name:  "warmup",
		Usage: "Requests excluded from the hit ratio",
	}
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Experiments run in parallel",
		Value: runtime.NumCPU(),
	}
	optimalFlag = &cli.BoolFlag{
		Name:  "optimal",
		Usage: "Also compute the offline optimal hit ratio",
	}
	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "Result format (table|json)",
		Value: "table",
	}
	traceFlag = &cli.StringFlag{
		Name:  "trace",
		Usage: "CSV trace file (time, receiver, object), snappy compressed if it ends in .sz",
	}
	syntheticFlag = &cli.StringFlag{
		Name:  "synthetic",
		Usage: "Synthetic workload instead of a trace (zipf|shift|loop|sequential)",
	}
	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Seed of the synthetic workload",
		Value: 1,
	}
	skewFlag = &cli.Float64Flag{
		Name:  "skew",
		Usage: "Zipf exponent of the synthetic workload",
		Value: 0.8,
	}
	universeFlag = &cli.Uint64Flag{
		Name:  "universe",
		Usage: "Distinct objects of the synthetic workload",
		Value: 10000,
	}
	requestsFlag = &cli.IntFlag{
		Name:  "requests",
		Usage: "Requests of the synthetic workload",
		Value: 100000,
	}
	topFlag = &cli.IntFlag{
		Name:  "top",
		Usage: "Most requested objects to list",
		Value: 10,
	}
)

var sourceFlags = []cli.Flag{traceFlag, syntheticFlag, seedFlag, skewFlag, universeFlag, requestsFlag}

var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "Replay a trace through one or more caches",
	Action: runExperiments,
	Flags: append([]cli.Flag{
		configFileFlag,
		policyFlag,
		capacityFlag,
		paramFlag,
		warmupFlag,
		workersFlag,
		optimalFlag,
		outputFlag,
	}, sourceFlags...),
	Description: `
The run command executes the experiments of a TOML file (--config) and the
cross product of the --policy and --capacity flags over the given source.
Results are printed in queue order.`,
}

var analyzeCommand = &cli.Command{
	Name:      "analyze",
	Usage:     "Print request statistics of traces",
	ArgsUsage: "<trace> [<trace>...]",
	Action:    analyzeTraces,
	Flags:     []cli.Flag{topFlag},
}

var optimalCommand = &cli.Command{
	Name:   "optimal",
	Usage:  "Compute the offline optimal hit ratio",
	Action: optimalHitRatio,
	Flags:  append([]cli.Flag{capacityFlag, warmupFlag}, sourceFlags...),
}

var policiesCommand = &cli.Command{
	Name:   "policies",
	Usage:  "List the policies that can be simulated",
	Action: listPolicies,
}

func sourceFromFlags(ctx *cli.Context) sim.Source {
	return sim.Source{
		Path:      ctx.String(traceFlag.Name),
		Synthetic: ctx.String(syntheticFlag.Name),
		Seed:      ctx.Int64(seedFlag.Name),
		Skew:      ctx.Float64(skewFlag.Name),
		Universe:  ctx.Uint64(universeFlag.Name),
		Requests:  ctx.Int(requestsFlag.Name),
	}
}

// parseParams reads name=value pairs.
func parseParams(pairs []string) (dsca.Params, error) {
	m := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return dsca.Params{}, fmt.Errorf("%w: parameter %q is not name=value", dsca.ErrInvalidConfig, pair)
		}
		m[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return dsca.ParamsFromMap(m)
}

func experimentsFromFlags(ctx *cli.Context) ([]sim.Experiment, error) {
	policies := ctx.StringSlice(policyFlag.Name)
	if len(policies) == 0 {
		return nil, nil
	}
	capacities := ctx.IntSlice(capacityFlag.Name)
	if len(capacities) == 0 {
		return nil, errors.New("--policy needs at least one --capacity")
	}
	params, err := parseParams(ctx.StringSlice(paramFlag.Name))
	if err != nil {
		return nil, err
	}
	src := sourceFromFlags(ctx)
	var experiments []sim.Experiment
	for _, p := range policies {
		for _, c := range capacities {
			experiments = append(experiments, sim.Experiment{
				Policy:   p,
				Capacity: c,
				Params:   params,
				Source:   src,
				Warmup:   ctx.Int(warmupFlag.Name),
				Optimal:  ctx.Bool(optimalFlag.Name),
			})
		}
	}
	return experiments, nil
}

func runExperiments(ctx *cli.Context) error {
	cfg := simConfig{
		Workers: ctx.Int(workersFlag.Name),
		Output:  ctx.String(outputFlag.Name),
	}
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return err
		}
		if ctx.IsSet(workersFlag.Name) {
			cfg.Workers = ctx.Int(workersFlag.Name)
		}
		if ctx.IsSet(outputFlag.Name) {
			cfg.Output = ctx.String(outputFlag.Name)
		}
	}
	experiments, err := experimentsFromFlags(ctx)
	if err != nil {
		return err
	}
	cfg.Experiments = append(cfg.Experiments, experiments...)
	if len(cfg.Experiments) == 0 {
		return errors.New("no experiments, use --config or --policy")
	}
	write, err := resultWriter(cfg.Output)
	if err != nil {
		return err
	}

	runner := sim.NewRunner(cfg.Workers, slog.Default())
	runner.Add(cfg.Experiments...)
	slog.Info("Running experiments", "count", len(cfg.Experiments), "workers", cfg.Workers)

	c, stop := signal.NotifyContext(ctx.Context, os.Interrupt)
	defer stop()
	results, err := runner.Run(c)
	if err != nil {
		return err
	}
	return write(os.Stdout, results)
}

func analyzeTraces(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("analyze needs at least one trace file")
	}
	for _, path := range ctx.Args().Slice() {
		t, err := trace.Load(path)
		if err != nil {
			return err
		}
		writeAnalytics(os.Stdout, t, trace.Analyze(t.Keys(), ctx.Int(topFlag.Name)))
	}
	return nil
}

func optimalHitRatio(ctx *cli.Context) error {
	capacities := ctx.IntSlice(capacityFlag.Name)
	if len(capacities) == 0 {
		return errors.New("optimal needs at least one --capacity")
	}
	t, err := sourceFromFlags(ctx).Load()
	if err != nil {
		return err
	}
	warmup := ctx.Int(warmupFlag.Name)
	measured := t.Len() - warmup
	if measured <= 0 {
		return fmt.Errorf("warmup %d leaves no requests of %d", warmup, t.Len())
	}
	keys := t.Keys()
	for _, c := range capacities {
		if c <= 0 {
			return fmt.Errorf("capacity must be positive, got %d", c)
		}
		hits := internal.Belady(keys, c, warmup)
		fmt.Printf("%s\tcapacity=%d\thits=%d\thit_ratio=%.4f\n", t.Name, c, hits, float64(hits)/float64(measured))
	}
	return nil
}

func listPolicies(ctx *cli.Context) error {
	for _, k := range dsca.Kinds() {
		if k.Windowed() {
			fmt.Printf("%s\twindowed\n", k)
		} else {
			fmt.Println(k)
		}
	}
	for _, b := range sim.Baselines() {
		fmt.Printf("%s\tbaseline\n", b)
	}
	return nil
}
