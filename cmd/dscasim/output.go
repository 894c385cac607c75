package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/streamcache/dsca-go/internal/sim"
	"github.com/streamcache/dsca-go/internal/trace"
)

type writeFunc func(w io.Writer, results []sim.Result) error

func resultWriter(format string) (writeFunc, error) {
	switch format {
	case "", "table":
		return writeTable, nil
	case "json":
		return writeJSONLines, nil
	}
	return nil, fmt.Errorf("unknown output format: %v", format)
}

func writeTable(w io.Writer, results []sim.Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "POLICY\tCAPACITY\tTRACE\tREQUESTS\tHITS\tHIT RATIO\tOPTIMAL\tBOUNDARIES\tDURATION\tRUN")
	for _, r := range results {
		optimal := "-"
		if r.Optimal > 0 {
			optimal = fmt.Sprintf("%.4f", r.Optimal)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%.4f\t%s\t%d\t%s\t%s\n",
			r.Policy, r.Capacity, r.Trace, r.Requests, r.Hits, r.HitRatio, optimal,
			r.Boundaries, r.Duration.Round(time.Millisecond), r.RunID)
	}
	return tw.Flush()
}

func writeJSONLines(w io.Writer, results []sim.Result) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func writeAnalytics(w io.Writer, t *trace.Trace, a trace.Analytics) {
	fmt.Fprintf(w, "trace:            %s (%016x)\n", t.Name, t.Digest)
	fmt.Fprintf(w, "requests:         %d\n", a.Requests)
	fmt.Fprintf(w, "objects:          %d\n", a.Objects)
	fmt.Fprintf(w, "one hit wonders:  %d\n", a.OneHitWonders)
	fmt.Fprintf(w, "average distance: %.2f\n", a.AverageDistance)
	for i, oc := range a.Top {
		fmt.Fprintf(w, "  %2d. %d\t%d\n", i+1, oc.Object, oc.Count)
	}
}
