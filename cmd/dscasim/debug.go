package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

var (
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	logFormatFlag = &cli.StringFlag{
		Name:  "log.format",
		Usage: "Log format to use (json|logfmt|terminal)",
	}
	cpuprofileFlag = &cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "Write CPU profile to the given file",
	}
	memprofileFlag = &cli.StringFlag{
		Name:  "memprofile",
		Usage: "Write a heap profile to the given file on exit",
	}
)

var debugFlags = []cli.Flag{
	verbosityFlag,
	logFormatFlag,
	cpuprofileFlag,
	memprofileFlag,
}

var cpuProfile *os.File

func levelOf(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelError + 4
	case verbosity == 1:
		return slog.LevelError
	case verbosity == 2:
		return slog.LevelWarn
	case verbosity == 3:
		return slog.LevelInfo
	case verbosity == 4:
		return slog.LevelDebug
	}
	return slog.LevelDebug - 4
}

// newHandler builds the log handler for the given format. Terminals get
// records without timestamps.
func newHandler(format string, w io.Writer, level slog.Level, terminal bool) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	case "logfmt":
		return slog.NewTextHandler(w, opts), nil
	case "", "terminal":
		if terminal {
			opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.Attr{}
				}
				return a
			}
		}
		return slog.NewTextHandler(w, opts), nil
	}
	return nil, fmt.Errorf("unknown log format: %v", format)
}

// setupDebug configures logging and starts profiling based on the CLI flags.
func setupDebug(ctx *cli.Context) error {
	terminal := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	handler, err := newHandler(ctx.String(logFormatFlag.Name), os.Stderr, levelOf(ctx.Int(verbosityFlag.Name)), terminal)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))

	if file := ctx.String(cpuprofileFlag.Name); file != "" {
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		cpuProfile = f
		slog.Info("CPU profiling started", "dump", file)
	}
	return nil
}

// exitDebug stops the CPU profile and writes the heap profile.
func exitDebug(ctx *cli.Context) error {
	if cpuProfile != nil {
		pprof.StopCPUProfile()
		cpuProfile.Close()
		cpuProfile = nil
	}
	if file := ctx.String(memprofileFlag.Name); file != "" {
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
		slog.Info("Heap profile written", "dump", file)
	}
	return nil
}
