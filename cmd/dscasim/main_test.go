package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/streamcache/dsca-go"
	"github.com/streamcache/dsca-go/internal/sim"
	"github.com/streamcache/dsca-go/internal/trace"
	"github.com/stretchr/testify/require"
)

const testConfig = `
Workers = 2
Output = "json"

[[Experiments]]
Policy = "DSCA"
Capacity = 100
Warmup = 10

[Experiments.Params]
WindowSize = 500
Monitored = 300

[Experiments.Source]
Synthetic = "zipf"
Seed = 1
Skew = 1.1
Universe = 1000
Requests = 5000

[[Experiments]]
Policy = "hashicorp-arc"
Capacity = 50

[Experiments.Source]
Path = "requests.csv"
`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	var cfg simConfig
	require.Nil(t, loadConfig(writeFile(t, "sim.toml", testConfig), &cfg))
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, "json", cfg.Output)
	require.Equal(t, []sim.Experiment{
		{
			Policy:   "DSCA",
			Capacity: 100,
			Warmup:   10,
			Params:   dsca.Params{WindowSize: 500, Monitored: 300},
			Source:   sim.Source{Synthetic: "zipf", Seed: 1, Skew: 1.1, Universe: 1000, Requests: 5000},
		},
		{
			Policy:   "hashicorp-arc",
			Capacity: 50,
			Source:   sim.Source{Path: "requests.csv"},
		},
	}, cfg.Experiments)

	err := loadConfig(writeFile(t, "bad.toml", "[[Experiments]]\nPolcy = \"LRU\"\n"), &cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Polcy")

	require.Error(t, loadConfig(filepath.Join(t.TempDir(), "missing.toml"), &cfg))
}

func TestLoadConfig_ZeroPortion(t *testing.T) {
	var cfg simConfig
	content := "[[Experiments]]\nPolicy = \"DSCAFS\"\nCapacity = 10\n\n[Experiments.Params]\nLRUPortion = 0.0\n"
	require.Nil(t, loadConfig(writeFile(t, "zero.toml", content), &cfg))
	require.Len(t, cfg.Experiments, 1)
	require.Equal(t, dsca.Params{LRUPortion: dsca.Float(0)}, cfg.Experiments[0].Params)
}

func TestParseParams(t *testing.T) {
	p, err := parseParams([]string{"window_size=1000", " lru_portion = 0.3", "doorkeeper=true"})
	require.Nil(t, err)
	require.Equal(t, dsca.Params{WindowSize: 1000, LRUPortion: dsca.Float(0.3), Doorkeeper: true}, p)

	_, err = parseParams([]string{"window_size"})
	require.ErrorIs(t, err, dsca.ErrInvalidConfig)
	_, err = parseParams([]string{"window=10"})
	require.ErrorIs(t, err, dsca.ErrInvalidConfig)
}

func TestResultWriter(t *testing.T) {
	results := []sim.Result{{
		RunID:    uuid.New(),
		Policy:   "DSCA",
		Capacity: 10,
		Trace:    "requests.csv",
		Requests: 100,
		Hits:     25,
		HitRatio: 0.25,
	}}

	write, err := resultWriter("table")
	require.Nil(t, err)
	var buf bytes.Buffer
	require.Nil(t, write(&buf, results))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "POLICY"))
	require.Contains(t, lines[1], "0.2500")
	require.Contains(t, lines[1], results[0].RunID.String())

	write, err = resultWriter("json")
	require.Nil(t, err)
	buf.Reset()
	require.Nil(t, write(&buf, results))
	var decoded sim.Result
	require.Nil(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, results[0].RunID, decoded.RunID)
	require.Equal(t, 25, decoded.Hits)

	_, err = resultWriter("xml")
	require.Error(t, err)
}

func TestApp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.csv")
	f, err := os.Create(path)
	require.Nil(t, err)
	require.Nil(t, trace.Write(f, trace.FromKeys("", trace.Zipf(1, 1.0, 200, 2000))))
	require.Nil(t, f.Close())

	for _, args := range [][]string{
		{"policies"},
		{"run", "--policy", "LRU", "--policy", "DSCA", "--capacity", "10", "--capacity", "20",
			"--param", "window_size=100", "--synthetic", "zipf", "--requests", "1000", "--universe", "100"},
		{"run", "--policy", "ARC", "--capacity", "10", "--trace", path, "--optimal", "--output", "json"},
		{"analyze", "--top", "3", path},
		{"optimal", "--capacity", "10", "--warmup", "100", "--trace", path},
	} {
		err := app.Run(append([]string{"dscasim", "--verbosity", "0"}, args...))
		require.Nil(t, err, strings.Join(args, " "))
	}

	for _, args := range [][]string{
		{"run"},
		{"run", "--policy", "LRU", "--synthetic", "zipf"},
		{"run", "--policy", "LRU", "--capacity", "10", "--param", "window"},
		{"analyze"},
		{"optimal", "--capacity", "10", "--synthetic", "zipf", "--requests", "10", "--warmup", "10"},
	} {
		err := app.Run(append([]string{"dscasim", "--verbosity", "0"}, args...))
		require.Error(t, err, strings.Join(args, " "))
	}
}

func TestLevelOf(t *testing.T) {
	h, err := newHandler("json", &bytes.Buffer{}, levelOf(3), false)
	require.Nil(t, err)
	require.NotNil(t, h)
	_, err = newHandler("xml", &bytes.Buffer{}, levelOf(3), false)
	require.Error(t, err)
	require.Less(t, levelOf(5), levelOf(4))
	require.Greater(t, levelOf(0), levelOf(1))
}
