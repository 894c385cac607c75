package dsca

import (
	"fmt"
	"math"
	"strconv"
)

// Params holds the tuning knobs of every policy kind. Each kind reads only
// the fields it needs, zero values are replaced by defaults. LRUPortion and
// Threshold accept zero, so they are pointers and only nil means default.
type Params struct {
	WindowSize             int
	Subwindows             int
	SubwindowSize          int
	Monitored              int
	Segments               int
	CachedSegments         int
	LRUPortion             *float64 `toml:",omitempty" json:",omitempty"`
	HypothesisCheckPeriod  int
	HypothesisCheckA       float64
	HypothesisCheckEpsilon float64
	Threshold              *float64 `toml:",omitempty" json:",omitempty"`
	Doorkeeper             bool
}

// Float returns a pointer to v, for the optional fields of Params.
func Float(v float64) *float64 { return &v }

const (
	defaultWindowSize             = 100
	defaultSubwindows             = 4
	defaultSubwindowSize          = 25
	defaultSegments               = 2
	defaultCachedSegments         = 1
	defaultLRUPortion             = 0.5
	defaultHypothesisCheckPeriod  = 1
	defaultHypothesisCheckA       = 0.33
	defaultHypothesisCheckEpsilon = 0.005
	defaultThreshold              = 0.01
)

// withDefaults fills zero fields. The monitored default depends on the
// cache capacity.
func (p Params) withDefaults(capacity int) Params {
	if p.Monitored == 0 {
		p.Monitored = 2 * capacity
	}
	if p.WindowSize == 0 {
		p.WindowSize = defaultWindowSize
	}
	if p.Subwindows == 0 {
		p.Subwindows = defaultSubwindows
	}
	if p.SubwindowSize == 0 {
		p.SubwindowSize = defaultSubwindowSize
	}
	if p.Segments == 0 {
		p.Segments = defaultSegments
	}
	if p.CachedSegments == 0 {
		p.CachedSegments = defaultCachedSegments
	}
	if p.LRUPortion == nil {
		p.LRUPortion = Float(defaultLRUPortion)
	}
	if p.HypothesisCheckPeriod == 0 {
		p.HypothesisCheckPeriod = defaultHypothesisCheckPeriod
	}
	if p.HypothesisCheckA == 0 {
		p.HypothesisCheckA = defaultHypothesisCheckA
	}
	if p.HypothesisCheckEpsilon == 0 {
		p.HypothesisCheckEpsilon = defaultHypothesisCheckEpsilon
	}
	if p.Threshold == nil {
		p.Threshold = Float(defaultThreshold)
	}
	return p
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// validate checks the defaulted parameters a kind actually uses.
func (p Params) validate(kind Kind, capacity int) error {
	if !kind.valid() {
		return invalid("unknown policy %d", uint8(kind))
	}
	if capacity <= 0 {
		return invalid("capacity must be positive, got %d", capacity)
	}
	switch kind {
	case KLRU:
		if p.Segments < 1 {
			return invalid("segments must be positive, got %d", p.Segments)
		}
		if p.CachedSegments < 1 || p.CachedSegments > p.Segments {
			return invalid("cached_segments must be in [1, %d], got %d", p.Segments, p.CachedSegments)
		}
		if capacity < p.CachedSegments {
			return invalid("capacity %d is smaller than cached_segments %d", capacity, p.CachedSegments)
		}
	}
	if kind == SS || kind.Windowed() {
		if p.Monitored < capacity {
			return invalid("monitored %d is smaller than capacity %d", p.Monitored, capacity)
		}
	}
	switch kind {
	case DSCA, TwoDSCA, DSCAFS, DSCAFT, ADSCASTK, ADSCAATK:
		if p.WindowSize < 1 {
			return invalid("window_size must be positive, got %d", p.WindowSize)
		}
	case DSCASW:
		if p.Subwindows < 1 {
			return invalid("subwindows must be positive, got %d", p.Subwindows)
		}
		if p.SubwindowSize < 1 {
			return invalid("subwindow_size must be positive, got %d", p.SubwindowSize)
		}
	case DSCAAWS, TwoDSCAAWS:
		if p.HypothesisCheckPeriod < 1 {
			return invalid("hypothesis_check_period must be positive, got %d", p.HypothesisCheckPeriod)
		}
		if p.HypothesisCheckA <= 0 || p.HypothesisCheckA >= 1 {
			return invalid("hypothesis_check_A must be in (0, 1), got %v", p.HypothesisCheckA)
		}
		if p.HypothesisCheckEpsilon <= 0 || p.HypothesisCheckEpsilon >= 1 {
			return invalid("hypothesis_check_epsilon must be in (0, 1), got %v", p.HypothesisCheckEpsilon)
		}
	}
	switch kind {
	case DSCAFS:
		if *p.LRUPortion < 0 || *p.LRUPortion > 1 {
			return invalid("lru_portion must be in [0, 1], got %v", *p.LRUPortion)
		}
	case DSCAFT:
		if *p.Threshold < 0 || *p.Threshold > 1 {
			return invalid("threshold must be in [0, 1], got %v", *p.Threshold)
		}
	}
	return nil
}

// ParamsFromMap reads parameters keyed by their snake_case names, as they
// appear in experiment definitions. Unknown names are rejected.
func ParamsFromMap(m map[string]any) (Params, error) {
	var p Params
	for name, v := range m {
		var err error
		switch name {
		case "window_size":
			p.WindowSize, err = intParam(name, v)
		case "subwindows":
			p.Subwindows, err = intParam(name, v)
		case "subwindow_size":
			p.SubwindowSize, err = intParam(name, v)
		case "monitored":
			p.Monitored, err = intParam(name, v)
		case "segments":
			p.Segments, err = intParam(name, v)
		case "cached_segments":
			p.CachedSegments, err = intParam(name, v)
		case "lru_portion":
			p.LRUPortion, err = optionalFloatParam(name, v)
		case "hypothesis_check_period":
			p.HypothesisCheckPeriod, err = intParam(name, v)
		case "hypothesis_check_A":
			p.HypothesisCheckA, err = floatParam(name, v)
		case "hypothesis_check_epsilon":
			p.HypothesisCheckEpsilon, err = floatParam(name, v)
		case "threshold":
			p.Threshold, err = optionalFloatParam(name, v)
		case "doorkeeper":
			p.Doorkeeper, err = boolParam(name, v)
		default:
			return Params{}, invalid("unknown parameter %q", name)
		}
		if err != nil {
			return Params{}, err
		}
	}
	return p, nil
}

func floatParam(name string, v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, invalid("parameter %s: %q is not a number", name, n)
		}
		return f, nil
	}
	return 0, invalid("parameter %s: %T is not a number", name, v)
}

func optionalFloatParam(name string, v any) (*float64, error) {
	f, err := floatParam(name, v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func intParam(name string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	}
	f, err := floatParam(name, v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, invalid("parameter %s: %v is not an integer", name, f)
	}
	return int(f), nil
}

func boolParam(name string, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err == nil {
			return parsed, nil
		}
	}
	return false, invalid("parameter %s: %v is not a boolean", name, v)
}
