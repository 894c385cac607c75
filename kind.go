package dsca

import (
	"fmt"
	"strings"
)

// Kind selects the eviction policy a cache is built with.
type Kind uint8

const (
	LRU Kind = iota + 1
	KLRU
	ARC
	SS
	DSCA
	TwoDSCA
	DSCASW
	DSCAFS
	DSCAFT
	DSCAAWS
	TwoDSCAAWS
	ADSCASTK
	ADSCAATK
	TLFU
)

var kindNames = [...]string{
	LRU:        "LRU",
	KLRU:       "KLRU",
	ARC:        "ARC",
	SS:         "SS",
	DSCA:       "DSCA",
	TwoDSCA:    "2DSCA",
	DSCASW:     "DSCASW",
	DSCAFS:     "DSCAFS",
	DSCAFT:     "DSCAFT",
	DSCAAWS:    "DSCAAWS",
	TwoDSCAAWS: "2DSCAAWS",
	ADSCASTK:   "ADSCASTK",
	ADSCAATK:   "ADSCAATK",
	TLFU:       "TLFU",
}

// Kinds returns every policy kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames)-1)
	for k := LRU; k <= TLFU; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) String() string {
	if k.valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) valid() bool { return k >= LRU && k <= TLFU }

// Windowed reports whether caches of this kind recompute a top-k set at
// window boundaries.
func (k Kind) Windowed() bool {
	switch k {
	case DSCA, TwoDSCA, DSCASW, DSCAFS, DSCAFT, DSCAAWS, TwoDSCAAWS, ADSCASTK, ADSCAATK:
		return true
	}
	return false
}

// ParseKind resolves a policy name, case insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, k := range Kinds() {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("%w: unknown policy %d", ErrInvalidConfig, uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
