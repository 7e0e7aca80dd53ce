// Package difficulty defines the ordered encounter difficulty scale.
//
// Each tier carries an integer weight. The weight selects the XP threshold for
// the tier and doubles as the number of encounters expected in an adventuring
// day at that tier, so daily resources are divided by it.
package difficulty

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// CRRatio is one tier of the difficulty scale.
type CRRatio int

const (
	Unspecified CRRatio = iota
	Cakewalk
	Easy
	Normal
	Hard
	Deadly
	Impossible
)

// ErrInvalidRatio indicates an unknown difficulty tier.
var ErrInvalidRatio = errors.New("invalid difficulty")

// ErrInvalidDistribution indicates a malformed difficulty distribution.
var ErrInvalidDistribution = errors.New("invalid difficulty distribution")

// All lists the tiers from easiest to hardest.
var All = []CRRatio{Cakewalk, Easy, Normal, Hard, Deadly, Impossible}

// Weight returns the numeric weight of the tier, 0 when unspecified.
func (r CRRatio) Weight() int {
	if !r.Valid() {
		return 0
	}
	return int(r)
}

// Valid reports whether r is one of the defined tiers.
func (r CRRatio) Valid() bool {
	return r >= Cakewalk && r <= Impossible
}

// Next returns the following tier, or false for Impossible.
func (r CRRatio) Next() (CRRatio, bool) {
	if !r.Valid() || r == Impossible {
		return Unspecified, false
	}
	return r + 1, true
}

func (r CRRatio) String() string {
	switch r {
	case Cakewalk:
		return "cakewalk"
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	case Deadly:
		return "deadly"
	case Impossible:
		return "impossible"
	default:
		return "unspecified"
	}
}

// Parse resolves a tier by name, case-insensitively.
func Parse(value string) (CRRatio, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	for _, r := range All {
		if r.String() == name {
			return r, nil
		}
	}
	return Unspecified, fmt.Errorf("%w: %q", ErrInvalidRatio, value)
}

// Distribution is a weighted choice over tiers.
type Distribution struct {
	entries []distributionEntry
	total   int
}

type distributionEntry struct {
	ratio  CRRatio
	weight int
}

// NewDistribution builds a distribution from per-tier weights. Zero weights
// are dropped; at least one tier must have a positive weight.
func NewDistribution(weights map[CRRatio]int) (Distribution, error) {
	var dist Distribution
	for _, r := range All {
		w, ok := weights[r]
		if !ok || w == 0 {
			continue
		}
		if w < 0 {
			return Distribution{}, fmt.Errorf("%w: negative weight for %s", ErrInvalidDistribution, r)
		}
		dist.entries = append(dist.entries, distributionEntry{ratio: r, weight: w})
		dist.total += w
	}
	for r := range weights {
		if !r.Valid() {
			return Distribution{}, fmt.Errorf("%w: %d", ErrInvalidRatio, int(r))
		}
	}
	if dist.total == 0 {
		return Distribution{}, fmt.Errorf("%w: no positive weights", ErrInvalidDistribution)
	}
	return dist, nil
}

// ParseDistribution parses "easy=2,hard=1". A bare tier name has weight 1.
func ParseDistribution(value string) (Distribution, error) {
	weights := map[CRRatio]int{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, rawWeight, hasWeight := strings.Cut(part, "=")
		r, err := Parse(name)
		if err != nil {
			return Distribution{}, err
		}
		weight := 1
		if hasWeight {
			weight, err = strconv.Atoi(strings.TrimSpace(rawWeight))
			if err != nil {
				return Distribution{}, fmt.Errorf("%w: weight %q", ErrInvalidDistribution, rawWeight)
			}
		}
		weights[r] += weight
	}
	return NewDistribution(weights)
}

// Pick draws one tier proportionally to its weight.
func (d Distribution) Pick(rng *rand.Rand) CRRatio {
	if d.total == 0 {
		return Normal
	}
	n := rng.Intn(d.total)
	for _, e := range d.entries {
		if n < e.weight {
			return e.ratio
		}
		n -= e.weight
	}
	return d.entries[len(d.entries)-1].ratio
}

// String renders the distribution in ParseDistribution form.
func (d Distribution) String() string {
	parts := make([]string, 0, len(d.entries))
	for _, e := range d.entries {
		parts = append(parts, fmt.Sprintf("%s=%d", e.ratio, e.weight))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
