package balance

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/louisbranch/encounters/internal/services/encounter/domain/choice"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/difficulty"
)

// ErrNoFeasibleRoster indicates no roster was accepted within the restart cap.
var ErrNoFeasibleRoster = errors.New("no feasible monster roster")

// ErrInvalidConfig indicates balancer bounds that cannot be satisfied.
var ErrInvalidConfig = errors.New("invalid balancer config")

const (
	DefaultMinMonsters = 1
	DefaultMaxMonsters = 15
	DefaultMaxSamples  = 1000
	DefaultMaxRestarts = 100
)

// Entry is a monster catalog row as seen by the balancer.
type Entry struct {
	Index           string
	Name            string
	XP              int
	ChallengeRating float64
}

// Config bounds the roster size and the sampling loop.
type Config struct {
	MinMonsters int
	MaxMonsters int
	// MaxSamples is the number of consecutive rejected samples before the
	// balancer rolls a new monster count.
	MaxSamples int
	// MaxRestarts is the number of new monster counts tried before giving up.
	MaxRestarts int
}

// DefaultConfig returns the standard bounds.
func DefaultConfig() Config {
	return Config{
		MinMonsters: DefaultMinMonsters,
		MaxMonsters: DefaultMaxMonsters,
		MaxSamples:  DefaultMaxSamples,
		MaxRestarts: DefaultMaxRestarts,
	}
}

func (c Config) withDefaults() Config {
	if c.MinMonsters == 0 {
		c.MinMonsters = DefaultMinMonsters
	}
	if c.MaxMonsters == 0 {
		c.MaxMonsters = DefaultMaxMonsters
	}
	if c.MaxSamples == 0 {
		c.MaxSamples = DefaultMaxSamples
	}
	if c.MaxRestarts == 0 {
		c.MaxRestarts = DefaultMaxRestarts
	}
	return c
}

// Validate checks the bounds after defaults are applied.
func (c Config) Validate() error {
	c = c.withDefaults()
	switch {
	case c.MinMonsters < 1:
		return fmt.Errorf("%w: min monsters %d", ErrInvalidConfig, c.MinMonsters)
	case c.MaxMonsters < c.MinMonsters:
		return fmt.Errorf("%w: max monsters %d below min %d", ErrInvalidConfig, c.MaxMonsters, c.MinMonsters)
	case c.MaxSamples < 1:
		return fmt.Errorf("%w: max samples %d", ErrInvalidConfig, c.MaxSamples)
	case c.MaxRestarts < 0:
		return fmt.Errorf("%w: max restarts %d", ErrInvalidConfig, c.MaxRestarts)
	}
	return nil
}

// Selection is an accepted roster and the parameters that produced it.
type Selection struct {
	Entries    []Entry
	Count      int
	Multiplier float64
	Band       XPBand
	TotalXP    int
	// AdjustedXP is TotalXP scaled by Multiplier.
	AdjustedXP float64
	Samples    int
	Restarts   int
}

// Indices returns the catalog indices of the chosen monsters.
func (s Selection) Indices() []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Index
	}
	return out
}

// Balancer picks monster rosters by bounded rejection sampling.
type Balancer struct {
	cfg Config
}

// NewBalancer validates cfg and returns a Balancer.
func NewBalancer(cfg Config) (*Balancer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Balancer{cfg: cfg.withDefaults()}, nil
}

// Config returns the effective configuration.
func (b *Balancer) Config() Config { return b.cfg }

// Select draws a roster for the party whose raw XP lies inside the band of
// ratio.
//
// Each cycle rolls a monster count, derives the band from the count's
// multiplier, and filters the pool to monsters under the ceiling. Cycles
// whose filtered pool cannot supply count distinct monsters restart at once;
// otherwise up to MaxSamples rosters are drawn without replacement before
// restarting. After MaxRestarts restarts Select fails with
// ErrNoFeasibleRoster.
func (b *Balancer) Select(partyLevels []int, ratio difficulty.CRRatio, pool []Entry, rng *rand.Rand) (Selection, error) {
	if !ratio.Valid() {
		return Selection{}, fmt.Errorf("%w: %d", difficulty.ErrInvalidRatio, int(ratio))
	}
	thresholds, err := Thresholds(partyLevels)
	if err != nil {
		return Selection{}, err
	}
	if rng == nil {
		return Selection{}, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}

	spread := b.cfg.MaxMonsters - b.cfg.MinMonsters + 1
	samples := 0
	for restart := 0; restart <= b.cfg.MaxRestarts; restart++ {
		count := b.cfg.MinMonsters + rng.Intn(spread)
		multiplier := Multiplier(count, len(partyLevels))
		band, err := thresholds.Band(ratio, multiplier)
		if err != nil {
			return Selection{}, err
		}

		candidates := filter(pool, band)
		if len(candidates) < count {
			continue
		}
		for attempt := 0; attempt < b.cfg.MaxSamples; attempt++ {
			samples++
			picked := choice.SelectRandom(candidates, count, rng)
			total := totalXP(picked)
			if !band.Contains(total) {
				continue
			}
			return Selection{
				Entries:    picked,
				Count:      count,
				Multiplier: multiplier,
				Band:       band,
				TotalXP:    total,
				AdjustedXP: float64(total) * multiplier,
				Samples:    samples,
				Restarts:   restart,
			}, nil
		}
	}
	return Selection{}, fmt.Errorf("%w: %s after %d restarts and %d samples",
		ErrNoFeasibleRoster, ratio, b.cfg.MaxRestarts, samples)
}

func filter(pool []Entry, band XPBand) []Entry {
	out := make([]Entry, 0, len(pool))
	for _, e := range pool {
		if band.Admits(e.XP) {
			out = append(out, e)
		}
	}
	return out
}

func totalXP(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.XP
	}
	return total
}
