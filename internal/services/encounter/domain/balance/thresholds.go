// Package balance selects monster rosters whose XP lands inside the budget
// band of a requested difficulty tier.
package balance

import (
	"errors"
	"fmt"

	"github.com/louisbranch/encounters/internal/services/encounter/domain/difficulty"
)

var (
	// ErrEmptyParty indicates thresholds were requested for no characters.
	ErrEmptyParty = errors.New("party has no members")
	// ErrInvalidLevel indicates a character level outside 1-20.
	ErrInvalidLevel = errors.New("character level out of range")
)

// MaxLevel is the highest character level with a threshold row.
const MaxLevel = 20

// levelThresholds holds the per-character easy, medium, hard, and deadly XP
// thresholds indexed by level-1.
var levelThresholds = [MaxLevel][4]int{
	{25, 50, 75, 100},
	{50, 100, 150, 200},
	{75, 150, 225, 400},
	{125, 250, 375, 500},
	{250, 500, 750, 1100},
	{300, 600, 900, 1400},
	{350, 750, 1100, 1700},
	{450, 900, 1400, 2100},
	{550, 1100, 1600, 2400},
	{600, 1200, 1900, 2800},
	{800, 1600, 2400, 3600},
	{1000, 2000, 3000, 4500},
	{1100, 2200, 3400, 5100},
	{1250, 2500, 3800, 5700},
	{1400, 2800, 4300, 6400},
	{1600, 3200, 4800, 7200},
	{2000, 3900, 5900, 8800},
	{2100, 4200, 6300, 9500},
	{2400, 4900, 7300, 10900},
	{2800, 5700, 8500, 12700},
}

// PartyThresholds holds the party XP threshold of each tier, indexed by
// difficulty.CRRatio.
type PartyThresholds [difficulty.Impossible + 1]int

// Thresholds sums the per-character thresholds of a party.
//
// Cakewalk is half of easy and Impossible is one and a half times deadly;
// the other tiers map onto easy, medium, hard, and deadly.
func Thresholds(levels []int) (PartyThresholds, error) {
	var t PartyThresholds
	if len(levels) == 0 {
		return t, ErrEmptyParty
	}
	var easy, medium, hard, deadly int
	for _, level := range levels {
		if level < 1 || level > MaxLevel {
			return PartyThresholds{}, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
		}
		row := levelThresholds[level-1]
		easy += row[0]
		medium += row[1]
		hard += row[2]
		deadly += row[3]
	}
	t[difficulty.Cakewalk] = easy / 2
	t[difficulty.Easy] = easy
	t[difficulty.Normal] = medium
	t[difficulty.Hard] = hard
	t[difficulty.Deadly] = deadly
	t[difficulty.Impossible] = deadly * 3 / 2
	return t, nil
}

// At returns the threshold of the tier, 0 when the tier is not valid.
func (t PartyThresholds) At(r difficulty.CRRatio) int {
	if !r.Valid() {
		return 0
	}
	return t[r]
}

// XPBand is the raw (pre-multiplier) XP range a roster must fall into.
// Floor is exclusive and Ceiling inclusive.
type XPBand struct {
	Floor     float64
	Ceiling   float64
	Unbounded bool
}

// Band returns the raw XP band of the tier for a roster with the given
// multiplier. The band runs from the tier threshold to the next tier's
// threshold; Impossible has no ceiling.
func (t PartyThresholds) Band(r difficulty.CRRatio, multiplier float64) (XPBand, error) {
	if !r.Valid() {
		return XPBand{}, fmt.Errorf("%w: %d", difficulty.ErrInvalidRatio, int(r))
	}
	if multiplier <= 0 {
		multiplier = 1
	}
	band := XPBand{Floor: float64(t[r]) / multiplier}
	next, ok := r.Next()
	if !ok {
		band.Unbounded = true
		return band, nil
	}
	band.Ceiling = float64(t[next]) / multiplier
	return band, nil
}

// Contains reports whether a raw XP total lies inside the band.
func (b XPBand) Contains(xp int) bool {
	v := float64(xp)
	if v <= b.Floor {
		return false
	}
	return b.Unbounded || v <= b.Ceiling
}

// Admits reports whether a single monster could still fit under the ceiling.
func (b XPBand) Admits(xp int) bool {
	return b.Unbounded || float64(xp) <= b.Ceiling
}
