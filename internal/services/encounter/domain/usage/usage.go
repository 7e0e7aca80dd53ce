// Package usage estimates the fraction of encounters in which a limited
// resource is available.
package usage

import (
	"github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/dice"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/difficulty"
)

// Factor returns the usage factor of an action or feature.
//
// Unlimited resources return 1. Recharge resources return the chance of
// rolling MinValue or more on their die. Per-rest resources are spread over
// the encounters of the day, approximated by the difficulty weight. Results
// are clamped to [0, 1].
func Factor(u combatant.Usage, ratio difficulty.CRRatio) float64 {
	switch u.Kind {
	case combatant.UsageRecharge:
		return dice.RollSuccessProbability(u.MinValue, 0, u.DieSize)
	case combatant.UsagePerRest:
		return perDay(float64(u.Times), ratio)
	default:
		return 1
	}
}

func perDay(times float64, ratio difficulty.CRRatio) float64 {
	weight := ratio.Weight()
	if weight <= 0 || times <= 0 {
		return 0
	}
	return clamp01(times / float64(weight))
}

// SpellUsagePercentage returns how often a damage spell can be cast.
//
//   - Cantrips are always available.
//   - Spells with their own limited-use tag are available once per day.
//   - Otherwise the slots at or above the spell level are shared among the
//     unlimited leveled damage spells at or below that level, and the share
//     is spread over the encounters of the day.
func SpellUsagePercentage(spell combatant.DamageSpell, casting *combatant.Spellcasting, ratio difficulty.CRRatio) float64 {
	if spell.Cantrip() {
		return 1
	}
	if spell.Limited() {
		return perDay(1, ratio)
	}
	if casting == nil {
		return 0
	}
	slots := casting.Slots.AtOrAbove(spell.Level)
	if slots == 0 {
		return 0
	}
	competitors := competingSpells(spell.Level, casting.DamageSpells)
	if competitors == 0 {
		// The spell is not in its own caster's list; it competes alone.
		competitors = 1
	}
	avgSlotsPerSpell := float64(slots) / float64(competitors)
	return perDay(avgSlotsPerSpell, ratio)
}

func competingSpells(level combatant.SpellLevel, spells []combatant.DamageSpell) int {
	count := 0
	for _, s := range spells {
		if s.Cantrip() || s.Limited() {
			continue
		}
		if s.Level <= level {
			count++
		}
	}
	return count
}

// HealingAvailable reports whether a healing spell can be cast at all and the
// best slot level to cast it with.
func HealingAvailable(spell combatant.HealingSpell, casting *combatant.Spellcasting) (combatant.SpellLevel, bool) {
	if spell.Level == 0 {
		return 0, true
	}
	if casting == nil {
		return 0, false
	}
	return casting.Slots.HighestAvailable(spell.Level)
}

// HealingUsagePercentage returns how often a castable healing spell is used:
// once per day when it carries a limited-use tag and every round otherwise.
func HealingUsagePercentage(spell combatant.HealingSpell, ratio difficulty.CRRatio) float64 {
	if spell.Limited() {
		return perDay(1, ratio)
	}
	return 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
