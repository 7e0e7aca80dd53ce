// Package defense scales expected damage by the defending group's damage
// resistances and averages the group's armor and saving throws.
//
// The exact target of an attack is unknown at estimation time, so every
// figure here is an expectation over the whole defending group.
package defense

import (
	"strings"

	"github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"
	"golang.org/x/text/cases"
)

// Multipliers applied per defender.
const (
	ImmuneMultiplier     = 0.0
	ResistantMultiplier  = 0.5
	NormalMultiplier     = 1.0
	VulnerableMultiplier = 2.0
)

// normalize folds case for comparison. A Caser is stateful, so one is built
// per call to keep the package safe for concurrent estimators.
func normalize(damageType string) string {
	return cases.Fold().String(strings.TrimSpace(damageType))
}

func listed(types []string, key string) bool {
	for _, t := range types {
		if normalize(t) == key {
			return true
		}
	}
	return false
}

// Of returns the multiplier a single defender applies to the damage type.
// Immunity wins over resistance, which wins over vulnerability.
func Of(d combatant.Defenses, damageType string) float64 {
	key := normalize(damageType)
	if key == "" {
		return NormalMultiplier
	}
	switch {
	case listed(d.Immunities, key):
		return ImmuneMultiplier
	case listed(d.Resistances, key):
		return ResistantMultiplier
	case listed(d.Vulnerabilities, key):
		return VulnerableMultiplier
	default:
		return NormalMultiplier
	}
}

// Multiplier returns the weighted multiplier of the group for the damage type:
// fractionImmune*0 + fractionResistant*0.5 + fractionVulnerable*2 +
// fractionNormal*1. An empty group or damage type yields 1.
func Multiplier(damageType string, group combatant.Group) float64 {
	if len(group) == 0 {
		return NormalMultiplier
	}
	total := 0.0
	for _, c := range group {
		total += Of(c.CombatSheet().Defenses, damageType)
	}
	return total / float64(len(group))
}

// ApplyDefenses scales power by Multiplier.
func ApplyDefenses(power float64, damageType string, group combatant.Group) float64 {
	return power * Multiplier(damageType, group)
}

// AverageArmorClass returns the mean armor class of the group, 0 when empty.
func AverageArmorClass(group combatant.Group) float64 {
	if len(group) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range group {
		total += c.CombatSheet().ArmorClass()
	}
	return total / float64(len(group))
}

// AverageSaveBonus returns the mean save bonus of the group for the ability,
// 0 when empty.
func AverageSaveBonus(group combatant.Group, ability combatant.Ability) float64 {
	if len(group) == 0 {
		return 0
	}
	total := 0
	for _, c := range group {
		total += c.CombatSheet().SaveBonus(ability)
	}
	return float64(total) / float64(len(group))
}
