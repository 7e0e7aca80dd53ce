package power

import "github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"

const hoverBonus = 10

// BaseStats scores the non-offensive stats of a combatant: movement, raw
// ability scores, and skill modifiers, with members also credited with their
// proficiency bonus for each expertise skill.
//
// Walking and flying count in full; swimming, climbing, and burrowing count
// for half.
func BaseStats(c combatant.Combatant) float64 {
	sheet := c.CombatSheet()
	mv := sheet.Movement
	total := float64(mv.Walk+mv.Fly) + float64(mv.Swim+mv.Climb+mv.Burrow)/2
	if mv.Hover {
		total += hoverBonus
	}
	total += float64(sheet.Abilities.Total())
	for _, modifier := range sheet.Skills {
		total += float64(modifier)
	}
	if member, ok := c.(*combatant.Member); ok {
		total += float64(len(member.ExpertiseSkills()) * sheet.ProficiencyBonus)
	}
	return total
}
