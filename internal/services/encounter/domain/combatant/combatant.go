// Package combatant defines the combat-relevant view of party members and
// monsters consumed by the estimator.
//
// Values are built once by a catalog or character builder and treated as
// read-only afterwards; the estimator returns derived figures instead of
// writing them back.
package combatant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/encounters/internal/services/encounter/domain/choice"
)

// Kind distinguishes combatant variants.
type Kind int

const (
	KindUnspecified Kind = iota
	KindMember
	KindMonster
)

func (k Kind) String() string {
	switch k {
	case KindMember:
		return "member"
	case KindMonster:
		return "monster"
	default:
		return "unspecified"
	}
}

// Ability is one of the six ability scores.
type Ability int

const (
	Strength Ability = iota
	Dexterity
	Constitution
	Intelligence
	Wisdom
	Charisma
)

// ErrInvalidAbility indicates an unknown ability name.
var ErrInvalidAbility = errors.New("invalid ability")

var abilityNames = [...]string{"str", "dex", "con", "int", "wis", "cha"}

func (a Ability) String() string {
	if a < Strength || a > Charisma {
		return "unknown"
	}
	return abilityNames[a]
}

// ParseAbility accepts short ("dex") or long ("dexterity") names.
func ParseAbility(value string) (Ability, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if len(name) >= 3 {
		for i, short := range abilityNames {
			if strings.HasPrefix(name, short) {
				return Ability(i), nil
			}
		}
	}
	return Strength, fmt.Errorf("%w: %q", ErrInvalidAbility, value)
}

// AbilityScores holds raw scores indexed by Ability.
type AbilityScores [6]int

// Modifier returns floor((score-10)/2).
func (s AbilityScores) Modifier(a Ability) int {
	score := s[a]
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// Total sums the six raw scores.
func (s AbilityScores) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Defenses lists damage types the combatant resists, ignores, or takes double
// damage from.
type Defenses struct {
	Resistances     []string
	Immunities      []string
	Vulnerabilities []string
}

// Movement lists speeds in feet per movement mode.
type Movement struct {
	Walk   int
	Fly    int
	Swim   int
	Climb  int
	Burrow int
	Hover  bool
}

// Sheet carries the stats shared by every combatant variant.
type Sheet struct {
	Name             string
	ArmorClasses     []int
	HitPoints        int
	Abilities        AbilityScores
	SaveBonuses      [6]int
	ProficiencyBonus int
	Defenses         Defenses
	Actions          []AttackAction
	Spellcasting     *Spellcasting
	ExtraAttacks     int
	Movement         Movement
	Skills           map[string]int
}

// ArmorClass returns the mean of the conditional armor class values, or 10
// when none are declared.
func (s *Sheet) ArmorClass() float64 {
	if len(s.ArmorClasses) == 0 {
		return 10
	}
	total := 0
	for _, ac := range s.ArmorClasses {
		total += ac
	}
	return float64(total) / float64(len(s.ArmorClasses))
}

// SaveBonus returns the saving throw bonus for the ability.
func (s *Sheet) SaveBonus(a Ability) int {
	if a < Strength || a > Charisma {
		return 0
	}
	return s.SaveBonuses[a]
}

// Action looks up a declared action by name, ignoring case and surrounding
// whitespace.
func (s *Sheet) Action(name string) (AttackAction, bool) {
	key := strings.TrimSpace(name)
	for _, action := range s.Actions {
		if strings.EqualFold(strings.TrimSpace(action.Name), key) {
			return action, true
		}
	}
	return AttackAction{}, false
}

// Combatant is implemented by Member and Monster.
type Combatant interface {
	CombatSheet() *Sheet
	Kind() Kind
}

// Member is a player character.
type Member struct {
	Sheet
	Class      string
	Level      int
	Race       string
	Selections []choice.Selection
}

// CombatSheet implements Combatant.
func (m *Member) CombatSheet() *Sheet { return &m.Sheet }

// Kind implements Combatant.
func (m *Member) Kind() Kind { return KindMember }

// ExpertiseSkills returns the skills picked through expertise selections.
func (m *Member) ExpertiseSkills() []string {
	var skills []string
	for _, sel := range m.Selections {
		if sel.Category == choice.CategoryExpertise {
			skills = append(skills, sel.Picked...)
		}
	}
	return skills
}

// Monster is a catalog creature.
type Monster struct {
	Sheet
	Index           string
	ChallengeRating float64
	XP              int
	CreatureType    string
}

// CombatSheet implements Combatant.
func (m *Monster) CombatSheet() *Sheet { return &m.Sheet }

// Kind implements Combatant.
func (m *Monster) Kind() Kind { return KindMonster }

// Group is one side of an encounter.
type Group []Combatant

// HitPoints sums the hit points of the group.
func (g Group) HitPoints() int {
	total := 0
	for _, c := range g {
		total += c.CombatSheet().HitPoints
	}
	return total
}

// Members wraps members as a Group.
func Members(members []*Member) Group {
	group := make(Group, 0, len(members))
	for _, m := range members {
		group = append(group, m)
	}
	return group
}

// Monsters wraps monsters as a Group.
func Monsters(monsters []*Monster) Group {
	group := make(Group, 0, len(monsters))
	for _, m := range monsters {
		group = append(group, m)
	}
	return group
}

var (
	_ Combatant = (*Member)(nil)
	_ Combatant = (*Monster)(nil)
)
