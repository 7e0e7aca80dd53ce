package combatant

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SpellLevel is a spell or slot level; 0 is a cantrip.
type SpellLevel int

// MaxSpellLevel is the highest slot level.
const MaxSpellLevel SpellLevel = 9

// ErrInvalidSpellSlots indicates a slot table that cannot be used.
var ErrInvalidSpellSlots = errors.New("invalid spell slots")

// Valid reports whether l is in 0..9.
func (l SpellLevel) Valid() bool {
	return l >= 0 && l <= MaxSpellLevel
}

// SpellSlots holds remaining slots per level. Index 0 is always zero since
// cantrips do not consume slots.
type SpellSlots [MaxSpellLevel + 1]int

// NewSpellSlots validates per-level slot counts.
func NewSpellSlots(counts map[SpellLevel]int) (SpellSlots, error) {
	var slots SpellSlots
	for level, n := range counts {
		if level < 1 || level > MaxSpellLevel {
			return SpellSlots{}, fmt.Errorf("%w: level %d", ErrInvalidSpellSlots, level)
		}
		if n < 0 {
			return SpellSlots{}, fmt.Errorf("%w: negative count at level %d", ErrInvalidSpellSlots, level)
		}
		slots[level] = n
	}
	return slots, nil
}

// At returns the slots available at exactly the level.
func (s SpellSlots) At(level SpellLevel) int {
	if level < 1 || level > MaxSpellLevel {
		return 0
	}
	return s[level]
}

// AtOrAbove sums the slots at the level and every higher one.
func (s SpellSlots) AtOrAbove(level SpellLevel) int {
	if level < 1 {
		level = 1
	}
	total := 0
	for l := level; l <= MaxSpellLevel; l++ {
		total += s[l]
	}
	return total
}

// LowestAvailable returns the lowest level >= level with a slot remaining.
func (s SpellSlots) LowestAvailable(level SpellLevel) (SpellLevel, bool) {
	if level < 1 {
		level = 1
	}
	for l := level; l <= MaxSpellLevel; l++ {
		if s[l] > 0 {
			return l, true
		}
	}
	return 0, false
}

// HighestAvailable returns the highest level >= level with a slot remaining.
func (s SpellSlots) HighestAvailable(level SpellLevel) (SpellLevel, bool) {
	if level < 1 {
		level = 1
	}
	for l := MaxSpellLevel; l >= level; l-- {
		if s[l] > 0 {
			return l, true
		}
	}
	return 0, false
}

// Delivery selects how a damage spell resolves against its target.
type Delivery int

const (
	DeliveryAttack Delivery = iota
	DeliverySave
)

// DamageSpell is a spell that deals damage.
type DamageSpell struct {
	Name     string
	Level    SpellLevel
	Delivery Delivery
	Save     SaveDC
	// SlotDamage maps the slot level the spell is cast with to its damage.
	SlotDamage map[SpellLevel][]DamageComponent
	// CasterLevelDamage maps caster level thresholds to cantrip damage.
	CasterLevelDamage map[int][]DamageComponent
	// LimitedUses tags a private resource such as "1/long rest"; tagged
	// spells do not compete for slots.
	LimitedUses string
}

// Cantrip reports whether the spell is level 0.
func (s DamageSpell) Cantrip() bool { return s.Level == 0 }

// Limited reports whether the spell has its own usage limit.
func (s DamageSpell) Limited() bool { return strings.TrimSpace(s.LimitedUses) != "" }

// DamageAt returns the damage when cast with the slot level by a caster of the
// given level. Slot tables pick the highest entry not above slot; caster-level
// tables pick the highest threshold not above casterLevel.
func (s DamageSpell) DamageAt(slot SpellLevel, casterLevel int) []DamageComponent {
	if len(s.CasterLevelDamage) > 0 {
		if dmg, ok := floorEntry(s.CasterLevelDamage, casterLevel); ok {
			return dmg
		}
	}
	if len(s.SlotDamage) == 0 {
		return nil
	}
	levels := make(map[int][]DamageComponent, len(s.SlotDamage))
	for level, dmg := range s.SlotDamage {
		levels[int(level)] = dmg
	}
	if dmg, ok := floorEntry(levels, int(slot)); ok {
		return dmg
	}
	// Slot below every listed level: the lowest entry is the base damage.
	keys := sortedKeys(levels)
	return levels[keys[0]]
}

// HealingSpell is a spell that restores hit points.
type HealingSpell struct {
	Name        string
	Level       SpellLevel
	SlotHealing map[SpellLevel]string
	LimitedUses string
}

// Limited reports whether the spell carries its own limited-use tag.
func (s HealingSpell) Limited() bool { return strings.TrimSpace(s.LimitedUses) != "" }

// HealingAt returns the healing expression for the slot level; the highest
// entry not above slot wins.
func (s HealingSpell) HealingAt(slot SpellLevel) string {
	if len(s.SlotHealing) == 0 {
		return ""
	}
	levels := make(map[int]string, len(s.SlotHealing))
	for level, expr := range s.SlotHealing {
		levels[int(level)] = expr
	}
	if expr, ok := floorEntry(levels, int(slot)); ok {
		return expr
	}
	keys := sortedKeys(levels)
	return levels[keys[0]]
}

// Spellcasting is the spell resource pool of a combatant.
type Spellcasting struct {
	Ability       Ability
	AttackBonus   int
	SaveDC        int
	CasterLevel   int
	Slots         SpellSlots
	DamageSpells  []DamageSpell
	HealingSpells []HealingSpell
}

func floorEntry[V any](table map[int]V, key int) (V, bool) {
	var best V
	found := false
	bestKey := 0
	for k, v := range table {
		if k <= key && (!found || k > bestKey) {
			best, bestKey, found = v, k, true
		}
	}
	return best, found
}

func sortedKeys[V any](table map[int]V) []int {
	keys := make([]int, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
