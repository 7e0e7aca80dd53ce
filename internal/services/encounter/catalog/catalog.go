// Package catalog holds the immutable monster, character, and spell tables
// the encounter engine reads from.
//
// A Catalog is built once from a File and never modified; it is safe to share
// across goroutines. Party assembly returns fresh Member values so open
// feature choices can be resolved per encounter.
package catalog

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/louisbranch/encounters/internal/services/encounter/domain/balance"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/choice"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"
)

// SystemID is the only supported rules system.
const SystemID = "dnd5e"

var (
	// ErrInvalidCatalog wraps every validation failure.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrUnknownSpell indicates a spellcasting block referencing a missing spell.
	ErrUnknownSpell = errors.New("unknown spell")
	// ErrNoMembers indicates party assembly from a catalog without characters.
	ErrNoMembers = errors.New("catalog has no characters")
	// ErrUnknownMember indicates a party request naming a missing character.
	ErrUnknownMember = errors.New("unknown character")
)

// spell is a resolved catalog spell of either kind.
type spell struct {
	damage  *combatant.DamageSpell
	healing *combatant.HealingSpell
}

// memberTemplate is a character before its open choices are resolved.
type memberTemplate struct {
	member  combatant.Member
	choices []choice.Choice
}

// Catalog is the read-only lookup table of monsters, characters, and spells.
type Catalog struct {
	monsters map[string]*combatant.Monster
	entries  []balance.Entry
	members  []memberTemplate
	spells   map[string]spell
}

// New validates f and builds a Catalog. All validation failures are
// reported together, each wrapping ErrInvalidCatalog.
func New(f File) (*Catalog, error) {
	if id := strings.TrimSpace(f.SystemID); id != "" && id != SystemID {
		return nil, fmt.Errorf("%w: unsupported system id %q", ErrInvalidCatalog, id)
	}
	c := &Catalog{
		monsters: make(map[string]*combatant.Monster, len(f.Monsters)),
		spells:   make(map[string]spell, len(f.Spells)),
	}
	var errs []error
	for _, rec := range f.Spells {
		key := normalizeKey(rec.Index)
		if key == "" {
			errs = append(errs, fmt.Errorf("%w: spell %q has no index", ErrInvalidCatalog, rec.Name))
			continue
		}
		if _, dup := c.spells[key]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate spell %q", ErrInvalidCatalog, rec.Index))
			continue
		}
		s, err := convertSpell(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.spells[key] = s
	}

	for _, rec := range f.Monsters {
		key := normalizeKey(rec.Index)
		if key == "" {
			errs = append(errs, fmt.Errorf("%w: monster %q has no index", ErrInvalidCatalog, rec.Name))
			continue
		}
		if _, dup := c.monsters[key]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate monster %q", ErrInvalidCatalog, rec.Index))
			continue
		}
		m, err := c.convertMonster(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.monsters[key] = m
		c.entries = append(c.entries, balance.Entry{
			Index:           m.Index,
			Name:            m.Name,
			XP:              m.XP,
			ChallengeRating: m.ChallengeRating,
		})
	}

	for _, rec := range f.Members {
		tmpl, err := c.convertMember(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.members = append(c.members, tmpl)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].Index < c.entries[j].Index })
	return c, nil
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// MonsterEntries returns the balancer view of every monster, ordered by index.
// The returned slice is a copy.
func (c *Catalog) MonsterEntries() []balance.Entry {
	return append([]balance.Entry(nil), c.entries...)
}

// Monster looks up a monster by index, ignoring case.
func (c *Catalog) Monster(index string) (*combatant.Monster, bool) {
	m, ok := c.monsters[normalizeKey(index)]
	return m, ok
}

// MonsterCount returns the number of monsters.
func (c *Catalog) MonsterCount() int { return len(c.monsters) }

// MemberCount returns the number of character templates.
func (c *Catalog) MemberCount() int { return len(c.members) }

// SpellCount returns the number of spells.
func (c *Catalog) SpellCount() int { return len(c.spells) }

// MemberNames returns the names of the character templates in catalog order.
func (c *Catalog) MemberNames() []string {
	names := make([]string, len(c.members))
	for i, t := range c.members {
		names[i] = t.member.Name
	}
	return names
}

// RandomParty assembles size characters drawn uniformly with replacement.
func (c *Catalog) RandomParty(size int, rng *rand.Rand) ([]*combatant.Member, error) {
	if len(c.members) == 0 {
		return nil, ErrNoMembers
	}
	party := make([]*combatant.Member, 0, size)
	for i := 0; i < size; i++ {
		party = append(party, c.members[rng.Intn(len(c.members))].assemble(c, rng))
	}
	return party, nil
}

// Party assembles the named characters in order.
func (c *Catalog) Party(names []string, rng *rand.Rand) ([]*combatant.Member, error) {
	party := make([]*combatant.Member, 0, len(names))
	for _, name := range names {
		tmpl, ok := c.member(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMember, name)
		}
		party = append(party, tmpl.assemble(c, rng))
	}
	return party, nil
}

func (c *Catalog) member(name string) (memberTemplate, bool) {
	key := normalizeKey(name)
	for _, t := range c.members {
		if normalizeKey(t.member.Name) == key {
			return t, true
		}
	}
	return memberTemplate{}, false
}

// assemble resolves the template's open choices into a new Member. Picked
// spells are added to the copy's spellcasting; the template is left
// untouched. Expertise stays a selection and is scored by the estimator.
func (t memberTemplate) assemble(c *Catalog, rng *rand.Rand) *combatant.Member {
	m := t.member
	m.Selections = choice.ResolveAll(t.choices, rng)
	if t.member.Spellcasting != nil {
		casting := *t.member.Spellcasting
		casting.DamageSpells = append([]combatant.DamageSpell(nil), casting.DamageSpells...)
		casting.HealingSpells = append([]combatant.HealingSpell(nil), casting.HealingSpells...)
		m.Spellcasting = &casting
	}
	for _, sel := range m.Selections {
		if sel.Category != choice.CategorySpell || m.Spellcasting == nil {
			continue
		}
		for _, index := range sel.Picked {
			s := c.spells[normalizeKey(index)]
			if s.damage != nil {
				m.Spellcasting.DamageSpells = append(m.Spellcasting.DamageSpells, *s.damage)
			} else if s.healing != nil {
				m.Spellcasting.HealingSpells = append(m.Spellcasting.HealingSpells, *s.healing)
			}
		}
	}
	return &m
}
