// Package choice models feature option trees as a closed set of variants.
//
// Each variant lists its options and how many to take; Select resolves it
// into a Selection with the package-level SelectRandom contract: a uniform
// subset without replacement, kept in declaration order.
package choice

import (
	"math/rand"
	"sort"
)

// Category names a game-rule choice category.
type Category int

const (
	CategoryUnspecified Category = iota
	CategoryExpertise
	CategoryEnemyType
	CategoryTerrainType
	CategorySubfeature
	CategorySpell
)

func (c Category) String() string {
	switch c {
	case CategoryExpertise:
		return "expertise"
	case CategoryEnemyType:
		return "enemy_type"
	case CategoryTerrainType:
		return "terrain_type"
	case CategorySubfeature:
		return "subfeature"
	case CategorySpell:
		return "spell"
	default:
		return "unspecified"
	}
}

// Choice is implemented only by the variants in this package.
type Choice interface {
	Category() Category
	// Select resolves the choice with rng.
	Select(rng *rand.Rand) Selection
	sealed()
}

// Selection is a resolved choice.
type Selection struct {
	Category Category
	// Feature names the granting feature, when known.
	Feature string
	Picked  []string
}

// SelectRandom returns count distinct elements of options chosen uniformly,
// in their original order. A count at or above len(options) returns a copy of
// every option; a non-positive count returns nil.
func SelectRandom[T any](options []T, count int, rng *rand.Rand) []T {
	if count <= 0 || len(options) == 0 {
		return nil
	}
	if count >= len(options) {
		return append([]T(nil), options...)
	}
	idx := rng.Perm(len(options))[:count]
	sort.Ints(idx)
	picked := make([]T, 0, count)
	for _, i := range idx {
		picked = append(picked, options[i])
	}
	return picked
}

// Expertise doubles proficiency for Choose of Skills.
type Expertise struct {
	Feature string
	Skills  []string
	Choose  int
}

func (Expertise) Category() Category { return CategoryExpertise }

func (c Expertise) Select(rng *rand.Rand) Selection {
	return Selection{Category: CategoryExpertise, Feature: c.Feature, Picked: SelectRandom(c.Skills, c.Choose, rng)}
}

func (Expertise) sealed() {}

// EnemyType picks favored enemy creature types.
type EnemyType struct {
	Feature string
	Types   []string
	Choose  int
}

func (EnemyType) Category() Category { return CategoryEnemyType }

func (c EnemyType) Select(rng *rand.Rand) Selection {
	return Selection{Category: CategoryEnemyType, Feature: c.Feature, Picked: SelectRandom(c.Types, c.Choose, rng)}
}

func (EnemyType) sealed() {}

// TerrainType picks favored terrains.
type TerrainType struct {
	Feature  string
	Terrains []string
	Choose   int
}

func (TerrainType) Category() Category { return CategoryTerrainType }

func (c TerrainType) Select(rng *rand.Rand) Selection {
	return Selection{Category: CategoryTerrainType, Feature: c.Feature, Picked: SelectRandom(c.Terrains, c.Choose, rng)}
}

func (TerrainType) sealed() {}

// Subfeature picks among the sub-options of a feature, e.g. a fighting style.
type Subfeature struct {
	Feature string
	Options []string
	Choose  int
}

func (Subfeature) Category() Category { return CategorySubfeature }

func (c Subfeature) Select(rng *rand.Rand) Selection {
	return Selection{Category: CategorySubfeature, Feature: c.Feature, Picked: SelectRandom(c.Options, c.Choose, rng)}
}

func (Subfeature) sealed() {}

// SpellChoice picks spells by catalog index.
type SpellChoice struct {
	Feature string
	Spells  []string
	Choose  int
}

func (SpellChoice) Category() Category { return CategorySpell }

func (c SpellChoice) Select(rng *rand.Rand) Selection {
	return Selection{Category: CategorySpell, Feature: c.Feature, Picked: SelectRandom(c.Spells, c.Choose, rng)}
}

func (SpellChoice) sealed() {}

// ResolveAll resolves choices in order.
func ResolveAll(choices []Choice, rng *rand.Rand) []Selection {
	if len(choices) == 0 {
		return nil
	}
	selections := make([]Selection, 0, len(choices))
	for _, c := range choices {
		selections = append(selections, c.Select(rng))
	}
	return selections
}

var (
	_ Choice = Expertise{}
	_ Choice = EnemyType{}
	_ Choice = TerrainType{}
	_ Choice = Subfeature{}
	_ Choice = SpellChoice{}
)
