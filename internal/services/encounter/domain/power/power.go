// Package power estimates the expected damage and healing a combatant
// produces per round against an opposing group, without simulating turns.
//
// An Estimator holds the difficulty tier that spreads daily resources and the
// random source used for damage choices and magic sub-actions. It is not safe
// for concurrent use; build one per encounter.
package power

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/louisbranch/encounters/internal/services/encounter/domain/choice"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/defense"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/dice"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/difficulty"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/usage"
)

var (
	// ErrUnresolvedAction indicates a multi-attack step names no declared action.
	ErrUnresolvedAction = errors.New("unresolved multi-attack reference")
	// ErrActionCycle indicates multi-attacks that reference each other.
	ErrActionCycle = errors.New("multi-attack reference cycle")
	// ErrMissingSave indicates a save action without a difficulty class.
	ErrMissingSave = errors.New("save action has no difficulty class")
)

// MagicReference is the Reference of an UnresolvedActionError raised by a
// magic step on a combatant with no damage spells.
const MagicReference = "magic"

// UnresolvedActionError identifies the record holding a bad reference.
type UnresolvedActionError struct {
	Combatant string
	Action    string
	Reference string
}

// Error implements the error interface.
func (e *UnresolvedActionError) Error() string {
	if e.Reference == MagicReference {
		return fmt.Sprintf("%s: action %q has a magic step but no damage spells", e.Combatant, e.Action)
	}
	return fmt.Sprintf("%s: action %q references unknown action %q", e.Combatant, e.Action, e.Reference)
}

// Is matches ErrUnresolvedAction.
func (e *UnresolvedActionError) Is(target error) bool {
	return target == ErrUnresolvedAction
}

// Offense breaks down the offensive output of one combatant.
type Offense struct {
	// Weapon is the per-action average multiplied by extra attacks.
	Weapon float64
	// Spell is the average over known damage spells.
	Spell float64
	Total float64
	// Actions and Spells count the contributing entries.
	Actions int
	Spells  int
}

// Estimate is the derived power of one combatant.
type Estimate struct {
	Name      string
	Kind      combatant.Kind
	Offense   Offense
	Healing   float64
	BaseStats float64
}

// Side aggregates the estimates of one side of an encounter.
type Side struct {
	Offense   float64
	Healing   float64
	HitPoints int
	Estimates []Estimate
}

// Estimator computes power figures for one encounter.
type Estimator struct {
	ratio difficulty.CRRatio
	rng   *rand.Rand
}

// New returns an Estimator for the tier. A nil rng is replaced by a fixed
// seed so estimates stay reproducible.
func New(ratio difficulty.CRRatio, rng *rand.Rand) *Estimator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Estimator{ratio: ratio, rng: rng}
}

// Ratio returns the tier used for usage factors.
func (e *Estimator) Ratio() difficulty.CRRatio { return e.ratio }

// EstimateSide estimates every combatant of side against opposing.
func (e *Estimator) EstimateSide(side, opposing combatant.Group) (Side, error) {
	result := Side{HitPoints: side.HitPoints(), Estimates: make([]Estimate, 0, len(side))}
	for _, c := range side {
		est, err := e.Estimate(c, opposing)
		if err != nil {
			return Side{}, err
		}
		result.Offense += est.Offense.Total
		result.Healing += est.Healing
		result.Estimates = append(result.Estimates, est)
	}
	return result, nil
}

// Estimate computes offense, healing, and base stats for c.
func (e *Estimator) Estimate(c combatant.Combatant, opposing combatant.Group) (Estimate, error) {
	offense, err := e.Offense(c, opposing)
	if err != nil {
		return Estimate{}, err
	}
	healing, err := e.Healing(c)
	if err != nil {
		return Estimate{}, err
	}
	return Estimate{
		Name:      c.CombatSheet().Name,
		Kind:      c.Kind(),
		Offense:   offense,
		Healing:   healing,
		BaseStats: BaseStats(c),
	}, nil
}

// Offense estimates the damage per round of attacker against defenders.
//
// Actions are averaged rather than summed so a creature with many weak
// options does not outscore one with a single strong option. An empty
// defending group yields zero.
func (e *Estimator) Offense(attacker combatant.Combatant, defenders combatant.Group) (Offense, error) {
	if len(defenders) == 0 {
		return Offense{}, nil
	}
	sheet := attacker.CombatSheet()

	var result Offense
	actionTotal := 0.0
	for _, action := range sheet.Actions {
		if !action.Offensive() {
			continue
		}
		p, err := e.actionPower(sheet, action, defenders, nil)
		if err != nil {
			return Offense{}, err
		}
		actionTotal += p
		result.Actions++
	}
	if result.Actions > 0 {
		result.Weapon = actionTotal / float64(result.Actions) * float64(1+max(sheet.ExtraAttacks, 0))
	}

	if casting := sheet.Spellcasting; casting != nil && len(casting.DamageSpells) > 0 {
		spellTotal := 0.0
		for _, spell := range casting.DamageSpells {
			p, err := e.spellPower(sheet, spell, defenders)
			if err != nil {
				return Offense{}, err
			}
			spellTotal += p
		}
		result.Spells = len(casting.DamageSpells)
		result.Spell = spellTotal / float64(result.Spells)
	}

	result.Total = result.Weapon + result.Spell
	return result, nil
}

// ActionPower returns the expected damage of one use of action, including its
// usage factor and the defenders' damage multipliers.
func (e *Estimator) ActionPower(attacker combatant.Combatant, action combatant.AttackAction, defenders combatant.Group) (float64, error) {
	if len(defenders) == 0 {
		return 0, nil
	}
	return e.actionPower(attacker.CombatSheet(), action, defenders, nil)
}

func (e *Estimator) actionPower(sheet *combatant.Sheet, action combatant.AttackAction, defenders combatant.Group, visiting map[string]bool) (float64, error) {
	var power float64
	switch action.Kind {
	case combatant.AttackSimple:
		hit := dice.RollSuccessProbabilityF(defense.AverageArmorClass(defenders), float64(action.AttackBonus), dice.DefaultDieSize)
		p, err := e.damage(sheet.Name, action.Name, e.components(action), hit, defenders)
		if err != nil {
			return 0, err
		}
		power = p
	case combatant.AttackSave:
		if action.Save == nil {
			return 0, fmt.Errorf("%s: action %q: %w", sheet.Name, action.Name, ErrMissingSave)
		}
		factor := saveFactor(*action.Save, float64(action.Save.DC), defenders)
		p, err := e.damage(sheet.Name, action.Name, e.components(action), factor, defenders)
		if err != nil {
			return 0, err
		}
		power = p
	case combatant.AttackMulti:
		p, err := e.multiPower(sheet, action, defenders, visiting)
		if err != nil {
			return 0, err
		}
		power = p
	default:
		return 0, nil
	}
	return power * usage.Factor(action.Usage, e.ratio), nil
}

func (e *Estimator) multiPower(sheet *combatant.Sheet, action combatant.AttackAction, defenders combatant.Group, visiting map[string]bool) (float64, error) {
	key := strings.ToLower(strings.TrimSpace(action.Name))
	if visiting[key] {
		return 0, fmt.Errorf("%s: action %q: %w", sheet.Name, action.Name, ErrActionCycle)
	}
	next := make(map[string]bool, len(visiting)+1)
	for k := range visiting {
		next[k] = true
	}
	next[key] = true

	total := 0.0
	for _, step := range action.Sequence {
		count := max(step.Count, 1)
		if step.Magic {
			p, err := e.magicPower(sheet, action, count, defenders)
			if err != nil {
				return 0, err
			}
			total += p
			continue
		}
		ref, ok := sheet.Action(step.Name)
		if !ok {
			return 0, &UnresolvedActionError{Combatant: sheet.Name, Action: action.Name, Reference: step.Name}
		}
		p, err := e.actionPower(sheet, ref, defenders, next)
		if err != nil {
			return 0, err
		}
		total += p * float64(count)
	}
	return total, nil
}

// magicPower samples count damage spells from the combatant's spellcasting
// and sums their power.
func (e *Estimator) magicPower(sheet *combatant.Sheet, action combatant.AttackAction, count int, defenders combatant.Group) (float64, error) {
	if sheet.Spellcasting == nil || len(sheet.Spellcasting.DamageSpells) == 0 {
		return 0, &UnresolvedActionError{Combatant: sheet.Name, Action: action.Name, Reference: MagicReference}
	}
	spells := sheet.Spellcasting.DamageSpells
	total := 0.0
	for i := 0; i < count; i++ {
		spell := spells[e.rng.Intn(len(spells))]
		p, err := e.spellPower(sheet, spell, defenders)
		if err != nil {
			return 0, err
		}
		total += p
	}
	return total, nil
}

// SpellPower returns the expected damage of casting spell, weighted by how
// often it can be cast.
func (e *Estimator) SpellPower(caster combatant.Combatant, spell combatant.DamageSpell, defenders combatant.Group) (float64, error) {
	if len(defenders) == 0 {
		return 0, nil
	}
	return e.spellPower(caster.CombatSheet(), spell, defenders)
}

func (e *Estimator) spellPower(sheet *combatant.Sheet, spell combatant.DamageSpell, defenders combatant.Group) (float64, error) {
	casting := sheet.Spellcasting
	if casting == nil {
		return 0, nil
	}
	usageFactor := usage.SpellUsagePercentage(spell, casting, e.ratio)
	if usageFactor == 0 {
		return 0, nil
	}

	slot := spell.Level
	if !spell.Cantrip() && !spell.Limited() {
		if lowest, ok := casting.Slots.LowestAvailable(spell.Level); ok {
			slot = lowest
		}
	}
	components := spell.DamageAt(slot, casting.CasterLevel)

	var chance float64
	switch spell.Delivery {
	case combatant.DeliverySave:
		dc := spell.Save.DC
		if dc == 0 {
			dc = casting.SaveDC
		}
		chance = saveFactor(spell.Save, float64(dc), defenders)
	default:
		chance = dice.RollSuccessProbabilityF(defense.AverageArmorClass(defenders), float64(casting.AttackBonus), dice.DefaultDieSize)
	}

	p, err := e.damage(sheet.Name, spell.Name, components, chance*usageFactor, defenders)
	if err != nil {
		return 0, err
	}
	return p, nil
}

// saveFactor returns the expected fraction of damage dealt by a save effect:
// the chance the group fails, plus half damage on success when flagged.
func saveFactor(save combatant.SaveDC, dc float64, defenders combatant.Group) float64 {
	success := dice.RollSuccessProbabilityF(dc, defense.AverageSaveBonus(defenders, save.Ability), dice.DefaultDieSize)
	factor := 1 - success
	if save.HalfOnSuccess {
		factor += success * 0.5
	}
	return factor
}

// components returns the fixed damage of an action plus a uniformly sampled
// subset of its damage choice.
func (e *Estimator) components(action combatant.AttackAction) []combatant.DamageComponent {
	if action.Choice == nil {
		return action.Damage
	}
	picked := choice.SelectRandom(action.Choice.Options, action.Choice.Choose, e.rng)
	all := make([]combatant.DamageComponent, 0, len(action.Damage)+len(picked))
	all = append(all, action.Damage...)
	return append(all, picked...)
}

func (e *Estimator) damage(owner, source string, components []combatant.DamageComponent, chance float64, defenders combatant.Group) (float64, error) {
	total := 0.0
	for _, component := range components {
		expected, err := dice.ExpectedValue(component.Dice)
		if err != nil {
			return 0, fmt.Errorf("%s: %q damage: %w", owner, source, err)
		}
		total += defense.ApplyDefenses(expected*chance, component.Type, defenders)
	}
	return total, nil
}

// Healing returns the hit points c can restore per round: the sum over its
// healing spells of the expected healing at the best available slot. Spells
// with no slot left contribute nothing; limited-use spells are spread over
// the day like damage spells.
func (e *Estimator) Healing(c combatant.Combatant) (float64, error) {
	sheet := c.CombatSheet()
	casting := sheet.Spellcasting
	if casting == nil {
		return 0, nil
	}
	total := 0.0
	for _, spell := range casting.HealingSpells {
		slot, ok := usage.HealingAvailable(spell, casting)
		if !ok {
			continue
		}
		expected, err := dice.ExpectedValue(spell.HealingAt(slot))
		if err != nil {
			return 0, fmt.Errorf("%s: %q healing: %w", sheet.Name, spell.Name, err)
		}
		total += expected * usage.HealingUsagePercentage(spell, e.ratio)
	}
	return total, nil
}
