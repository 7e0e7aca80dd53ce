package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/encounters/internal/services/encounter/domain/balance"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/choice"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/dice"
)

func invalid(owner, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidCatalog, owner, fmt.Sprintf(format, args...))
}

func convertSpell(rec SpellRecord) (spell, error) {
	owner := "spell " + rec.Index
	level := combatant.SpellLevel(rec.Level)
	if !level.Valid() {
		return spell{}, invalid(owner, "level %d out of range", rec.Level)
	}
	name := rec.Name
	if strings.TrimSpace(name) == "" {
		name = rec.Index
	}

	switch normalizeKey(rec.Kind) {
	case "healing":
		if len(rec.SlotHealing) == 0 {
			return spell{}, invalid(owner, "healing spell has no healing table")
		}
		table := make(map[combatant.SpellLevel]string, len(rec.SlotHealing))
		for lvl, expr := range rec.SlotHealing {
			if !combatant.SpellLevel(lvl).Valid() {
				return spell{}, invalid(owner, "healing slot level %d out of range", lvl)
			}
			if err := checkDice(owner, expr); err != nil {
				return spell{}, err
			}
			table[combatant.SpellLevel(lvl)] = expr
		}
		return spell{healing: &combatant.HealingSpell{Name: name, Level: level, SlotHealing: table}}, nil
	case "damage", "":
		s := &combatant.DamageSpell{Name: name, Level: level}
		switch normalizeKey(rec.Delivery) {
		case "save":
			if rec.Save == nil {
				return spell{}, invalid(owner, "save spell has no save")
			}
			save, err := convertSave(owner, *rec.Save)
			if err != nil {
				return spell{}, err
			}
			s.Delivery = combatant.DeliverySave
			s.Save = save
		case "attack", "":
			s.Delivery = combatant.DeliveryAttack
		default:
			return spell{}, invalid(owner, "unknown delivery %q", rec.Delivery)
		}
		if len(rec.SlotDamage) == 0 && len(rec.CasterLevelDamage) == 0 {
			return spell{}, invalid(owner, "damage spell has no damage table")
		}
		if len(rec.SlotDamage) > 0 {
			s.SlotDamage = make(map[combatant.SpellLevel][]combatant.DamageComponent, len(rec.SlotDamage))
			for lvl, dmg := range rec.SlotDamage {
				if !combatant.SpellLevel(lvl).Valid() {
					return spell{}, invalid(owner, "damage slot level %d out of range", lvl)
				}
				components, err := convertDamage(owner, dmg)
				if err != nil {
					return spell{}, err
				}
				s.SlotDamage[combatant.SpellLevel(lvl)] = components
			}
		}
		if len(rec.CasterLevelDamage) > 0 {
			s.CasterLevelDamage = make(map[int][]combatant.DamageComponent, len(rec.CasterLevelDamage))
			for lvl, dmg := range rec.CasterLevelDamage {
				components, err := convertDamage(owner, dmg)
				if err != nil {
					return spell{}, err
				}
				s.CasterLevelDamage[lvl] = components
			}
		}
		return spell{damage: s}, nil
	default:
		return spell{}, invalid(owner, "unknown kind %q", rec.Kind)
	}
}

func (c *Catalog) convertMonster(rec MonsterRecord) (*combatant.Monster, error) {
	owner := "monster " + rec.Index
	if rec.ChallengeRating < 0 {
		return nil, invalid(owner, "negative challenge rating")
	}
	xp := rec.XP
	if xp == 0 {
		cr, ok := balance.XPForChallengeRating(rec.ChallengeRating)
		if !ok {
			return nil, invalid(owner, "no xp and unknown challenge rating %v", rec.ChallengeRating)
		}
		xp = cr
	}
	if xp < 0 {
		return nil, invalid(owner, "negative xp")
	}
	if strings.TrimSpace(rec.Name) == "" {
		rec.Name = rec.Index
	}
	sheet, err := c.convertSheet(owner, rec.SheetRecord)
	if err != nil {
		return nil, err
	}
	if err := checkMagic(owner, sheet, false); err != nil {
		return nil, err
	}
	return &combatant.Monster{
		Sheet:           sheet,
		Index:           strings.TrimSpace(rec.Index),
		ChallengeRating: rec.ChallengeRating,
		XP:              xp,
		CreatureType:    rec.Type,
	}, nil
}

func (c *Catalog) convertMember(rec MemberRecord) (memberTemplate, error) {
	owner := "character " + rec.Name
	if strings.TrimSpace(rec.Name) == "" {
		return memberTemplate{}, invalid("character", "missing name")
	}
	if rec.Level < 1 || rec.Level > balance.MaxLevel {
		return memberTemplate{}, invalid(owner, "level %d out of range", rec.Level)
	}
	sheet, err := c.convertSheet(owner, rec.SheetRecord)
	if err != nil {
		return memberTemplate{}, err
	}
	if sheet.ProficiencyBonus == 0 {
		sheet.ProficiencyBonus = 2 + (rec.Level-1)/4
	}
	choices := make([]choice.Choice, 0, len(rec.Choices))
	for _, cr := range rec.Choices {
		ch, err := c.convertChoice(owner, cr, sheet.Spellcasting != nil)
		if err != nil {
			return memberTemplate{}, err
		}
		choices = append(choices, ch)
	}
	if err := checkMagic(owner, sheet, c.picksDamageSpell(choices)); err != nil {
		return memberTemplate{}, err
	}
	return memberTemplate{
		member: combatant.Member{
			Sheet: sheet,
			Class: rec.Class,
			Level: rec.Level,
			Race:  rec.Race,
		},
		choices: choices,
	}, nil
}

func (c *Catalog) convertChoice(owner string, rec ChoiceRecord, caster bool) (choice.Choice, error) {
	if rec.Choose < 1 || rec.Choose > len(rec.Options) {
		return nil, invalid(owner, "choice %q picks %d of %d options", rec.Feature, rec.Choose, len(rec.Options))
	}
	switch normalizeKey(rec.Category) {
	case "expertise":
		return choice.Expertise{Feature: rec.Feature, Skills: rec.Options, Choose: rec.Choose}, nil
	case "enemy_type":
		return choice.EnemyType{Feature: rec.Feature, Types: rec.Options, Choose: rec.Choose}, nil
	case "terrain_type":
		return choice.TerrainType{Feature: rec.Feature, Terrains: rec.Options, Choose: rec.Choose}, nil
	case "subfeature":
		return choice.Subfeature{Feature: rec.Feature, Options: rec.Options, Choose: rec.Choose}, nil
	case "spell":
		if !caster {
			return nil, invalid(owner, "spell choice %q without spellcasting", rec.Feature)
		}
		for _, index := range rec.Options {
			if _, ok := c.spells[normalizeKey(index)]; !ok {
				return nil, fmt.Errorf("%w: %s: %w %q", ErrInvalidCatalog, owner, ErrUnknownSpell, index)
			}
		}
		return choice.SpellChoice{Feature: rec.Feature, Spells: rec.Options, Choose: rec.Choose}, nil
	default:
		return nil, invalid(owner, "unknown choice category %q", rec.Category)
	}
}

func (c *Catalog) convertSheet(owner string, rec SheetRecord) (combatant.Sheet, error) {
	if rec.HitPoints <= 0 {
		return combatant.Sheet{}, invalid(owner, "hit points must be positive")
	}
	sheet := combatant.Sheet{
		Name:             strings.TrimSpace(rec.Name),
		ArmorClasses:     rec.ArmorClass,
		HitPoints:        rec.HitPoints,
		ProficiencyBonus: rec.ProficiencyBonus,
		Defenses: combatant.Defenses{
			Resistances:     rec.Resistances,
			Immunities:      rec.Immunities,
			Vulnerabilities: rec.Vulnerabilities,
		},
		ExtraAttacks: rec.ExtraAttacks,
		Movement: combatant.Movement{
			Walk:   rec.Speed.Walk,
			Fly:    rec.Speed.Fly,
			Swim:   rec.Speed.Swim,
			Climb:  rec.Speed.Climb,
			Burrow: rec.Speed.Burrow,
			Hover:  rec.Speed.Hover,
		},
		Skills: rec.Skills,
	}
	for name, score := range rec.Abilities {
		a, err := combatant.ParseAbility(name)
		if err != nil {
			return combatant.Sheet{}, fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, owner, err)
		}
		sheet.Abilities[a] = score
	}
	for name, bonus := range rec.Saves {
		a, err := combatant.ParseAbility(name)
		if err != nil {
			return combatant.Sheet{}, fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, owner, err)
		}
		sheet.SaveBonuses[a] = bonus
	}
	for _, ar := range rec.Actions {
		action, err := convertAction(owner, ar)
		if err != nil {
			return combatant.Sheet{}, err
		}
		sheet.Actions = append(sheet.Actions, action)
	}
	if err := checkSequences(owner, sheet.Actions); err != nil {
		return combatant.Sheet{}, err
	}
	if rec.Spellcasting != nil {
		casting, err := c.convertSpellcasting(owner, *rec.Spellcasting)
		if err != nil {
			return combatant.Sheet{}, err
		}
		sheet.Spellcasting = casting
	}
	return sheet, nil
}

func convertAction(owner string, rec ActionRecord) (combatant.AttackAction, error) {
	owner = fmt.Sprintf("%s action %q", owner, rec.Name)
	if strings.TrimSpace(rec.Name) == "" {
		return combatant.AttackAction{}, invalid(owner, "missing name")
	}
	action := combatant.AttackAction{Name: rec.Name, AttackBonus: rec.AttackBonus}

	kind := normalizeKey(rec.Type)
	if kind == "" {
		switch {
		case len(rec.Sequence) > 0:
			kind = "multi"
		case rec.Save != nil:
			kind = "save"
		default:
			kind = "simple"
		}
	}
	switch kind {
	case "simple":
		action.Kind = combatant.AttackSimple
	case "save":
		action.Kind = combatant.AttackSave
		if rec.Save == nil {
			return combatant.AttackAction{}, invalid(owner, "save action has no save")
		}
		save, err := convertSave(owner, *rec.Save)
		if err != nil {
			return combatant.AttackAction{}, err
		}
		if save.DC <= 0 {
			return combatant.AttackAction{}, invalid(owner, "save action has no dc")
		}
		action.Save = &save
	case "multi":
		action.Kind = combatant.AttackMulti
		for _, step := range rec.Sequence {
			if !step.Magic && strings.TrimSpace(step.Name) == "" {
				return combatant.AttackAction{}, invalid(owner, "sequence step has no action name")
			}
			action.Sequence = append(action.Sequence, combatant.SubAction{Name: step.Name, Count: step.Count, Magic: step.Magic})
		}
	default:
		return combatant.AttackAction{}, invalid(owner, "unknown type %q", rec.Type)
	}

	damage, err := convertDamage(owner, rec.Damage)
	if err != nil {
		return combatant.AttackAction{}, err
	}
	action.Damage = damage
	if rec.Choice != nil {
		options, err := convertDamage(owner, rec.Choice.Options)
		if err != nil {
			return combatant.AttackAction{}, err
		}
		action.Choice = &combatant.DamageChoice{Choose: rec.Choice.Choose, Options: options}
	}

	if rec.Usage != nil {
		switch normalizeKey(rec.Usage.Type) {
		case "recharge":
			action.Usage = combatant.Recharge(rec.Usage.Min, rec.Usage.Die)
		case "per_day", "per_rest":
			action.Usage = combatant.PerRest(rec.Usage.Times)
		case "", "unlimited":
			action.Usage = combatant.Unlimited()
		default:
			return combatant.AttackAction{}, invalid(owner, "unknown usage %q", rec.Usage.Type)
		}
	}
	return action, nil
}

// checkSequences verifies every multi-attack step names a declared action and
// that multi-attacks do not reference each other in a loop.
func checkSequences(owner string, actions []combatant.AttackAction) error {
	byName := make(map[string]combatant.AttackAction, len(actions))
	for _, a := range actions {
		byName[normalizeKey(a.Name)] = a
	}
	var visit func(a combatant.AttackAction, path map[string]bool) error
	visit = func(a combatant.AttackAction, path map[string]bool) error {
		key := normalizeKey(a.Name)
		if path[key] {
			return invalid(owner, "multi-attack %q references itself", a.Name)
		}
		path[key] = true
		defer delete(path, key)
		for _, step := range a.Sequence {
			if step.Magic {
				continue
			}
			ref, ok := byName[normalizeKey(step.Name)]
			if !ok {
				return invalid(owner, "multi-attack %q references unknown action %q", a.Name, step.Name)
			}
			if ref.Kind == combatant.AttackMulti {
				if err := visit(ref, path); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, a := range actions {
		if a.Kind != combatant.AttackMulti {
			continue
		}
		if err := visit(a, map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}

// checkMagic rejects magic multi-attack steps on a sheet that will never hold
// a damage spell. picked reports that an open choice always adds one.
func checkMagic(owner string, sheet combatant.Sheet, picked bool) error {
	if picked || (sheet.Spellcasting != nil && len(sheet.Spellcasting.DamageSpells) > 0) {
		return nil
	}
	for _, a := range sheet.Actions {
		for _, step := range a.Sequence {
			if step.Magic {
				return invalid(owner, "multi-attack %q has a magic step but no damage spells", a.Name)
			}
		}
	}
	return nil
}

// picksDamageSpell reports whether a spell choice offers only damage spells.
func (c *Catalog) picksDamageSpell(choices []choice.Choice) bool {
	for _, ch := range choices {
		sc, ok := ch.(choice.SpellChoice)
		if !ok || len(sc.Spells) == 0 {
			continue
		}
		all := true
		for _, index := range sc.Spells {
			if c.spells[normalizeKey(index)].damage == nil {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func (c *Catalog) convertSpellcasting(owner string, rec SpellcastingRecord) (*combatant.Spellcasting, error) {
	ability, err := combatant.ParseAbility(rec.Ability)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: spellcasting: %w", ErrInvalidCatalog, owner, err)
	}
	counts := make(map[combatant.SpellLevel]int, len(rec.Slots))
	for lvl, n := range rec.Slots {
		counts[combatant.SpellLevel(lvl)] = n
	}
	slots, err := combatant.NewSpellSlots(counts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: spellcasting: %w", ErrInvalidCatalog, owner, err)
	}
	casting := &combatant.Spellcasting{
		Ability:     ability,
		AttackBonus: rec.AttackBonus,
		SaveDC:      rec.SaveDC,
		CasterLevel: rec.CasterLevel,
		Slots:       slots,
	}
	limited := make(map[string]string, len(rec.Limited))
	for index, tag := range rec.Limited {
		limited[normalizeKey(index)] = tag
	}
	for _, index := range rec.Spells {
		key := normalizeKey(index)
		s, ok := c.spells[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s: %w %q", ErrInvalidCatalog, owner, ErrUnknownSpell, index)
		}
		if s.damage != nil {
			ds := *s.damage
			ds.LimitedUses = limited[key]
			casting.DamageSpells = append(casting.DamageSpells, ds)
			continue
		}
		hs := *s.healing
		hs.LimitedUses = limited[key]
		casting.HealingSpells = append(casting.HealingSpells, hs)
	}
	return casting, nil
}

func convertSave(owner string, rec SaveRecord) (combatant.SaveDC, error) {
	ability, err := combatant.ParseAbility(rec.Ability)
	if err != nil {
		return combatant.SaveDC{}, fmt.Errorf("%w: %s: save: %w", ErrInvalidCatalog, owner, err)
	}
	return combatant.SaveDC{DC: rec.DC, Ability: ability, HalfOnSuccess: rec.Half}, nil
}

func convertDamage(owner string, records []DamageRecord) ([]combatant.DamageComponent, error) {
	if len(records) == 0 {
		return nil, nil
	}
	out := make([]combatant.DamageComponent, 0, len(records))
	for _, r := range records {
		if err := checkDice(owner, r.Dice); err != nil {
			return nil, err
		}
		out = append(out, combatant.DamageComponent{Dice: r.Dice, Type: strings.TrimSpace(r.Type)})
	}
	return out, nil
}

func checkDice(owner, expr string) error {
	parsed, err := dice.Parse(expr)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, owner, err)
	}
	if parsed.Max() <= 0 {
		return invalid(owner, "dice %q never rolls above zero", expr)
	}
	return nil
}

// IsInvalid reports whether err came from catalog validation.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidCatalog)
}
