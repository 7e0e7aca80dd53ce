package usage

import (
	"math"
	"testing"

	"github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/difficulty"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestFactor(t *testing.T) {
	approx(t, "unlimited", Factor(combatant.Unlimited(), difficulty.Hard), 1)
	approx(t, "recharge 5-6", Factor(combatant.Recharge(5, 6), difficulty.Hard), 2.0/6.0)
	approx(t, "recharge 6", Factor(combatant.Recharge(6, 6), difficulty.Easy), 1.0/6.0)
	approx(t, "1/day on hard", Factor(combatant.PerRest(1), difficulty.Hard), 0.25)
	approx(t, "3/day on normal", Factor(combatant.PerRest(3), difficulty.Normal), 1)
	approx(t, "5/day on cakewalk clamps", Factor(combatant.PerRest(5), difficulty.Cakewalk), 1)
	approx(t, "per rest without tier", Factor(combatant.PerRest(2), difficulty.Unspecified), 0)
	approx(t, "zero times", Factor(combatant.PerRest(0), difficulty.Normal), 0)
}

func TestSpellUsagePercentage(t *testing.T) {
	fireBolt := combatant.DamageSpell{Name: "Fire Bolt", Level: 0}
	magicMissile := combatant.DamageSpell{Name: "Magic Missile", Level: 1}
	scorching := combatant.DamageSpell{Name: "Scorching Ray", Level: 2}
	fireball := combatant.DamageSpell{Name: "Fireball", Level: 3}
	gift := combatant.DamageSpell{Name: "Hellish Rebuke", Level: 1, LimitedUses: "1/long rest"}

	slots, err := combatant.NewSpellSlots(map[combatant.SpellLevel]int{1: 4, 2: 2})
	if err != nil {
		t.Fatalf("NewSpellSlots returned error: %v", err)
	}
	casting := &combatant.Spellcasting{
		Slots:        slots,
		DamageSpells: []combatant.DamageSpell{fireBolt, magicMissile, scorching, fireball, gift},
	}

	approx(t, "cantrip", SpellUsagePercentage(fireBolt, casting, difficulty.Deadly), 1)
	approx(t, "limited", SpellUsagePercentage(gift, casting, difficulty.Deadly), 0.2)
	approx(t, "no slots", SpellUsagePercentage(fireball, casting, difficulty.Easy), 0)
	// 6 slots at or above 1 shared by 1 competitor at level <= 1.
	approx(t, "magic missile", SpellUsagePercentage(magicMissile, casting, difficulty.Deadly), 1)
	// 2 slots at or above 2 shared by magic missile and scorching ray: 1 each, over 4 encounters.
	approx(t, "scorching ray", SpellUsagePercentage(scorching, casting, difficulty.Hard), 0.25)
	approx(t, "nil casting", SpellUsagePercentage(magicMissile, nil, difficulty.Hard), 0)
}

func TestSpellUsageOutsideCasterList(t *testing.T) {
	slots, _ := combatant.NewSpellSlots(map[combatant.SpellLevel]int{3: 1})
	casting := &combatant.Spellcasting{Slots: slots}
	spell := combatant.DamageSpell{Level: 3}
	approx(t, "lone spell", SpellUsagePercentage(spell, casting, difficulty.Easy), 0.5)
}

func TestHealingAvailable(t *testing.T) {
	slots, _ := combatant.NewSpellSlots(map[combatant.SpellLevel]int{1: 2, 3: 1})
	casting := &combatant.Spellcasting{Slots: slots}
	if lvl, ok := HealingAvailable(combatant.HealingSpell{Level: 1}, casting); !ok || lvl != 3 {
		t.Fatalf("healing slot = %d, %v; want 3, true", lvl, ok)
	}
	if _, ok := HealingAvailable(combatant.HealingSpell{Level: 4}, casting); ok {
		t.Fatal("expected no slot for level 4 healing")
	}
	if _, ok := HealingAvailable(combatant.HealingSpell{Level: 0}, nil); !ok {
		t.Fatal("expected cantrip healing to be available")
	}
	if _, ok := HealingAvailable(combatant.HealingSpell{Level: 1}, nil); ok {
		t.Fatal("expected no healing without spellcasting")
	}
}

func TestHealingUsagePercentage(t *testing.T) {
	approx(t, "unlimited", HealingUsagePercentage(combatant.HealingSpell{Level: 1}, difficulty.Deadly), 1)
	approx(t, "limited on deadly", HealingUsagePercentage(combatant.HealingSpell{Level: 1, LimitedUses: "1/day"}, difficulty.Deadly), 0.2)
	approx(t, "limited without tier", HealingUsagePercentage(combatant.HealingSpell{LimitedUses: "1/day"}, difficulty.Unspecified), 0)
}
