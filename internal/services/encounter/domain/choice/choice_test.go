package choice

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestSelectRandomSubsetInOrder(t *testing.T) {
	options := []string{"a", "b", "c", "d", "e"}
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 200; i++ {
		picked := SelectRandom(options, 3, rng)
		if len(picked) != 3 {
			t.Fatalf("picked %d options, want 3", len(picked))
		}
		seen := map[string]bool{}
		last := -1
		for _, p := range picked {
			if seen[p] {
				t.Fatalf("duplicate pick %q in %v", p, picked)
			}
			seen[p] = true
			pos := indexOf(options, p)
			if pos <= last {
				t.Fatalf("picks out of declaration order: %v", picked)
			}
			last = pos
		}
	}
}

func TestSelectRandomCoversAllOptions(t *testing.T) {
	options := []int{1, 2, 3, 4}
	rng := rand.New(rand.NewSource(1))
	counts := map[int]int{}
	for i := 0; i < 400; i++ {
		for _, p := range SelectRandom(options, 1, rng) {
			counts[p]++
		}
	}
	for _, o := range options {
		if counts[o] == 0 {
			t.Fatalf("option %d never picked: %v", o, counts)
		}
	}
}

func TestSelectRandomEdges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if got := SelectRandom([]string{"a"}, 0, rng); got != nil {
		t.Fatalf("count 0 = %v, want nil", got)
	}
	if got := SelectRandom([]string(nil), 2, rng); got != nil {
		t.Fatalf("empty options = %v, want nil", got)
	}
	all := []string{"x", "y"}
	got := SelectRandom(all, 5, rng)
	if !reflect.DeepEqual(got, all) {
		t.Fatalf("count above len = %v, want %v", got, all)
	}
	got[0] = "mutated"
	if all[0] != "x" {
		t.Fatal("SelectRandom returned the caller's backing array")
	}
}

func TestVariantsResolveWithCategory(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	choices := []Choice{
		Expertise{Feature: "Expertise", Skills: []string{"stealth", "perception", "athletics"}, Choose: 2},
		EnemyType{Feature: "Favored Enemy", Types: []string{"undead", "fiend"}, Choose: 1},
		TerrainType{Feature: "Natural Explorer", Terrains: []string{"forest", "swamp"}, Choose: 1},
		Subfeature{Feature: "Fighting Style", Options: []string{"defense", "dueling", "archery"}, Choose: 1},
		SpellChoice{Feature: "Magical Secrets", Spells: []string{"fireball", "cure-wounds"}, Choose: 2},
	}
	selections := ResolveAll(choices, rng)
	want := []Category{CategoryExpertise, CategoryEnemyType, CategoryTerrainType, CategorySubfeature, CategorySpell}
	if len(selections) != len(want) {
		t.Fatalf("selections = %d, want %d", len(selections), len(want))
	}
	for i, sel := range selections {
		if sel.Category != want[i] {
			t.Fatalf("selection %d category = %v, want %v", i, sel.Category, want[i])
		}
		if sel.Feature != "" && len(sel.Picked) == 0 {
			t.Fatalf("selection %d picked nothing", i)
		}
	}
	if len(selections[0].Picked) != 2 {
		t.Fatalf("expertise picked %v, want 2 skills", selections[0].Picked)
	}
	if len(selections[4].Picked) != 2 {
		t.Fatalf("spell choice picked %v, want both spells", selections[4].Picked)
	}
}

func indexOf(items []string, value string) int {
	for i, item := range items {
		if item == value {
			return i
		}
	}
	return -1
}
