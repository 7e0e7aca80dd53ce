package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/louisbranch/encounters/internal/services/encounter/domain/balance"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/choice"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/difficulty"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/encounter"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/outcome"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/power"
)

func TestNewEncounterRecord(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	enc := encounter.Encounter{
		ID:         "enc-1",
		Seed:       9,
		Difficulty: difficulty.Hard,
		Party: []*combatant.Member{{
			Sheet: combatant.Sheet{Name: "Rogue", ArmorClasses: []int{14}, HitPoints: 20},
			Class: "rogue",
			Level: 3,
			Race:  "halfling",
			Selections: []choice.Selection{
				{Category: choice.CategoryExpertise, Picked: []string{"stealth", "perception"}},
			},
		}},
		Monsters: []*combatant.Monster{
			{Sheet: combatant.Sheet{Name: "Wolf", ArmorClasses: []int{13}, HitPoints: 11}, Index: "wolf", ChallengeRating: 0.25, XP: 50},
			{Sheet: combatant.Sheet{Name: "Wolf", ArmorClasses: []int{13}, HitPoints: 11}, Index: "wolf", ChallengeRating: 0.25, XP: 50},
		},
		Selection: balance.Selection{Count: 2, Multiplier: 1.5, TotalXP: 100, AdjustedXP: 150, Samples: 4},
		PartyPower: power.Side{
			Offense:   7,
			HitPoints: 20,
			Estimates: []power.Estimate{{Name: "Rogue", Offense: power.Offense{Weapon: 7, Total: 7}, BaseStats: 90}},
		},
		MonsterPower: power.Side{Offense: 6, HitPoints: 22},
		Result:       outcome.Result{Outcome: outcome.Victory, TotalRounds: 4, Details: "party wins in 4 rounds"},
		CreatedAt:    createdAt,
	}

	record, err := NewEncounterRecord("batch-1", enc)
	if err != nil {
		t.Fatalf("NewEncounterRecord returned error: %v", err)
	}
	if record.BatchID != "batch-1" || record.Difficulty != "hard" || record.Outcome != "victory" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if len(record.PartyLevels) != 1 || record.PartyLevels[0] != 3 {
		t.Fatalf("party levels = %v", record.PartyLevels)
	}
	if len(record.MonsterIndices) != 2 || record.MonsterIndices[1] != "wolf" {
		t.Fatalf("monster indices = %v", record.MonsterIndices)
	}
	if record.PartyHP != 20 || record.MonsterHP != 22 || record.AdjustedXP != 150 {
		t.Fatalf("unexpected totals: %+v", record)
	}
	if !record.CreatedAt.Equal(createdAt) {
		t.Fatalf("created at = %v", record.CreatedAt)
	}

	var doc encounterDocument
	if err := json.Unmarshal(record.Document, &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if len(doc.Party) != 1 || doc.Party[0].Offense != 7 || doc.Party[0].BaseStats != 90 {
		t.Fatalf("party document = %+v", doc.Party)
	}
	if len(doc.Party[0].Picked) != 2 {
		t.Fatalf("picked = %v", doc.Party[0].Picked)
	}
	// Missing monster estimates fall back to zero figures.
	if len(doc.Monsters) != 2 || doc.Monsters[0].Offense != 0 || doc.Monsters[0].XP != 50 {
		t.Fatalf("monster document = %+v", doc.Monsters)
	}
	if doc.Multiplier != 1.5 || doc.Samples != 4 {
		t.Fatalf("selection document = %+v", doc)
	}
}
