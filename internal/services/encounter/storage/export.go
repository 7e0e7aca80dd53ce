package storage

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/encounter"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/power"
)

type combatantDocument struct {
	Name       string   `json:"name"`
	Index      string   `json:"index,omitempty"`
	Class      string   `json:"class,omitempty"`
	Level      int      `json:"level,omitempty"`
	Race       string   `json:"race,omitempty"`
	CR         float64  `json:"challenge_rating,omitempty"`
	XP         int      `json:"xp,omitempty"`
	ArmorClass float64  `json:"armor_class"`
	HitPoints  int      `json:"hit_points"`
	Offense    float64  `json:"offense"`
	Weapon     float64  `json:"weapon_offense"`
	Spell      float64  `json:"spell_offense"`
	Healing    float64  `json:"healing"`
	BaseStats  float64  `json:"base_stats"`
	Picked     []string `json:"selections,omitempty"`
}

type encounterDocument struct {
	ID          string              `json:"id"`
	Seed        int64               `json:"seed"`
	Difficulty  string              `json:"difficulty"`
	Outcome     string              `json:"outcome"`
	TotalRounds int                 `json:"total_rounds"`
	Details     string              `json:"details"`
	Multiplier  float64             `json:"xp_multiplier"`
	TotalXP     int                 `json:"total_xp"`
	AdjustedXP  float64             `json:"adjusted_xp"`
	Samples     int                 `json:"samples"`
	Restarts    int                 `json:"restarts"`
	Party       []combatantDocument `json:"party"`
	Monsters    []combatantDocument `json:"monsters"`
}

// NewEncounterRecord flattens an encounter into its stored row.
func NewEncounterRecord(batchID string, enc encounter.Encounter) (EncounterRecord, error) {
	doc := encounterDocument{
		ID:          enc.ID,
		Seed:        enc.Seed,
		Difficulty:  enc.Difficulty.String(),
		Outcome:     enc.Result.Outcome.String(),
		TotalRounds: enc.Result.TotalRounds,
		Details:     enc.Result.Details,
		Multiplier:  enc.Selection.Multiplier,
		TotalXP:     enc.Selection.TotalXP,
		AdjustedXP:  enc.Selection.AdjustedXP,
		Samples:     enc.Selection.Samples,
		Restarts:    enc.Selection.Restarts,
	}
	for i, m := range enc.Party {
		d := sheetDocument(&m.Sheet, estimateAt(enc.PartyPower, i))
		d.Class, d.Level, d.Race = m.Class, m.Level, m.Race
		for _, sel := range m.Selections {
			d.Picked = append(d.Picked, sel.Picked...)
		}
		doc.Party = append(doc.Party, d)
	}
	indices := make([]string, 0, len(enc.Monsters))
	for i, m := range enc.Monsters {
		d := sheetDocument(&m.Sheet, estimateAt(enc.MonsterPower, i))
		d.Index, d.CR, d.XP = m.Index, m.ChallengeRating, m.XP
		doc.Monsters = append(doc.Monsters, d)
		indices = append(indices, m.Index)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return EncounterRecord{}, fmt.Errorf("encode encounter %s: %w", enc.ID, err)
	}

	return EncounterRecord{
		ID:             enc.ID,
		BatchID:        batchID,
		Seed:           enc.Seed,
		Difficulty:     doc.Difficulty,
		Outcome:        doc.Outcome,
		TotalRounds:    doc.TotalRounds,
		Details:        doc.Details,
		PartyLevels:    enc.PartyLevels(),
		MonsterIndices: indices,
		PartyOffense:   enc.PartyPower.Offense,
		PartyHealing:   enc.PartyPower.Healing,
		PartyHP:        enc.PartyPower.HitPoints,
		MonsterOffense: enc.MonsterPower.Offense,
		MonsterHealing: enc.MonsterPower.Healing,
		MonsterHP:      enc.MonsterPower.HitPoints,
		TotalXP:        enc.Selection.TotalXP,
		AdjustedXP:     enc.Selection.AdjustedXP,
		Document:       data,
		CreatedAt:      enc.CreatedAt,
	}, nil
}

func estimateAt(side power.Side, i int) power.Estimate {
	if i < len(side.Estimates) {
		return side.Estimates[i]
	}
	return power.Estimate{}
}

func sheetDocument(s *combatant.Sheet, est power.Estimate) combatantDocument {
	return combatantDocument{
		Name:       s.Name,
		ArmorClass: s.ArmorClass(),
		HitPoints:  s.HitPoints,
		Offense:    est.Offense.Total,
		Weapon:     est.Offense.Weapon,
		Spell:      est.Offense.Spell,
		Healing:    est.Healing,
		BaseStats:  est.BaseStats,
	}
}
