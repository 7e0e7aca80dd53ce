// Package encounter assembles a balanced encounter and labels its outcome.
package encounter

import (
	"time"

	"github.com/louisbranch/encounters/internal/services/encounter/domain/balance"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/difficulty"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/outcome"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/power"
)

// Encounter is a generated party-versus-monsters record. It is not modified
// after Build returns.
type Encounter struct {
	ID           string
	Seed         int64
	Difficulty   difficulty.CRRatio
	Party        []*combatant.Member
	Monsters     []*combatant.Monster
	Selection    balance.Selection
	PartyPower   power.Side
	MonsterPower power.Side
	Result       outcome.Result
	CreatedAt    time.Time
}

// PartyLevels returns the level of each party member.
func (e Encounter) PartyLevels() []int {
	return partyLevels(e.Party)
}

func partyLevels(party []*combatant.Member) []int {
	levels := make([]int, len(party))
	for i, m := range party {
		levels[i] = m.Level
	}
	return levels
}
