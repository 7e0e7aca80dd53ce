// Package outcome labels an encounter by racing the two sides' hit point
// pools against each other's net damage per round.
package outcome

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultRoundCap bounds the race when a caller passes no cap.
const DefaultRoundCap = 50

// Outcome is the label of a resolved encounter.
type Outcome int

const (
	Undecided Outcome = iota
	Victory
	Defeat
)

// ErrInvalidOutcome indicates an unknown outcome name.
var ErrInvalidOutcome = errors.New("invalid outcome")

func (o Outcome) String() string {
	switch o {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "undecided"
	}
}

// ParseOutcome resolves an outcome by name, case-insensitively.
func ParseOutcome(value string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "victory":
		return Victory, nil
	case "defeat":
		return Defeat, nil
	case "undecided":
		return Undecided, nil
	default:
		return Undecided, fmt.Errorf("%w: %q", ErrInvalidOutcome, value)
	}
}

// Input carries the per-round figures of both sides.
type Input struct {
	PartyOffense   float64
	PartyHealing   float64
	MonsterOffense float64
	MonsterHealing float64
	PartyHP        float64
	MonsterHP      float64
}

// Result is the resolved label of an encounter.
type Result struct {
	Outcome     Outcome
	TotalRounds int
	Details     string
}

// Resolve runs the attrition race.
//
// Each round both pools lose the opposing offense minus their own healing,
// never less than zero. The side whose pool empties first loses; both
// emptying in the same round, or reaching roundCap, is Undecided. When only
// one side deals net damage the other side loses in ceil(hp/net) rounds,
// even past roundCap. A non-positive roundCap uses DefaultRoundCap.
func Resolve(in Input, roundCap int) Result {
	if roundCap <= 0 {
		roundCap = DefaultRoundCap
	}
	partyNet := max(in.PartyOffense-in.MonsterHealing, 0)
	monsterNet := max(in.MonsterOffense-in.PartyHealing, 0)
	partyHP := in.PartyHP
	monsterHP := in.MonsterHP

	round := 0
	switch {
	case partyHP <= 0 || monsterHP <= 0:
		// Decided before the first round.
	case partyNet > 0 && monsterNet == 0:
		// Only the monsters lose hit points, so the party wins eventually.
		round = roundsToDrop(monsterHP, partyNet)
		monsterHP = 0
	case monsterNet > 0 && partyNet == 0:
		round = roundsToDrop(partyHP, monsterNet)
		partyHP = 0
	default:
		for partyHP > 0 && monsterHP > 0 && round < roundCap {
			round++
			monsterHP -= partyNet
			partyHP -= monsterNet
		}
	}

	var o Outcome
	switch {
	case partyHP <= 0 && monsterHP <= 0:
		o = Undecided
	case monsterHP <= 0:
		o = Victory
	case partyHP <= 0:
		o = Defeat
	default:
		o = Undecided
	}
	return Result{
		Outcome:     o,
		TotalRounds: round,
		Details:     details(o, round, roundCap, partyNet, monsterNet, max(partyHP, 0), max(monsterHP, 0)),
	}
}

func roundsToDrop(hp, net float64) int {
	rounds := math.Ceil(hp / net)
	if rounds > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(rounds)
}

func details(o Outcome, round, roundCap int, partyNet, monsterNet, partyHP, monsterHP float64) string {
	p := message.NewPrinter(language.English)
	switch {
	case o == Victory:
		return p.Sprintf("party won in %d rounds with %.1f hp left (%.2f vs %.2f net damage per round)",
			round, partyHP, partyNet, monsterNet)
	case o == Defeat:
		return p.Sprintf("monsters won in %d rounds with %.1f hp left (%.2f vs %.2f net damage per round)",
			round, monsterHP, monsterNet, partyNet)
	case round >= roundCap && partyHP > 0:
		return p.Sprintf("round cap of %d reached with party at %.1f hp and monsters at %.1f hp",
			roundCap, partyHP, monsterHP)
	default:
		return p.Sprintf("both sides dropped in round %d", round)
	}
}
