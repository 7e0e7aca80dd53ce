package encounter

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	apperrors "github.com/louisbranch/encounters/internal/platform/errors"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/balance"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/dice"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/difficulty"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/outcome"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/power"
)

// ErrUnknownMonster indicates a selected index missing from the catalog.
var ErrUnknownMonster = errors.New("unknown monster")

// MonsterCatalog is the read-only monster table the builder draws from.
type MonsterCatalog interface {
	MonsterEntries() []balance.Entry
	Monster(index string) (*combatant.Monster, bool)
}

// Request describes one encounter to build.
type Request struct {
	ID         string
	Seed       int64
	Party      []*combatant.Member
	Difficulty difficulty.CRRatio
}

// Builder runs monster selection, power estimation, and outcome resolution.
type Builder struct {
	Catalog  MonsterCatalog
	Balancer *balance.Balancer
	// RoundCap bounds the outcome race; 0 uses outcome.DefaultRoundCap.
	RoundCap int
	// Now stamps CreatedAt; nil uses time.Now in UTC.
	Now func() time.Time
}

// Build produces one encounter. A nil rng is seeded from req.Seed so the
// same request always yields the same encounter.
//
// Errors are *apperrors.Error values carrying the encounter ID and seed.
func (b *Builder) Build(ctx context.Context, req Request, rng *rand.Rand) (Encounter, error) {
	if err := ctx.Err(); err != nil {
		return Encounter{}, err
	}
	if b == nil || b.Catalog == nil || b.Balancer == nil {
		return Encounter{}, errors.New("encounter builder is not configured")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(req.Seed))
	}
	enc, err := b.build(req, rng)
	if err != nil {
		return Encounter{}, classify(req, err)
	}
	return enc, nil
}

func (b *Builder) build(req Request, rng *rand.Rand) (Encounter, error) {
	if len(req.Party) == 0 {
		return Encounter{}, balance.ErrEmptyParty
	}
	levels := partyLevels(req.Party)

	selection, err := b.Balancer.Select(levels, req.Difficulty, b.Catalog.MonsterEntries(), rng)
	if err != nil {
		return Encounter{}, err
	}
	monsters := make([]*combatant.Monster, 0, len(selection.Entries))
	for _, entry := range selection.Entries {
		m, ok := b.Catalog.Monster(entry.Index)
		if !ok {
			return Encounter{}, fmt.Errorf("%w: %q", ErrUnknownMonster, entry.Index)
		}
		monsters = append(monsters, m)
	}

	party := combatant.Members(req.Party)
	foes := combatant.Monsters(monsters)
	est := power.New(req.Difficulty, rng)
	partySide, err := est.EstimateSide(party, foes)
	if err != nil {
		return Encounter{}, err
	}
	monsterSide, err := est.EstimateSide(foes, party)
	if err != nil {
		return Encounter{}, err
	}

	result := outcome.Resolve(outcome.Input{
		PartyOffense:   partySide.Offense,
		PartyHealing:   partySide.Healing,
		MonsterOffense: monsterSide.Offense,
		MonsterHealing: monsterSide.Healing,
		PartyHP:        float64(partySide.HitPoints),
		MonsterHP:      float64(monsterSide.HitPoints),
	}, b.RoundCap)

	now := time.Now().UTC()
	if b.Now != nil {
		now = b.Now()
	}
	return Encounter{
		ID:           req.ID,
		Seed:         req.Seed,
		Difficulty:   req.Difficulty,
		Party:        append([]*combatant.Member(nil), req.Party...),
		Monsters:     monsters,
		Selection:    selection,
		PartyPower:   partySide,
		MonsterPower: monsterSide,
		Result:       result,
		CreatedAt:    now,
	}, nil
}

// classify maps engine failures onto application error codes.
func classify(req Request, err error) error {
	metadata := map[string]string{
		"encounter_id": req.ID,
		"seed":         strconv.FormatInt(req.Seed, 10),
		"difficulty":   req.Difficulty.String(),
	}
	var (
		parseErr      *dice.DiceParseError
		unresolvedErr *power.UnresolvedActionError
	)
	code := apperrors.CodeUnknown
	switch {
	case errors.As(err, &parseErr):
		code = apperrors.CodeDiceInvalidSpec
		metadata["expr"] = parseErr.Expr
	case errors.As(err, &unresolvedErr):
		code = apperrors.CodeActionUnresolved
		metadata["combatant"] = unresolvedErr.Combatant
		metadata["action"] = unresolvedErr.Action
	case errors.Is(err, power.ErrActionCycle):
		code = apperrors.CodeActionCycle
	case errors.Is(err, power.ErrMissingSave):
		code = apperrors.CodeSaveMissingDC
	case errors.Is(err, balance.ErrNoFeasibleRoster):
		code = apperrors.CodeNoFeasibleRoster
	case errors.Is(err, balance.ErrEmptyParty):
		code = apperrors.CodePartyEmpty
	case errors.Is(err, balance.ErrInvalidLevel):
		code = apperrors.CodePartyInvalidLevel
	case errors.Is(err, balance.ErrInvalidConfig):
		code = apperrors.CodeBalancerInvalidBound
	case errors.Is(err, difficulty.ErrInvalidRatio):
		code = apperrors.CodeDifficultyInvalid
	case errors.Is(err, ErrUnknownMonster):
		code = apperrors.CodeCatalogUnknownMonster
	}
	return apperrors.WrapWithMetadata(code, "build encounter "+req.ID, metadata, err)
}
