package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Dice/mechanics errors
	CodeDiceInvalidSpec     Code = "DICE_INVALID_SPEC"
	CodeActionUnresolved    Code = "ACTION_UNRESOLVED"
	CodeActionCycle         Code = "ACTION_CYCLE"
	CodeSaveMissingDC       Code = "SAVE_MISSING_DC"
	CodeSpellSlotsInvalid   Code = "SPELL_SLOTS_INVALID"
	CodeDifficultyInvalid   Code = "DIFFICULTY_INVALID"
	CodeDistributionInvalid Code = "DIFFICULTY_DISTRIBUTION_INVALID"

	// Balancer errors
	CodeNoFeasibleRoster     Code = "NO_FEASIBLE_ROSTER"
	CodePartyEmpty           Code = "PARTY_EMPTY"
	CodePartyInvalidLevel    Code = "PARTY_INVALID_LEVEL"
	CodeBalancerInvalidBound Code = "BALANCER_INVALID_BOUNDS"

	// Catalog errors
	CodeCatalogInvalid        Code = "CATALOG_INVALID"
	CodeCatalogUnknownMonster Code = "CATALOG_UNKNOWN_MONSTER"
	CodeCatalogUnknownSpell   Code = "CATALOG_UNKNOWN_SPELL"
	CodeCatalogFormat         Code = "CATALOG_UNSUPPORTED_FORMAT"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Random/seed errors
	CodeSeedOutOfRange Code = "SEED_OUT_OF_RANGE"
)

// ExitCode maps domain codes to process exit statuses for the commands.
func (c Code) ExitCode() int {
	switch c {
	// Bad input data: dice, actions, catalog content
	case CodeDiceInvalidSpec,
		CodeActionUnresolved,
		CodeActionCycle,
		CodeSaveMissingDC,
		CodeSpellSlotsInvalid,
		CodeCatalogInvalid,
		CodeCatalogUnknownMonster,
		CodeCatalogUnknownSpell,
		CodeCatalogFormat:
		return 65

	// Bad configuration
	case CodeDifficultyInvalid,
		CodeDistributionInvalid,
		CodePartyEmpty,
		CodePartyInvalidLevel,
		CodeBalancerInvalidBound,
		CodeSeedOutOfRange:
		return 64

	// Catalog cannot satisfy the request
	case CodeNoFeasibleRoster,
		CodeNotFound:
		return 69

	default:
		return 1
	}
}
