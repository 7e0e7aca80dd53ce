package errors

import (
	"bytes"
	stderrors "errors"
	"text/template"
)

// messages maps codes to user-facing templates rendered with Metadata.
var messages = map[Code]string{
	CodeDiceInvalidSpec:       `Dice expression {{.expr}} is malformed.`,
	CodeActionUnresolved:      `{{.combatant}}: action {{.action}} references an unknown action.`,
	CodeActionCycle:           `{{.combatant}}: multi-attack actions reference each other.`,
	CodeSaveMissingDC:         `{{.combatant}}: save action has no difficulty class.`,
	CodeSpellSlotsInvalid:     `Spell slot table is invalid.`,
	CodeDifficultyInvalid:     `Difficulty {{.difficulty}} is not recognized.`,
	CodeDistributionInvalid:   `Difficulty distribution {{.distribution}} is malformed.`,
	CodeNoFeasibleRoster:      `No {{.difficulty}} roster fits the party within the retry budget.`,
	CodePartyEmpty:            `Party has no members.`,
	CodePartyInvalidLevel:     `Party levels must be between 1 and 20.`,
	CodeBalancerInvalidBound:  `Monster count bounds are invalid.`,
	CodeCatalogInvalid:        `Catalog {{.path}}{{.name}} failed validation.`,
	CodeCatalogUnknownMonster: `Monster {{.monster}} is not in the catalog.`,
	CodeCatalogUnknownSpell:   `Spell {{.spell}} is not in the catalog.`,
	CodeCatalogFormat:         `Catalog file {{.path}} has an unsupported format.`,
	CodeNotFound:              `Record not found.`,
	CodeSeedOutOfRange:        `Seed is out of range.`,
}

// UserMessage renders the user-facing message of the error's code with its
// metadata. Codes without a template fall back to the code itself.
func (e *Error) UserMessage() string {
	tmpl, ok := messages[e.Code]
	if !ok {
		return string(e.Code)
	}
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	t, err := template.New("msg").Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// Describe renders err for the console: the user message of the first *Error
// in the chain, followed by the full error text.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	return appErr.UserMessage() + " (" + err.Error() + ")"
}
