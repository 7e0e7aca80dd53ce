package combatant

// AttackKind selects how an action resolves.
type AttackKind int

const (
	AttackUnspecified AttackKind = iota
	// AttackSimple rolls a flat attack bonus against armor class.
	AttackSimple
	// AttackSave forces a saving throw against a difficulty class.
	AttackSave
	// AttackMulti runs an ordered sequence of other actions.
	AttackMulti
)

func (k AttackKind) String() string {
	switch k {
	case AttackSimple:
		return "simple"
	case AttackSave:
		return "save"
	case AttackMulti:
		return "multi"
	default:
		return "unspecified"
	}
}

// DamageComponent is one dice expression of a single damage type.
type DamageComponent struct {
	Dice string
	Type string
}

// DamageChoice offers Options of which the attacker applies Choose.
type DamageChoice struct {
	Choose  int
	Options []DamageComponent
}

// SaveDC describes a saving throw forced by an action or spell.
type SaveDC struct {
	DC            int
	Ability       Ability
	HalfOnSuccess bool
}

// SubAction is one step of a multi-attack sequence. Magic steps cast Count
// damage spells instead of referencing another action.
type SubAction struct {
	Name  string
	Count int
	Magic bool
}

// AttackAction is a declared action of a combatant.
type AttackAction struct {
	Name        string
	Kind        AttackKind
	AttackBonus int
	Save        *SaveDC
	Damage      []DamageComponent
	Choice      *DamageChoice
	Usage       Usage
	Sequence    []SubAction
}

// Offensive reports whether the action can deal damage.
func (a AttackAction) Offensive() bool {
	switch a.Kind {
	case AttackMulti:
		return len(a.Sequence) > 0
	case AttackSimple, AttackSave:
		return len(a.Damage) > 0 || (a.Choice != nil && len(a.Choice.Options) > 0)
	default:
		return false
	}
}

// UsageKind selects how often an action or feature is available.
type UsageKind int

const (
	UsageUnlimited UsageKind = iota
	// UsageRecharge becomes available again on a die roll of MinValue or more.
	UsageRecharge
	// UsagePerRest is available Times per rest or day.
	UsagePerRest
)

// Usage describes an availability limit.
type Usage struct {
	Kind     UsageKind
	MinValue int
	DieSize  int
	Times    int
}

// Unlimited is the zero Usage.
func Unlimited() Usage { return Usage{} }

// Recharge returns a "recharge min-die" usage, e.g. Recharge(5, 6).
func Recharge(minValue, dieSize int) Usage {
	return Usage{Kind: UsageRecharge, MinValue: minValue, DieSize: dieSize}
}

// PerRest returns a usage available the given number of times per rest.
func PerRest(times int) Usage {
	return Usage{Kind: UsagePerRest, Times: times}
}
