package catalog

// File is the on-disk catalog document. Both JSON and YAML use the same
// snake_case keys.
type File struct {
	SystemID string          `json:"system_id" yaml:"system_id"`
	Version  string          `json:"version" yaml:"version"`
	Monsters []MonsterRecord `json:"monsters" yaml:"monsters"`
	Members  []MemberRecord  `json:"members" yaml:"members"`
	Spells   []SpellRecord   `json:"spells" yaml:"spells"`
}

// SheetRecord holds the stats shared by monsters and members.
type SheetRecord struct {
	Name             string              `json:"name" yaml:"name"`
	ArmorClass       []int               `json:"armor_class" yaml:"armor_class"`
	HitPoints        int                 `json:"hit_points" yaml:"hit_points"`
	Abilities        map[string]int      `json:"abilities,omitempty" yaml:"abilities,omitempty"`
	Saves            map[string]int      `json:"saves,omitempty" yaml:"saves,omitempty"`
	ProficiencyBonus int                 `json:"proficiency_bonus,omitempty" yaml:"proficiency_bonus,omitempty"`
	Resistances      []string            `json:"resistances,omitempty" yaml:"resistances,omitempty"`
	Immunities       []string            `json:"immunities,omitempty" yaml:"immunities,omitempty"`
	Vulnerabilities  []string            `json:"vulnerabilities,omitempty" yaml:"vulnerabilities,omitempty"`
	Actions          []ActionRecord      `json:"actions,omitempty" yaml:"actions,omitempty"`
	ExtraAttacks     int                 `json:"extra_attacks,omitempty" yaml:"extra_attacks,omitempty"`
	Speed            SpeedRecord         `json:"speed" yaml:"speed"`
	Skills           map[string]int      `json:"skills,omitempty" yaml:"skills,omitempty"`
	Spellcasting     *SpellcastingRecord `json:"spellcasting,omitempty" yaml:"spellcasting,omitempty"`
}

// MonsterRecord is one catalog creature.
type MonsterRecord struct {
	Index           string  `json:"index" yaml:"index"`
	ChallengeRating float64 `json:"challenge_rating" yaml:"challenge_rating"`
	XP              int     `json:"xp,omitempty" yaml:"xp,omitempty"`
	Type            string  `json:"type,omitempty" yaml:"type,omitempty"`
	SheetRecord     `yaml:",inline"`
}

// MemberRecord is a pre-built character template.
type MemberRecord struct {
	Class       string         `json:"class" yaml:"class"`
	Level       int            `json:"level" yaml:"level"`
	Race        string         `json:"race,omitempty" yaml:"race,omitempty"`
	Choices     []ChoiceRecord `json:"choices,omitempty" yaml:"choices,omitempty"`
	SheetRecord `yaml:",inline"`
}

// ChoiceRecord is an open feature choice resolved when a party is assembled.
type ChoiceRecord struct {
	Category string   `json:"category" yaml:"category"`
	Feature  string   `json:"feature" yaml:"feature"`
	Options  []string `json:"options" yaml:"options"`
	Choose   int      `json:"choose" yaml:"choose"`
}

// SpeedRecord lists movement speeds in feet.
type SpeedRecord struct {
	Walk   int  `json:"walk,omitempty" yaml:"walk,omitempty"`
	Fly    int  `json:"fly,omitempty" yaml:"fly,omitempty"`
	Swim   int  `json:"swim,omitempty" yaml:"swim,omitempty"`
	Climb  int  `json:"climb,omitempty" yaml:"climb,omitempty"`
	Burrow int  `json:"burrow,omitempty" yaml:"burrow,omitempty"`
	Hover  bool `json:"hover,omitempty" yaml:"hover,omitempty"`
}

// DamageRecord is one typed dice expression.
type DamageRecord struct {
	Dice string `json:"dice" yaml:"dice"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// SaveRecord is a saving throw requirement.
type SaveRecord struct {
	DC      int    `json:"dc,omitempty" yaml:"dc,omitempty"`
	Ability string `json:"ability" yaml:"ability"`
	Half    bool   `json:"half_on_success,omitempty" yaml:"half_on_success,omitempty"`
}

// UsageRecord limits an action. Type is "recharge" or "per_day".
type UsageRecord struct {
	Type  string `json:"type" yaml:"type"`
	Min   int    `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	Die   int    `json:"die,omitempty" yaml:"die,omitempty"`
	Times int    `json:"times,omitempty" yaml:"times,omitempty"`
}

// ActionRecord is a declared action. Type is "simple", "save", or "multi";
// when empty it is inferred from the other fields.
type ActionRecord struct {
	Name        string            `json:"name" yaml:"name"`
	Type        string            `json:"type,omitempty" yaml:"type,omitempty"`
	AttackBonus int               `json:"attack_bonus,omitempty" yaml:"attack_bonus,omitempty"`
	Save        *SaveRecord       `json:"save,omitempty" yaml:"save,omitempty"`
	Damage      []DamageRecord    `json:"damage,omitempty" yaml:"damage,omitempty"`
	Choice      *ChoiceDamage     `json:"damage_choice,omitempty" yaml:"damage_choice,omitempty"`
	Usage       *UsageRecord      `json:"usage,omitempty" yaml:"usage,omitempty"`
	Sequence    []SubActionRecord `json:"sequence,omitempty" yaml:"sequence,omitempty"`
}

// ChoiceDamage offers Options of which Choose apply.
type ChoiceDamage struct {
	Choose  int            `json:"choose" yaml:"choose"`
	Options []DamageRecord `json:"options" yaml:"options"`
}

// SubActionRecord is one multi-attack step.
type SubActionRecord struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Count int    `json:"count,omitempty" yaml:"count,omitempty"`
	Magic bool   `json:"magic,omitempty" yaml:"magic,omitempty"`
}

// SpellcastingRecord references spells by index.
type SpellcastingRecord struct {
	Ability     string `json:"ability" yaml:"ability"`
	AttackBonus int    `json:"attack_bonus" yaml:"attack_bonus"`
	SaveDC      int    `json:"save_dc" yaml:"save_dc"`
	CasterLevel int    `json:"caster_level,omitempty" yaml:"caster_level,omitempty"`
	// Slots maps spell level to slot count.
	Slots  map[int]int `json:"slots,omitempty" yaml:"slots,omitempty"`
	Spells []string    `json:"spells,omitempty" yaml:"spells,omitempty"`
	// Limited maps spell index to a private usage tag such as "1/day".
	Limited map[string]string `json:"limited,omitempty" yaml:"limited,omitempty"`
}

// SpellRecord is a catalog spell. Kind is "damage" or "healing"; Delivery is
// "attack" or "save".
type SpellRecord struct {
	Index             string                 `json:"index" yaml:"index"`
	Name              string                 `json:"name" yaml:"name"`
	Level             int                    `json:"level" yaml:"level"`
	Kind              string                 `json:"kind" yaml:"kind"`
	Delivery          string                 `json:"delivery,omitempty" yaml:"delivery,omitempty"`
	Save              *SaveRecord            `json:"save,omitempty" yaml:"save,omitempty"`
	SlotDamage        map[int][]DamageRecord `json:"slot_damage,omitempty" yaml:"slot_damage,omitempty"`
	CasterLevelDamage map[int][]DamageRecord `json:"caster_level_damage,omitempty" yaml:"caster_level_damage,omitempty"`
	SlotHealing       map[int]string         `json:"slot_healing,omitempty" yaml:"slot_healing,omitempty"`
}
