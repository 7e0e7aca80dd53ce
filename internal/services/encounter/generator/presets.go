package generator

import (
	"fmt"
	"strings"
)

// Preset defines a named configuration for batch generation.
type Preset string

const (
	// PresetDemo creates a handful of encounters across every tier.
	PresetDemo Preset = "demo"

	// PresetTraining creates a balanced labeled dataset for model training.
	PresetTraining Preset = "training"

	// PresetStress creates a large batch with many workers for load testing.
	PresetStress Preset = "stress"
)

// Presets lists every preset in display order.
var Presets = []Preset{PresetDemo, PresetTraining, PresetStress}

// PresetConfig holds the generation parameters for a preset.
type PresetConfig struct {
	// Number of encounters in the batch
	Encounters int

	// Party size per encounter (min, max)
	PartySizeMin int
	PartySizeMax int

	// Weighted difficulty tiers in "easy=2,hard=1" form
	Distribution string

	// Concurrent encounter builders
	Workers int
}

// ParsePreset resolves a preset by name, case-insensitively.
func ParsePreset(value string) (Preset, error) {
	name := Preset(strings.ToLower(strings.TrimSpace(value)))
	for _, p := range Presets {
		if p == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preset %q", value)
}

// GetPresetConfig returns the configuration for a preset. Unknown presets
// fall back to the demo configuration.
func GetPresetConfig(preset Preset) PresetConfig {
	switch preset {
	case PresetTraining:
		return PresetConfig{
			Encounters:   1000,
			PartySizeMin: 3,
			PartySizeMax: 6,
			Distribution: "easy=1,normal=2,hard=2,deadly=1",
			Workers:      4,
		}

	case PresetStress:
		return PresetConfig{
			Encounters:   20000,
			PartySizeMin: 1,
			PartySizeMax: 8,
			Distribution: "cakewalk=1,easy=1,normal=1,hard=1,deadly=1,impossible=1",
			Workers:      16,
		}

	default:
		return PresetConfig{
			Encounters:   12,
			PartySizeMin: 4,
			PartySizeMax: 4,
			Distribution: "cakewalk=1,easy=1,normal=1,hard=1,deadly=1,impossible=1",
			Workers:      1,
		}
	}
}
