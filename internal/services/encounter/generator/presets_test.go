package generator

import "testing"

func TestParsePreset(t *testing.T) {
	for _, p := range Presets {
		got, err := ParsePreset(" " + string(p) + " ")
		if err != nil || got != p {
			t.Fatalf("ParsePreset(%q) = %q, %v", p, got, err)
		}
	}
	if got, err := ParsePreset("TRAINING"); err != nil || got != PresetTraining {
		t.Fatalf("ParsePreset(TRAINING) = %q, %v", got, err)
	}
	if _, err := ParsePreset("huge"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestGetPresetConfig(t *testing.T) {
	for _, p := range Presets {
		cfg := GetPresetConfig(p)
		if cfg.Encounters <= 0 || cfg.Workers <= 0 {
			t.Fatalf("%s: unexpected config %+v", p, cfg)
		}
		if cfg.PartySizeMin < 1 || cfg.PartySizeMax < cfg.PartySizeMin {
			t.Fatalf("%s: invalid party sizes %+v", p, cfg)
		}
	}
	if GetPresetConfig("unknown") != GetPresetConfig(PresetDemo) {
		t.Fatal("expected unknown preset to fall back to demo")
	}
}
