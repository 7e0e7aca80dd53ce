package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Workers int `env:"ENCOUNTERS_TEST_WORKERS" envDefault:"4"`
}

type prefixedTestConfig struct {
	Enabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
	Endpoint string `env:"OTEL_ENDPOINT"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Workers != 4 {
		t.Fatalf("expected default workers 4, got %d", cfg.Workers)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("ENCOUNTERS_TEST_WORKERS", "many")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithPrefix(t *testing.T) {
	t.Setenv(EnvPrefix+"OTEL_ENABLED", "false")
	t.Setenv(EnvPrefix+"OTEL_ENDPOINT", "http://localhost:4318")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, EnvPrefix); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Enabled {
		t.Fatal("expected enabled to be false")
	}
	if cfg.Endpoint != "http://localhost:4318" {
		t.Fatalf("endpoint = %q", cfg.Endpoint)
	}
}
