// Package generate parses generator command flags and launches a batch run.
package generate

import (
	"context"
	"flag"
	"io"
	"strings"

	entrypoint "github.com/louisbranch/encounters/internal/platform/cmd"
	"github.com/louisbranch/encounters/internal/services/encounter/app"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/balance"
	"github.com/louisbranch/encounters/internal/services/encounter/generator"
)

// Config holds generate command configuration.
type Config struct {
	DBPath       string `env:"ENCOUNTERS_DB_PATH" envDefault:"data/encounters.db"`
	CatalogPath  string `env:"ENCOUNTERS_CATALOG_PATH"`
	CatalogName  string `env:"ENCOUNTERS_CATALOG_NAME" envDefault:"default"`
	Preset       string `env:"ENCOUNTERS_PRESET" envDefault:"demo"`
	Seed         int64  `env:"ENCOUNTERS_SEED"`
	Encounters   int    `env:"ENCOUNTERS_COUNT"`
	Workers      int    `env:"ENCOUNTERS_WORKERS"`
	Distribution string `env:"ENCOUNTERS_DIFFICULTY"`
	PartySizeMin int    `env:"ENCOUNTERS_PARTY_MIN"`
	PartySizeMax int    `env:"ENCOUNTERS_PARTY_MAX"`
	Party        string `env:"ENCOUNTERS_PARTY"`
	MinMonsters  int    `env:"ENCOUNTERS_MIN_MONSTERS" envDefault:"1"`
	MaxMonsters  int    `env:"ENCOUNTERS_MAX_MONSTERS" envDefault:"15"`
	MaxSamples   int    `env:"ENCOUNTERS_MAX_SAMPLES" envDefault:"1000"`
	MaxRestarts  int    `env:"ENCOUNTERS_MAX_RESTARTS" envDefault:"100"`
	RoundCap     int    `env:"ENCOUNTERS_ROUND_CAP" envDefault:"50"`
	Verbose      bool   `env:"ENCOUNTERS_VERBOSE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Encounter dataset SQLite path")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "Catalog file (.yaml, .yml, .json); empty reads the imported catalog")
	fs.StringVar(&cfg.CatalogName, "catalog-name", cfg.CatalogName, "Imported catalog name")
	fs.StringVar(&cfg.Preset, "preset", cfg.Preset, "Generation preset: demo, training, stress")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Batch seed (0 = random)")
	fs.IntVar(&cfg.Encounters, "n", cfg.Encounters, "Number of encounters (0 = preset default)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent builders (0 = preset default)")
	fs.StringVar(&cfg.Distribution, "difficulty", cfg.Distribution, "Weighted tiers, e.g. easy=2,hard=1")
	fs.IntVar(&cfg.PartySizeMin, "party-min", cfg.PartySizeMin, "Minimum party size (0 = preset default)")
	fs.IntVar(&cfg.PartySizeMax, "party-max", cfg.PartySizeMax, "Maximum party size (0 = preset default)")
	fs.StringVar(&cfg.Party, "party", cfg.Party, "Comma-separated catalog characters for a fixed party")
	fs.IntVar(&cfg.MinMonsters, "min-monsters", cfg.MinMonsters, "Minimum monsters per encounter")
	fs.IntVar(&cfg.MaxMonsters, "max-monsters", cfg.MaxMonsters, "Maximum monsters per encounter")
	fs.IntVar(&cfg.MaxSamples, "max-samples", cfg.MaxSamples, "Rejected samples before a new monster count")
	fs.IntVar(&cfg.MaxRestarts, "max-restarts", cfg.MaxRestarts, "Monster count restarts before giving up")
	fs.IntVar(&cfg.RoundCap, "round-cap", cfg.RoundCap, "Rounds before an encounter is undecided")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose progress logging")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RuntimeConfig converts the command configuration for the app runtime.
func (c Config) RuntimeConfig(out io.Writer) (app.RuntimeConfig, error) {
	preset, err := generator.ParsePreset(c.Preset)
	if err != nil {
		return app.RuntimeConfig{}, err
	}
	return app.RuntimeConfig{
		DBPath:      c.DBPath,
		CatalogPath: c.CatalogPath,
		CatalogName: c.CatalogName,
		Out:         out,
		Generator: generator.Config{
			Preset:       preset,
			Seed:         c.Seed,
			Encounters:   c.Encounters,
			PartySizeMin: c.PartySizeMin,
			PartySizeMax: c.PartySizeMax,
			Distribution: c.Distribution,
			Workers:      c.Workers,
			Party:        splitNames(c.Party),
			Balance: balance.Config{
				MinMonsters: c.MinMonsters,
				MaxMonsters: c.MaxMonsters,
				MaxSamples:  c.MaxSamples,
				MaxRestarts: c.MaxRestarts,
			},
			RoundCap: c.RoundCap,
			Verbose:  c.Verbose,
		},
	}, nil
}

// Run generates one batch with telemetry enabled.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	runtimeCfg, err := cfg.RuntimeConfig(out)
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGenerate, func(ctx context.Context) error {
		_, err := app.Run(ctx, runtimeCfg)
		return err
	})
}

func splitNames(value string) []string {
	var names []string
	for _, part := range strings.Split(value, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
