// Package generator produces batches of labeled encounters from a catalog and
// persists them to the dataset store.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/louisbranch/encounters/internal/platform/errors"
	"github.com/louisbranch/encounters/internal/platform/id"
	"github.com/louisbranch/encounters/internal/random"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/balance"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/combatant"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/difficulty"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/encounter"
	"github.com/louisbranch/encounters/internal/services/encounter/domain/outcome"
	"github.com/louisbranch/encounters/internal/services/encounter/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/louisbranch/encounters/internal/services/encounter/generator"

// Config holds configuration for the generator. Zero values use the preset.
type Config struct {
	Preset Preset
	// Seed of the batch; 0 draws a random seed.
	Seed int64
	// Encounters overrides the preset's batch size.
	Encounters int
	// PartySizeMin and PartySizeMax override the preset's party sizes.
	PartySizeMin int
	PartySizeMax int
	// Distribution overrides the preset's difficulty weights.
	Distribution string
	// Workers overrides the preset's concurrency.
	Workers int
	// Party names fixed catalog characters instead of random parties.
	Party    []string
	Balance  balance.Config
	RoundCap int
	Verbose  bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Preset:  PresetDemo,
		Balance: balance.DefaultConfig(),
	}
}

// Catalog is the character and monster source of a batch.
type Catalog interface {
	encounter.MonsterCatalog
	RandomParty(size int, rng *rand.Rand) ([]*combatant.Member, error)
	Party(names []string, rng *rand.Rand) ([]*combatant.Member, error)
}

// Store persists encounters and the batch summary.
type Store interface {
	storage.EncounterStore
	storage.BatchStore
}

// Summary reports the result of one batch.
type Summary struct {
	BatchID      string
	Preset       Preset
	Seed         int64
	Distribution string
	Requested    int
	Generated    int
	// Failed counts encounters skipped because no roster fit their tier.
	Failed   int
	Outcomes map[outcome.Outcome]int
	Elapsed  time.Duration
}

// Generator orchestrates batch generation.
type Generator struct {
	config  Config
	plan    PresetConfig
	dist    difficulty.Distribution
	catalog Catalog
	store   Store
	builder *encounter.Builder
	tracer  trace.Tracer
	newID   func() (string, error)
	newSeed func(int64) (int64, error)
	now     func() time.Time
}

// New creates a new Generator with the given configuration.
func New(cfg Config, catalog Catalog, store Store) (*Generator, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Preset == "" {
		cfg.Preset = PresetDemo
	}
	plan := GetPresetConfig(cfg.Preset)
	if cfg.Encounters > 0 {
		plan.Encounters = cfg.Encounters
	}
	if cfg.PartySizeMin > 0 {
		plan.PartySizeMin = cfg.PartySizeMin
	}
	if cfg.PartySizeMax > 0 {
		plan.PartySizeMax = cfg.PartySizeMax
	}
	if plan.PartySizeMin < 1 || plan.PartySizeMax < plan.PartySizeMin {
		return nil, apperrors.WithMetadata(apperrors.CodePartyEmpty,
			fmt.Sprintf("party size range [%d, %d] is invalid", plan.PartySizeMin, plan.PartySizeMax), nil)
	}
	if cfg.Distribution != "" {
		plan.Distribution = cfg.Distribution
	}
	if cfg.Workers > 0 {
		plan.Workers = cfg.Workers
	}
	if plan.Workers < 1 {
		plan.Workers = 1
	}

	if err := checkSeed(cfg.Seed, plan.Encounters); err != nil {
		return nil, err
	}

	dist, err := difficulty.ParseDistribution(plan.Distribution)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeDistributionInvalid, "parse difficulty distribution",
			map[string]string{"distribution": plan.Distribution}, err)
	}
	balancer, err := balance.NewBalancer(cfg.Balance)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeBalancerInvalidBound, "configure balancer", err)
	}

	return &Generator{
		config:  cfg,
		plan:    plan,
		dist:    dist,
		catalog: catalog,
		store:   store,
		builder: &encounter.Builder{Catalog: catalog, Balancer: balancer, RoundCap: cfg.RoundCap},
		tracer:  otel.Tracer(tracerName),
		newID:   id.NewID,
		newSeed: random.ResolveSeed,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Plan returns the effective batch parameters.
func (g *Generator) Plan() PresetConfig { return g.plan }

type tally struct {
	mu        sync.Mutex
	generated int
	failed    int
	outcomes  map[outcome.Outcome]int
}

func (t *tally) record(o outcome.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generated++
	t.outcomes[o]++
}

func (t *tally) fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed++
}

// Run generates and persists one batch. Encounter i is built from seed
// batchSeed+i, so a batch is reproducible regardless of worker count.
//
// Encounters whose tier admits no roster are skipped and counted as failed.
// Any other error, or cancellation, stops the batch; the summary written so
// far is still stored and returned.
func (g *Generator) Run(ctx context.Context) (Summary, error) {
	seed, err := g.newSeed(g.config.Seed)
	if err != nil {
		return Summary{}, err
	}
	if err := checkSeed(seed, g.plan.Encounters); err != nil {
		return Summary{}, err
	}
	batchID, err := g.newID()
	if err != nil {
		return Summary{}, err
	}

	ctx, span := g.tracer.Start(ctx, "generate.batch", trace.WithAttributes(
		attribute.String("batch.id", batchID),
		attribute.String("batch.preset", string(g.config.Preset)),
		attribute.Int64("batch.seed", seed),
		attribute.Int("batch.encounters", g.plan.Encounters),
		attribute.Int("batch.workers", g.plan.Workers),
	))
	defer span.End()

	started := g.now()
	batch := storage.BatchRecord{
		ID:        batchID,
		Preset:    string(g.config.Preset),
		Seed:      seed,
		Requested: g.plan.Encounters,
		StartedAt: started,
	}
	if err := g.store.PutBatch(ctx, batch); err != nil {
		return Summary{}, fmt.Errorf("start batch: %w", err)
	}
	if g.config.Verbose {
		log.Printf("batch %s: preset %s, seed %d, %d encounter(s), distribution %s",
			batchID, g.config.Preset, seed, g.plan.Encounters, g.dist)
	}

	counts := &tally{outcomes: make(map[outcome.Outcome]int)}
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(g.plan.Workers)
	for i := 0; i < g.plan.Encounters; i++ {
		if gctx.Err() != nil {
			break
		}
		index := i
		group.Go(func() error {
			return g.generateOne(gctx, batchID, random.Derive(seed, index), counts)
		})
	}
	runErr := group.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	summary := Summary{
		BatchID:      batchID,
		Preset:       g.config.Preset,
		Seed:         seed,
		Distribution: g.dist.String(),
		Requested:    g.plan.Encounters,
		Generated:    counts.generated,
		Failed:       counts.failed,
		Outcomes:     counts.outcomes,
		Elapsed:      g.now().Sub(started),
	}
	batch.Generated = summary.Generated
	batch.Failed = summary.Failed
	batch.FinishedAt = started.Add(summary.Elapsed)

	// The batch context may already be canceled.
	finalizeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer cancel()
	if err := g.store.PutBatch(finalizeCtx, batch); err != nil && runErr == nil {
		runErr = fmt.Errorf("finish batch: %w", err)
	}

	span.SetAttributes(
		attribute.Int("batch.generated", summary.Generated),
		attribute.Int("batch.failed", summary.Failed),
	)
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	}
	return summary, runErr
}

// checkSeed rejects batch seeds whose last derived seed overflows int64.
func checkSeed(seed int64, encounters int) error {
	if seed > math.MaxInt64-int64(encounters) {
		return apperrors.WithMetadata(apperrors.CodeSeedOutOfRange, "batch seed overflows",
			map[string]string{"seed": strconv.FormatInt(seed, 10)})
	}
	return nil
}

func (g *Generator) generateOne(ctx context.Context, batchID string, seed int64, counts *tally) error {
	ctx, span := g.tracer.Start(ctx, "generate.encounter", trace.WithAttributes(
		attribute.Int64("encounter.seed", seed),
	))
	defer span.End()

	rng := random.New(seed)
	ratio := g.dist.Pick(rng)
	party, err := g.party(rng)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	encounterID, err := g.newID()
	if err != nil {
		return err
	}
	span.SetAttributes(
		attribute.String("encounter.id", encounterID),
		attribute.String("encounter.difficulty", ratio.String()),
		attribute.Int("encounter.party_size", len(party)),
	)

	enc, err := g.builder.Build(ctx, encounter.Request{
		ID:         encounterID,
		Seed:       seed,
		Party:      party,
		Difficulty: ratio,
	}, rng)
	if errors.Is(err, balance.ErrNoFeasibleRoster) {
		counts.fail()
		span.AddEvent("roster.infeasible")
		if g.config.Verbose {
			log.Printf("batch %s: seed %d: no %s roster for party levels %v", batchID, seed, ratio, levels(party))
		}
		return nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	record, err := storage.NewEncounterRecord(batchID, enc)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, storeWriteTimeout)
	defer cancel()
	if err := g.store.PutEncounter(writeCtx, record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("store encounter seed %s: %w", strconv.FormatInt(seed, 10), err)
	}

	span.SetAttributes(
		attribute.String("encounter.outcome", enc.Result.Outcome.String()),
		attribute.Int("encounter.rounds", enc.Result.TotalRounds),
		attribute.Int("encounter.monsters", len(enc.Monsters)),
	)
	counts.record(enc.Result.Outcome)
	return nil
}

func (g *Generator) party(rng *rand.Rand) ([]*combatant.Member, error) {
	if len(g.config.Party) > 0 {
		return g.catalog.Party(g.config.Party, rng)
	}
	return g.catalog.RandomParty(randomRange(rng, g.plan.PartySizeMin, g.plan.PartySizeMax), rng)
}

// randomRange returns a random number in [lo, hi].
func randomRange(rng *rand.Rand, lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func levels(party []*combatant.Member) []int {
	out := make([]int, len(party))
	for i, m := range party {
		out[i] = m.Level
	}
	return out
}
