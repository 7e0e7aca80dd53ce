// Package storage defines the persistence records and interfaces of the
// encounter dataset.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a missing record.
var ErrNotFound = errors.New("record not found")

// EncounterRecord is one labeled encounter row.
type EncounterRecord struct {
	ID             string
	BatchID        string
	Seed           int64
	Difficulty     string
	Outcome        string
	TotalRounds    int
	Details        string
	PartyLevels    []int
	MonsterIndices []string
	PartyOffense   float64
	PartyHealing   float64
	PartyHP        int
	MonsterOffense float64
	MonsterHealing float64
	MonsterHP      int
	TotalXP        int
	AdjustedXP     float64
	// Document is the full JSON export of the encounter.
	Document  []byte
	CreatedAt time.Time
}

// BatchRecord summarizes one generator run.
type BatchRecord struct {
	ID         string
	Preset     string
	Seed       int64
	Requested  int
	Generated  int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// CatalogRecord is a validated catalog document stored under a name.
type CatalogRecord struct {
	Name         string
	SystemID     string
	Version      string
	Document     []byte
	MonsterCount int
	MemberCount  int
	SpellCount   int
	UpdatedAt    time.Time
}

// EncounterStore persists generated encounters.
type EncounterStore interface {
	PutEncounter(ctx context.Context, record EncounterRecord) error
	GetEncounter(ctx context.Context, id string) (EncounterRecord, error)
	ListEncounters(ctx context.Context, batchID string, limit int) ([]EncounterRecord, error)
	CountByOutcome(ctx context.Context, batchID string) (map[string]int, error)
}

// BatchStore persists generator run summaries.
type BatchStore interface {
	PutBatch(ctx context.Context, record BatchRecord) error
	GetBatch(ctx context.Context, id string) (BatchRecord, error)
}

// CatalogStore persists imported catalogs.
type CatalogStore interface {
	PutCatalog(ctx context.Context, record CatalogRecord) error
	GetCatalog(ctx context.Context, name string) (CatalogRecord, error)
}
