package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/encounters/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/encounters/internal/services/encounter/storage"
	"github.com/louisbranch/encounters/internal/services/encounter/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed dataset persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a dataset SQLite store and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// PutEncounter inserts one encounter. Encounter IDs are unique.
func (s *Store) PutEncounter(ctx context.Context, record storage.EncounterRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("encounter id is required")
	}
	if strings.TrimSpace(record.Outcome) == "" {
		return fmt.Errorf("outcome is required")
	}
	if len(record.Document) == 0 {
		return fmt.Errorf("document is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	levels, err := json.Marshal(record.PartyLevels)
	if err != nil {
		return fmt.Errorf("encode party levels: %w", err)
	}
	indices, err := json.Marshal(record.MonsterIndices)
	if err != nil {
		return fmt.Errorf("encode monster indices: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO encounters (
	id,
	batch_id,
	seed,
	difficulty,
	outcome,
	total_rounds,
	details,
	party_levels,
	monster_indices,
	party_offense,
	party_healing,
	party_hp,
	monster_offense,
	monster_healing,
	monster_hp,
	total_xp,
	adjusted_xp,
	document,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		record.ID,
		strings.TrimSpace(record.BatchID),
		record.Seed,
		record.Difficulty,
		record.Outcome,
		record.TotalRounds,
		record.Details,
		string(levels),
		string(indices),
		record.PartyOffense,
		record.PartyHealing,
		record.PartyHP,
		record.MonsterOffense,
		record.MonsterHealing,
		record.MonsterHP,
		record.TotalXP,
		record.AdjustedXP,
		record.Document,
		record.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put encounter: %w", err)
	}
	return nil
}

const encounterColumns = `
	id,
	batch_id,
	seed,
	difficulty,
	outcome,
	total_rounds,
	details,
	party_levels,
	monster_indices,
	party_offense,
	party_healing,
	party_hp,
	monster_offense,
	monster_healing,
	monster_hp,
	total_xp,
	adjusted_xp,
	document,
	created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEncounter(row scanner) (storage.EncounterRecord, error) {
	var (
		record    storage.EncounterRecord
		levels    string
		indices   string
		createdAt int64
	)
	if err := row.Scan(
		&record.ID,
		&record.BatchID,
		&record.Seed,
		&record.Difficulty,
		&record.Outcome,
		&record.TotalRounds,
		&record.Details,
		&levels,
		&indices,
		&record.PartyOffense,
		&record.PartyHealing,
		&record.PartyHP,
		&record.MonsterOffense,
		&record.MonsterHealing,
		&record.MonsterHP,
		&record.TotalXP,
		&record.AdjustedXP,
		&record.Document,
		&createdAt,
	); err != nil {
		return storage.EncounterRecord{}, err
	}
	if err := json.Unmarshal([]byte(levels), &record.PartyLevels); err != nil {
		return storage.EncounterRecord{}, fmt.Errorf("decode party levels: %w", err)
	}
	if err := json.Unmarshal([]byte(indices), &record.MonsterIndices); err != nil {
		return storage.EncounterRecord{}, fmt.Errorf("decode monster indices: %w", err)
	}
	record.CreatedAt = time.UnixMilli(createdAt).UTC()
	return record, nil
}

// GetEncounter loads one encounter by ID.
func (s *Store) GetEncounter(ctx context.Context, id string) (storage.EncounterRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.EncounterRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, "SELECT"+encounterColumns+"\nFROM encounters WHERE id = ?", strings.TrimSpace(id))
	record, err := scanEncounter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.EncounterRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.EncounterRecord{}, fmt.Errorf("get encounter: %w", err)
	}
	return record, nil
}

// ListEncounters lists newest-first encounters, optionally restricted to one
// batch.
func (s *Store) ListEncounters(ctx context.Context, batchID string, limit int) ([]storage.EncounterRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	batchID = strings.TrimSpace(batchID)
	rows, err := s.sqlDB.QueryContext(ctx, "SELECT"+encounterColumns+`
FROM encounters
WHERE ? = '' OR batch_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`, batchID, batchID, limit)
	if err != nil {
		return nil, fmt.Errorf("list encounters: %w", err)
	}
	defer rows.Close()

	records := make([]storage.EncounterRecord, 0, limit)
	for rows.Next() {
		record, err := scanEncounter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan encounter: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate encounters: %w", err)
	}
	return records, nil
}

// CountByOutcome counts encounters per outcome label, optionally restricted
// to one batch.
func (s *Store) CountByOutcome(ctx context.Context, batchID string) (map[string]int, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	batchID = strings.TrimSpace(batchID)
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT outcome, COUNT(*)
FROM encounters
WHERE ? = '' OR batch_id = ?
GROUP BY outcome
`, batchID, batchID)
	if err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		counts[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome counts: %w", err)
	}
	return counts, nil
}

// PutBatch inserts or replaces a batch summary.
func (s *Store) PutBatch(ctx context.Context, record storage.BatchRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("batch id is required")
	}
	if record.StartedAt.IsZero() {
		record.StartedAt = time.Now().UTC()
	}
	var finishedAt int64
	if !record.FinishedAt.IsZero() {
		finishedAt = record.FinishedAt.UTC().UnixMilli()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO batches (id, preset, seed, requested, generated, failed, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	preset = excluded.preset,
	seed = excluded.seed,
	requested = excluded.requested,
	generated = excluded.generated,
	failed = excluded.failed,
	started_at = excluded.started_at,
	finished_at = excluded.finished_at
`,
		record.ID,
		record.Preset,
		record.Seed,
		record.Requested,
		record.Generated,
		record.Failed,
		record.StartedAt.UTC().UnixMilli(),
		finishedAt,
	)
	if err != nil {
		return fmt.Errorf("put batch: %w", err)
	}
	return nil
}

// GetBatch loads one batch summary.
func (s *Store) GetBatch(ctx context.Context, id string) (storage.BatchRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.BatchRecord{}, err
	}
	var (
		record     storage.BatchRecord
		startedAt  int64
		finishedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, preset, seed, requested, generated, failed, started_at, finished_at
FROM batches WHERE id = ?
`, strings.TrimSpace(id)).Scan(
		&record.ID,
		&record.Preset,
		&record.Seed,
		&record.Requested,
		&record.Generated,
		&record.Failed,
		&startedAt,
		&finishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.BatchRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.BatchRecord{}, fmt.Errorf("get batch: %w", err)
	}
	record.StartedAt = time.UnixMilli(startedAt).UTC()
	if finishedAt > 0 {
		record.FinishedAt = time.UnixMilli(finishedAt).UTC()
	}
	return record, nil
}

// PutCatalog inserts or replaces a named catalog document.
func (s *Store) PutCatalog(ctx context.Context, record storage.CatalogRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	record.Name = strings.TrimSpace(record.Name)
	if record.Name == "" {
		return fmt.Errorf("catalog name is required")
	}
	if len(record.Document) == 0 {
		return fmt.Errorf("document is required")
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO catalogs (name, system_id, version, document, monster_count, member_count, spell_count, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	system_id = excluded.system_id,
	version = excluded.version,
	document = excluded.document,
	monster_count = excluded.monster_count,
	member_count = excluded.member_count,
	spell_count = excluded.spell_count,
	updated_at = excluded.updated_at
`,
		record.Name,
		record.SystemID,
		record.Version,
		record.Document,
		record.MonsterCount,
		record.MemberCount,
		record.SpellCount,
		record.UpdatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put catalog: %w", err)
	}
	return nil
}

// GetCatalog loads a named catalog document.
func (s *Store) GetCatalog(ctx context.Context, name string) (storage.CatalogRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.CatalogRecord{}, err
	}
	var (
		record    storage.CatalogRecord
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT name, system_id, version, document, monster_count, member_count, spell_count, updated_at
FROM catalogs WHERE name = ?
`, strings.TrimSpace(name)).Scan(
		&record.Name,
		&record.SystemID,
		&record.Version,
		&record.Document,
		&record.MonsterCount,
		&record.MemberCount,
		&record.SpellCount,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.CatalogRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.CatalogRecord{}, fmt.Errorf("get catalog: %w", err)
	}
	record.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return record, nil
}

// Migrations lists the applied schema migrations.
func (s *Store) Migrations(ctx context.Context) ([]sqlitemigrate.Migration, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return sqlitemigrate.Applied(ctx, s.sqlDB)
}

var (
	_ storage.EncounterStore = (*Store)(nil)
	_ storage.BatchStore     = (*Store)(nil)
	_ storage.CatalogStore   = (*Store)(nil)
)
