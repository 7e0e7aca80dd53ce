package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/encounters/internal/services/encounter/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "encounters.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func sampleEncounter(id, batchID, outcome string, createdAt time.Time) storage.EncounterRecord {
	return storage.EncounterRecord{
		ID:             id,
		BatchID:        batchID,
		Seed:           42,
		Difficulty:     "normal",
		Outcome:        outcome,
		TotalRounds:    3,
		Details:        "party wins",
		PartyLevels:    []int{3, 3, 4},
		MonsterIndices: []string{"goblin", "goblin", "wolf"},
		PartyOffense:   16.5,
		PartyHealing:   4,
		PartyHP:        88,
		MonsterOffense: 9.25,
		MonsterHealing: 0,
		MonsterHP:      25,
		TotalXP:        150,
		AdjustedXP:     300,
		Document:       []byte(`{"id":"` + id + `"}`),
		CreatedAt:      createdAt,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenAppliesMigrations(t *testing.T) {
	store := openTempStore(t)
	applied, err := store.Migrations(context.Background())
	if err != nil {
		t.Fatalf("migrations: %v", err)
	}
	if len(applied) != 2 {
		t.Fatalf("applied migrations = %d, want 2", len(applied))
	}
	if applied[0].Name != "001_encounters.sql" {
		t.Fatalf("first migration = %q", applied[0].Name)
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "encounters.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer second.Close()
}

func TestPutGetEncounter(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := sampleEncounter("enc-1", "batch-1", "victory", createdAt)

	if err := store.PutEncounter(ctx, record); err != nil {
		t.Fatalf("put encounter: %v", err)
	}
	got, err := store.GetEncounter(ctx, "enc-1")
	if err != nil {
		t.Fatalf("get encounter: %v", err)
	}
	if got.Outcome != "victory" || got.TotalRounds != 3 || got.Seed != 42 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(got.PartyLevels) != 3 || got.PartyLevels[2] != 4 {
		t.Fatalf("party levels = %v", got.PartyLevels)
	}
	if len(got.MonsterIndices) != 3 || got.MonsterIndices[2] != "wolf" {
		t.Fatalf("monster indices = %v", got.MonsterIndices)
	}
	if got.AdjustedXP != 300 || got.PartyOffense != 16.5 {
		t.Fatalf("unexpected numbers: %+v", got)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("created at = %v, want %v", got.CreatedAt, createdAt)
	}
	if string(got.Document) != `{"id":"enc-1"}` {
		t.Fatalf("document = %s", got.Document)
	}

	if err := store.PutEncounter(ctx, record); err == nil {
		t.Fatal("expected duplicate encounter id to fail")
	}
}

func TestGetEncounterNotFound(t *testing.T) {
	store := openTempStore(t)
	_, err := store.GetEncounter(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutEncounterValidation(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	now := time.Now()

	missingID := sampleEncounter(" ", "", "victory", now)
	if err := store.PutEncounter(ctx, missingID); err == nil {
		t.Fatal("expected error for missing id")
	}
	missingOutcome := sampleEncounter("enc-1", "", "", now)
	if err := store.PutEncounter(ctx, missingOutcome); err == nil {
		t.Fatal("expected error for missing outcome")
	}
	missingDoc := sampleEncounter("enc-2", "", "defeat", now)
	missingDoc.Document = nil
	if err := store.PutEncounter(ctx, missingDoc); err == nil {
		t.Fatal("expected error for missing document")
	}
}

func TestListEncountersNewestFirst(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []storage.EncounterRecord{
		sampleEncounter("enc-1", "batch-a", "victory", base),
		sampleEncounter("enc-2", "batch-a", "defeat", base.Add(time.Minute)),
		sampleEncounter("enc-3", "batch-b", "victory", base.Add(2*time.Minute)),
	}
	for _, r := range records {
		if err := store.PutEncounter(ctx, r); err != nil {
			t.Fatalf("put %s: %v", r.ID, err)
		}
	}

	all, err := store.ListEncounters(ctx, "", 10)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 || all[0].ID != "enc-3" || all[2].ID != "enc-1" {
		t.Fatalf("unexpected order: %v", ids(all))
	}

	batch, err := store.ListEncounters(ctx, "batch-a", 1)
	if err != nil {
		t.Fatalf("list batch: %v", err)
	}
	if len(batch) != 1 || batch[0].ID != "enc-2" {
		t.Fatalf("unexpected batch listing: %v", ids(batch))
	}

	if _, err := store.ListEncounters(ctx, "", 0); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func TestCountByOutcome(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for i, outcome := range []string{"victory", "victory", "defeat", "undecided"} {
		batch := "batch-a"
		if i == 3 {
			batch = "batch-b"
		}
		r := sampleEncounter(string(rune('a'+i)), batch, outcome, now)
		if err := store.PutEncounter(ctx, r); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	counts, err := store.CountByOutcome(ctx, "batch-a")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts["victory"] != 2 || counts["defeat"] != 1 || counts["undecided"] != 0 {
		t.Fatalf("batch counts = %v", counts)
	}
	all, err := store.CountByOutcome(ctx, "")
	if err != nil {
		t.Fatalf("count all: %v", err)
	}
	if all["undecided"] != 1 {
		t.Fatalf("all counts = %v", all)
	}
}

func TestPutBatchUpserts(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	record := storage.BatchRecord{ID: "batch-1", Preset: "demo", Seed: 7, Requested: 10, StartedAt: started}
	if err := store.PutBatch(ctx, record); err != nil {
		t.Fatalf("put batch: %v", err)
	}
	got, err := store.GetBatch(ctx, "batch-1")
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if !got.FinishedAt.IsZero() {
		t.Fatalf("expected unfinished batch, got %v", got.FinishedAt)
	}

	record.Generated = 9
	record.Failed = 1
	record.FinishedAt = started.Add(time.Second)
	if err := store.PutBatch(ctx, record); err != nil {
		t.Fatalf("update batch: %v", err)
	}
	got, err = store.GetBatch(ctx, "batch-1")
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if got.Generated != 9 || got.Failed != 1 || got.Preset != "demo" {
		t.Fatalf("unexpected batch: %+v", got)
	}
	if !got.FinishedAt.Equal(started.Add(time.Second)) {
		t.Fatalf("finished at = %v", got.FinishedAt)
	}

	if _, err := store.GetBatch(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutCatalogUpserts(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	record := storage.CatalogRecord{
		Name:         "default",
		SystemID:     "dnd5e",
		Version:      "1",
		Document:     []byte(`{"system_id":"dnd5e"}`),
		MonsterCount: 10,
		MemberCount:  5,
		SpellCount:   8,
	}
	if err := store.PutCatalog(ctx, record); err != nil {
		t.Fatalf("put catalog: %v", err)
	}
	record.Version = "2"
	record.MonsterCount = 11
	if err := store.PutCatalog(ctx, record); err != nil {
		t.Fatalf("update catalog: %v", err)
	}

	got, err := store.GetCatalog(ctx, " default ")
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if got.Version != "2" || got.MonsterCount != 11 || got.SpellCount != 8 {
		t.Fatalf("unexpected catalog: %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("expected updated at to be set")
	}
	if _, err := store.GetCatalog(ctx, "other"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.GetEncounter(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNilStore(t *testing.T) {
	var store *Store
	if err := store.PutBatch(context.Background(), storage.BatchRecord{ID: "b"}); err == nil {
		t.Fatal("expected error for nil store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func ids(records []storage.EncounterRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
