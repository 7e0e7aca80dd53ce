package catalogimporter

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/encounters/internal/services/encounter/catalog"
	"github.com/louisbranch/encounters/internal/services/encounter/storage"
	encountersqlite "github.com/louisbranch/encounters/internal/services/encounter/storage/sqlite"
)

var testdata = filepath.Join("..", "..", "..", "services", "encounter", "catalog", "testdata")

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read %s: %v", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", dst, err)
	}
}

func TestParseConfigRequiresPath(t *testing.T) {
	fs := flag.NewFlagSet("importer", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("ENCOUNTERS_DB_PATH", "env.db")
	fs := flag.NewFlagSet("importer", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-path", "monsters.yaml", "-dry-run"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Path != "monsters.yaml" || cfg.DBPath != "env.db" || !cfg.DryRun {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestListSourcesDirectory(t *testing.T) {
	root := t.TempDir()
	copyFile(t, filepath.Join(testdata, "catalog.yaml"), filepath.Join(root, "core.yaml"))
	copyFile(t, filepath.Join(testdata, "minimal.json"), filepath.Join(root, "basic.json"))
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignore"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "drafts"), 0o755); err != nil {
		t.Fatalf("mkdir drafts: %v", err)
	}

	sources, err := listSources(root, "")
	if err != nil {
		t.Fatalf("listSources returned error: %v", err)
	}
	var names []string
	for _, s := range sources {
		names = append(names, s.name)
	}
	if strings.Join(names, ",") != "basic,core" {
		t.Fatalf("expected basic,core, got %v", names)
	}

	if _, err := listSources(root, "custom"); err == nil {
		t.Fatal("expected error for name with a directory")
	}
}

func TestListSourcesDuplicateNames(t *testing.T) {
	root := t.TempDir()
	copyFile(t, filepath.Join(testdata, "minimal.json"), filepath.Join(root, "core.json"))
	copyFile(t, filepath.Join(testdata, "catalog.yaml"), filepath.Join(root, "core.yaml"))
	if _, err := listSources(root, ""); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestListSourcesRejectsUnsupportedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := listSources(path, ""); !errors.Is(err, catalog.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRunDryRunDoesNotWrite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "encounters.db")
	var out bytes.Buffer
	cfg := Config{Path: filepath.Join(testdata, "catalog.yaml"), DBPath: dbPath, DryRun: true}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "validated 1 catalog(s)") {
		t.Fatalf("unexpected output: %q", out.String())
	}
	if !strings.Contains(out.String(), "catalog: 10 monster(s), 5 character(s), 8 spell(s)") {
		t.Fatalf("missing catalog summary: %q", out.String())
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatalf("expected no database file, got %v", err)
	}
}

func TestRunImportsAndUpserts(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "encounters.db")
	cfg := Config{Path: filepath.Join(testdata, "minimal.json"), DBPath: dbPath, Name: "default"}
	for i := 0; i < 2; i++ {
		if err := Run(context.Background(), cfg, nil); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	store, err := encountersqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	record, err := store.GetCatalog(context.Background(), "default")
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if record.SystemID != catalog.SystemID || record.MonsterCount != 1 || record.MemberCount != 1 {
		t.Fatalf("unexpected record: %+v", record)
	}
	f, err := catalog.Decode(record.Document, catalog.FormatJSON)
	if err != nil {
		t.Fatalf("decode stored document: %v", err)
	}
	if _, err := catalog.New(f); err != nil {
		t.Fatalf("stored document does not validate: %v", err)
	}
	if _, err := store.GetCatalog(context.Background(), "minimal"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected file base name to be unused, got %v", err)
	}
}

func TestRunRejectsInvalidCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"system_id":"other"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := Run(context.Background(), Config{Path: path, DryRun: true}, nil)
	if err == nil || !strings.Contains(err.Error(), "validate broken") {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !catalog.IsInvalid(err) {
		t.Fatalf("expected invalid catalog error, got %v", err)
	}
}
