// Package catalogimporter validates catalog files and stores them in the
// encounter dataset database.
package catalogimporter

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/encounters/internal/platform/cmd"
	"github.com/louisbranch/encounters/internal/services/encounter/catalog"
	"github.com/louisbranch/encounters/internal/services/encounter/storage"
	encountersqlite "github.com/louisbranch/encounters/internal/services/encounter/storage/sqlite"
)

// Config holds configuration for the catalog importer.
type Config struct {
	// Path is a catalog file or a directory of catalog files.
	Path   string `env:"ENCOUNTERS_CATALOG_PATH"`
	DBPath string `env:"ENCOUNTERS_DB_PATH" envDefault:"data/encounters.db"`
	// Name stores a single file under this name instead of its base name.
	Name   string `env:"ENCOUNTERS_CATALOG_NAME"`
	DryRun bool
}

// ParseConfig parses environment and CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Path, "path", cfg.Path, "catalog file or directory of catalog files")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "encounter database path")
	fs.StringVar(&cfg.Name, "name", cfg.Name, "catalog name for a single file (default: file base name)")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "validate without writing to the database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Path) == "" {
		return Config{}, errors.New("path is required")
	}
	return cfg, nil
}

type source struct {
	name string
	path string
}

// Run executes the importer using the provided Config.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}

	sources, err := listSources(cfg.Path, cfg.Name)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no catalog files found in %s", cfg.Path)
	}

	var store storage.CatalogStore
	if !cfg.DryRun {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create encounter storage dir: %w", err)
			}
		}
		catalogStore, err := encountersqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open catalog store: %w", err)
		}
		defer catalogStore.Close()
		store = catalogStore
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := readSource(src)
		if err != nil {
			return fmt.Errorf("validate %s: %w", src.name, err)
		}
		summary := fmt.Sprintf("%s: %d monster(s), %d character(s), %d spell(s)",
			record.Name, record.MonsterCount, record.MemberCount, record.SpellCount)
		if !cfg.DryRun {
			record.UpdatedAt = time.Now().UTC()
			if err := store.PutCatalog(ctx, record); err != nil {
				return fmt.Errorf("import %s: %w", src.name, err)
			}
		}
		if _, err := fmt.Fprintln(out, summary); err != nil {
			return err
		}
	}

	if cfg.DryRun {
		_, err = fmt.Fprintf(out, "validated %d catalog(s)\n", len(sources))
		return err
	}
	_, err = fmt.Fprintf(out, "imported %d catalog(s) into %s\n", len(sources), cfg.DBPath)
	return err
}

// RunWithTelemetry executes Run inside the shared command entrypoint.
func RunWithTelemetry(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCatalogImport, func(ctx context.Context) error {
		return Run(ctx, cfg, out)
	})
}

// listSources resolves path to the catalog files it names. Directory entries
// with unsupported extensions are skipped.
func listSources(path, name string) ([]source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if _, err := catalog.FormatForPath(path); err != nil {
			return nil, err
		}
		if strings.TrimSpace(name) == "" {
			name = baseName(path)
		}
		return []source{{name: strings.TrimSpace(name), path: path}}, nil
	}
	if strings.TrimSpace(name) != "" {
		return nil, errors.New("name applies only to a single catalog file")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var sources []source
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := catalog.FormatForPath(entry.Name()); err != nil {
			continue
		}
		sources = append(sources, source{name: baseName(entry.Name()), path: filepath.Join(path, entry.Name())})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].name < sources[j].name })
	for i := 1; i < len(sources); i++ {
		if sources[i].name == sources[i-1].name {
			return nil, fmt.Errorf("catalog name %q is defined by more than one file", sources[i].name)
		}
	}
	return sources, nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// readSource decodes and validates one file and renders its stored form.
func readSource(src source) (storage.CatalogRecord, error) {
	f, err := catalog.ReadFile(src.path)
	if err != nil {
		return storage.CatalogRecord{}, err
	}
	cat, err := catalog.New(f)
	if err != nil {
		return storage.CatalogRecord{}, err
	}
	doc, err := catalog.Encode(f)
	if err != nil {
		return storage.CatalogRecord{}, fmt.Errorf("encode catalog: %w", err)
	}
	return storage.CatalogRecord{
		Name:         src.name,
		SystemID:     f.SystemID,
		Version:      f.Version,
		Document:     doc,
		MonsterCount: cat.MonsterCount(),
		MemberCount:  cat.MemberCount(),
		SpellCount:   cat.SpellCount(),
	}, nil
}
