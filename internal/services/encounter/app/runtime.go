// Package app wires the dataset store, the catalog, and the batch generator.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/louisbranch/encounters/internal/platform/errors"
	"github.com/louisbranch/encounters/internal/services/encounter/catalog"
	"github.com/louisbranch/encounters/internal/services/encounter/generator"
	"github.com/louisbranch/encounters/internal/services/encounter/storage"
	encountersqlite "github.com/louisbranch/encounters/internal/services/encounter/storage/sqlite"
)

// RuntimeConfig controls one generator run.
type RuntimeConfig struct {
	DBPath string
	// CatalogPath loads the catalog from a file; when empty the catalog named
	// CatalogName is read from the store.
	CatalogPath string
	CatalogName string
	Generator   generator.Config
	// Out receives the summary; nil discards it.
	Out io.Writer
}

const (
	defaultDBPath      = "data/encounters.db"
	defaultCatalogName = "default"
)

// Run opens the dataset store, resolves the catalog, and generates one batch.
func Run(ctx context.Context, cfg RuntimeConfig) (generator.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultDBPath
	}
	if strings.TrimSpace(cfg.CatalogName) == "" {
		cfg.CatalogName = defaultCatalogName
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return generator.Summary{}, fmt.Errorf("create encounter storage dir: %w", err)
		}
	}

	store, err := encountersqlite.Open(cfg.DBPath)
	if err != nil {
		return generator.Summary{}, fmt.Errorf("open encounter sqlite store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close encounter sqlite store: %v", closeErr)
		}
	}()

	cat, err := LoadCatalog(ctx, store, cfg.CatalogPath, cfg.CatalogName)
	if err != nil {
		return generator.Summary{}, err
	}
	log.Printf("catalog loaded: %d monster(s), %d character(s), %d spell(s)",
		cat.MonsterCount(), cat.MemberCount(), cat.SpellCount())

	gen, err := generator.New(cfg.Generator, cat, store)
	if err != nil {
		return generator.Summary{}, err
	}
	summary, runErr := gen.Run(ctx)
	if summary.BatchID != "" {
		report(ctx, cfg.Out, store, summary)
	}
	return summary, runErr
}

// LoadCatalog reads the catalog from path, or from the store under name when
// path is empty.
func LoadCatalog(ctx context.Context, store storage.CatalogStore, path, name string) (*catalog.Catalog, error) {
	if strings.TrimSpace(path) != "" {
		cat, err := catalog.Load(path)
		if err != nil {
			return nil, classifyCatalog(err, map[string]string{"path": path})
		}
		return cat, nil
	}

	record, err := store.GetCatalog(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("catalog %q is not imported", name), map[string]string{"name": name}, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog %s: %w", name, err)
	}
	f, err := catalog.Decode(record.Document, catalog.FormatJSON)
	if err != nil {
		return nil, classifyCatalog(err, map[string]string{"name": name})
	}
	cat, err := catalog.New(f)
	if err != nil {
		return nil, classifyCatalog(err, map[string]string{"name": name})
	}
	return cat, nil
}

func classifyCatalog(err error, metadata map[string]string) error {
	switch {
	case errors.Is(err, catalog.ErrUnsupportedFormat):
		return apperrors.WrapWithMetadata(apperrors.CodeCatalogFormat, "load catalog", metadata, err)
	case errors.Is(err, catalog.ErrUnknownSpell):
		return apperrors.WrapWithMetadata(apperrors.CodeCatalogUnknownSpell, "load catalog", metadata, err)
	case errors.Is(err, os.ErrNotExist):
		return apperrors.WrapWithMetadata(apperrors.CodeNotFound, "load catalog", metadata, err)
	default:
		return apperrors.WrapWithMetadata(apperrors.CodeCatalogInvalid, "load catalog", metadata, err)
	}
}
