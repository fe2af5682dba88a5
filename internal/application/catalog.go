package application

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hemingto/boombox-11.0-sub001/internal/catalog"
	"github.com/hemingto/boombox-11.0-sub001/internal/config"
)

const (
	sourcePostgres = "postgres"
	sourceFile     = "file"
	sourceBuiltin  = "builtin"
)

// loadCatalog picks the catalog source: database first, then file, then the
// built-in defaults. The result is a snapshot; nothing is reloaded later.
func loadCatalog(ctx context.Context, cfg config.Config) ([]catalog.Item, string, error) {
	switch {
	case cfg.DatabaseURL != "":
		items, err := loadPostgresCatalog(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		return items, sourcePostgres, nil
	case cfg.CatalogFile != "":
		path, err := resolveProjectPath(cfg.CatalogFile)
		if err != nil {
			return nil, "", fmt.Errorf("catalog file: %w", err)
		}
		items, err := catalog.LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		return items, sourceFile, nil
	default:
		return catalog.DefaultItems(), sourceBuiltin, nil
	}
}

func loadPostgresCatalog(ctx context.Context, cfg config.Config) ([]catalog.Item, error) {
	if cfg.CatalogLoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.CatalogLoadTimeout)
		defer cancel()
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect catalog database: %w", err)
	}
	defer pool.Close()

	return catalog.LoadPostgres(ctx, pool)
}
