package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/trailmark/internal/catalog"
	"github.com/abhisek/trailmark/internal/engine"
	"github.com/abhisek/trailmark/internal/store"
)

// backend bundles the open store and the engine built over it.
type backend struct {
	store  *store.Store
	engine *engine.Engine
}

// loadCatalog returns the configured catalog, or the bundled one.
func loadCatalog() (*catalog.Catalog, error) {
	if cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Default()
}

// openStore opens the database resolved from flags and config.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", dbPath)
	return st, nil
}

// openBackend loads the catalog, opens the store, and restores the engine.
func openBackend(cmd *cobra.Command) (*backend, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(log.With("component", "engine")),
	}
	if cfg.Persistence.Async {
		opts = append(opts, engine.WithAsyncPersistence())
	}
	eng, err := engine.New(cmd.Context(), cat, st.ProgressStore(cfg.Persistence.SnapshotKeep), opts...)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &backend{store: st, engine: eng}, nil
}

// Close drains pending writes and closes the store.
func (b *backend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetDrainTimeout())
	defer cancel()

	err := b.engine.Close(ctx)
	if cerr := b.store.Close(); err == nil {
		err = cerr
	}
	return err
}
