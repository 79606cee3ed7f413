package repository

import (
	"context"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/repository/jsonfile"
	"restaurant-ordering/internal/repository/postgres"
)

// Handle is the opened storage backend. DataDir is empty for backends that
// do not live in a local directory.
type Handle struct {
	*Repository
	DataDir string
}

func Open(ctx context.Context, cfg config.StorageConfig, db config.DatabaseConfig, clk clock.Clock) (*Handle, error) {
	switch cfg.Backend {
	case "file":
		store, err := jsonfile.Open(cfg.DataDir, jsonfile.Options{
			ProcessLock: cfg.ProcessLock,
			Clock:       clk,
			Logger:      logger.New("jsonfile-store"),
		})
		if err != nil {
			return nil, errors.Annotate(err, "open file store")
		}
		return &Handle{Repository: NewFile(store), DataDir: store.Dir()}, nil
	case "postgres":
		pool, err := database.ConnectDB(ctx, db)
		if err != nil {
			return nil, err
		}
		store := postgres.New(pool, clk)
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return &Handle{Repository: NewPostgres(store)}, nil
	}
	return nil, errors.NotValidf("storage backend %q", cfg.Backend)
}

func NewFile(store *jsonfile.Store) *Repository {
	return &Repository{
		MenuRepo:       store.Menu(),
		OrderRepo:      store.Orders(),
		BestsellerRepo: store.Bestsellers(),
	}
}

func NewPostgres(store *postgres.Store) *Repository {
	return &Repository{
		MenuRepo:       store.Menu(),
		OrderRepo:      store.Orders(),
		BestsellerRepo: store.Bestsellers(),
		closer:         store.Close,
	}
}
