// Package backend opens the configured project store.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"projectdash/internal/config"
	"projectdash/internal/domain/repositories"
	"projectdash/internal/repository/postgres"
	"projectdash/internal/repository/sqlite"
)

// Backend bundles a project store with its transaction manager and
// lifecycle hooks.
type Backend struct {
	Driver    string
	Store     repositories.ProjectStore
	TxManager repositories.TransactionManager

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	reset   func(ctx context.Context) error
	close   func()
}

// Open connects to the store selected by cfg.StoreDriver. Postgres tables
// are created on open only when cfg.AutoMigrate is set; SQLite always
// applies its schema.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
		MaxConns:         cfg.DBMaxConns,
		MinConns:         cfg.DBMinConns,
		StatementTimeout: cfg.DBStatementTimeout,
	})
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	b := &Backend{
		Driver:    config.DriverPostgres,
		Store:     postgres.NewProjectRepository(repoConfig),
		TxManager: postgres.NewTransactionManager(pool, logger),
		ping:      pool.Ping,
		migrate: func(ctx context.Context) error {
			return postgres.Migrate(ctx, pool, tables)
		},
		reset: func(ctx context.Context) error {
			if err := postgres.DropTables(ctx, pool, tables); err != nil {
				return err
			}
			return postgres.Migrate(ctx, pool, tables)
		},
		close: pool.Close,
	}

	logger.Info("database connected",
		"driver", b.Driver,
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
		"table_prefix", cfg.TablePrefix,
	)

	if cfg.AutoMigrate {
		if err := b.Migrate(ctx); err != nil {
			b.Close()
			return nil, err
		}
		logger.Info("schema applied", "table", tables.Projects)
	}
	return b, nil
}

func openSQLite(ctx context.Context, path string, logger *slog.Logger) (*Backend, error) {
	store, err := sqlite.Open(ctx, path, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("database connected", "driver", config.DriverSQLite, "path", path)

	return &Backend{
		Driver:    config.DriverSQLite,
		Store:     store,
		TxManager: sqlite.NewTransactionManager(store),
		ping:      store.Ping,
		migrate:   func(context.Context) error { return nil },
		reset:     store.Reset,
		close:     func() { _ = store.Close() },
	}, nil
}

// Ping checks that the store is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

// Migrate creates missing tables and indexes.
func (b *Backend) Migrate(ctx context.Context) error {
	return b.migrate(ctx)
}

// Reset drops and recreates the schema, deleting all data.
func (b *Backend) Reset(ctx context.Context) error {
	return b.reset(ctx)
}

// Close releases the connection pool or database handle.
func (b *Backend) Close() {
	b.close()
}
