// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"sitebuilder/internal/config"
	"sitebuilder/internal/database"
)

// Backend is an opened repository together with the resources behind it.
type Backend struct {
	Websites WebsiteRepository
	Driver   string

	close func(context.Context) error
}

// Close releases the backend's connections.
func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Open connects the storage backend selected by cfg.StoreDriver and applies
// pending migrations for SQL backends.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return nil, err
		}
		return sqlBackend(db, database.Postgres, cfg.StoreDriver)

	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlBackend(db, database.SQLite, cfg.StoreDriver)

	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		slog.Info("mongodb connected", "database", cfg.MongoDatabase)
		s := NewMongoWebsiteStore(client, cfg.MongoDatabase)
		return &Backend{Websites: s, Driver: cfg.StoreDriver, close: s.Close}, nil

	case config.DriverMemory:
		slog.Warn("using in-memory website store, data is lost on restart")
		return &Backend{Websites: NewMemoryStore(), Driver: cfg.StoreDriver}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func sqlBackend(db *sql.DB, dialect database.Dialect, driver string) (*Backend, error) {
	if err := database.Migrate(db, dialect); err != nil {
		db.Close()
		return nil, err
	}
	return &Backend{
		Websites: NewWebsiteStore(db, dialect),
		Driver:   driver,
		close:    func(context.Context) error { return db.Close() },
	}, nil
}
