// internal/repository/open.go
package repository

import (
	"context"
	"fmt"

	"uav-maintenance-service/internal/config"
	"uav-maintenance-service/internal/db"
	"uav-maintenance-service/internal/domain/auth"
	"uav-maintenance-service/internal/domain/uav"
	"uav-maintenance-service/internal/repository/memory"
	mongorepo "uav-maintenance-service/internal/repository/mongo"
	"uav-maintenance-service/internal/repository/postgres"
	"uav-maintenance-service/internal/repository/sqlite"
)

// Backend bundles the record and user stores of one driver
type Backend struct {
	Driver  string
	Records uav.RecordStore
	Users   auth.UserRepository

	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Migrate applies the schema; drivers without one return nil
func (b *Backend) Migrate(ctx context.Context) error {
	if b.migrate == nil {
		return nil
	}
	return b.migrate(ctx)
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Open connects the store driver selected in cfg
func Open(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		wrapper := postgres.NewDB(pool)
		return &Backend{
			Driver:  cfg.Driver,
			Records: postgres.NewUAVRepository(pool),
			Users:   postgres.NewUserRepository(pool),
			migrate: wrapper.Migrate,
			close:   func(context.Context) error { return wrapper.Close() },
		}, nil

	case "sqlite":
		sqlDB, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:  cfg.Driver,
			Records: sqlite.NewUAVRepository(sqlDB),
			Users:   sqlite.NewUserRepository(sqlDB),
			migrate: func(ctx context.Context) error { return sqlite.Migrate(ctx, sqlDB) },
			close:   func(context.Context) error { return sqlDB.Close() },
		}, nil

	case "mongo":
		client, err := mongorepo.NewClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPass)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		database := client.Database(cfg.MongoDatabase)
		return &Backend{
			Driver:  cfg.Driver,
			Records: mongorepo.NewUAVRepository(database),
			Users:   mongorepo.NewUserRepository(database),
			migrate: func(ctx context.Context) error { return mongorepo.EnsureIndexes(ctx, database) },
			close:   client.Disconnect,
		}, nil

	case "memory":
		return &Backend{
			Driver:  cfg.Driver,
			Records: memory.NewRecordRepository(),
			Users:   memory.NewUserRepository(),
		}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
