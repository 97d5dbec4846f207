package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"zapshift/internal/config"
	"zapshift/internal/repository"
	"zapshift/internal/repository/mongostore"
)

// OpenStore connects the backend selected by cfg.StoreDriver and returns
// the repository bundle together with a function that releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case "mongo":
		client, err := NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		database := client.Database(cfg.MongoDatabase)
		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return mongostore.New(client, database, cfg.MongoTransactions), client.Disconnect, nil

	case "mysql", "sqlite":
		dsn := cfg.MySQLDSN
		if cfg.StoreDriver == "sqlite" {
			dsn = cfg.SQLitePath
		}
		gormDB, err := NewGorm(cfg.StoreDriver, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.AutoMigrate(gormDB); err != nil {
			return nil, nil, fmt.Errorf("auto-migrate: %w", err)
		}
		return repository.NewGormStore(gormDB), closeGorm(gormDB), nil
	}
	return nil, nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
}

func closeGorm(db *gorm.DB) func(context.Context) error {
	return func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}
