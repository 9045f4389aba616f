package storage

import (
	"civiceye/backend/internal/config"
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects the store selected by cfg.StoreDriver and prepares its
// schema (tables for gorm drivers, indexes for MongoDB).
func Open(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres, config.DriverSQLite:
		return OpenGorm(cfg.StoreDriver, cfg.DatabaseDSN)
	case config.DriverMongo:
		s, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("create mongo indexes: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Connect opens the configured store and, when REDIS_ADDR is set, puts the
// Redis user cache in front of it. Every process that reads or changes user
// roles connects this way so the cache is invalidated on writes. The returned
// func closes the store and the Redis client.
func Connect(ctx context.Context, cfg *config.Config) (Storage, func() error, error) {
	s, err := Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.RedisAddr == "" {
		return s, s.Close, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		_ = s.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	closeAll := func() error {
		return errors.Join(s.Close(), rdb.Close())
	}
	return WithUserCache(s, NewRedisUserCache(rdb, cfg.UserCacheTTL)), closeAll, nil
}

// OpenGorm opens a gorm database for driver and runs the migrations.
func OpenGorm(driver, dsn string) (*Service, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown gorm driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	s := NewStorageService(db)
	if err := s.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", driver, err)
	}
	return s, nil
}
