package app

import (
	"context"
	"database/sql"

	"campus-portal/internal/config"
	"campus-portal/internal/db"
	"campus-portal/internal/logger"
	"campus-portal/internal/redis"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB *db.DB

	// Redis is nil unless REDIS_ADDR is configured; the OTP store then
	// falls back to the in-process map.
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := db.RunKeystoneMigration(ctx, sqlDB); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	infra := &Infra{DB: &db.DB{DB: sqlDB}}

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		infra.Redis = redisClient
		logger.Info("redis ready", nil)
	}

	return infra, nil
}
