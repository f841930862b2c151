package database

import (
	"context"
	"fmt"
	"time"

	"room-relay-service/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedis connects to Redis when a host is configured.
// It returns (nil, nil) when Redis is disabled.
func NewRedis(cfg config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	if cfg.Host == "" {
		log.Info("Redis host not configured, readiness will skip redis")
		return nil, nil
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info("Redis connection established successfully", zap.String("addr", addr), zap.Int("db", cfg.DB))
	return client, nil
}
