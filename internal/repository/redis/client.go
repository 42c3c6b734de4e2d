package redis

import (
	"context"
	"fmt"
	"time"

	red "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ClientConfig holds connection settings for NewClient
type ClientConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewClient opens a pooled Redis client and verifies it with a ping
func NewClient(ctx context.Context, cfg ClientConfig, logger *zap.Logger) (*red.Client, error) {
	client := red.NewClient(&red.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("Redis connection established",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)
	return client, nil
}
