package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/SocialGraph/internal/config"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens a client and checks the server answers PING.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Log.WithField("addr", cfg.RedisAddr).Info("Connected to redis")
	return client, nil
}
