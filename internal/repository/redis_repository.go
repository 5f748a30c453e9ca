package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const redisAccountsKey = "socialgraph:accounts"

// RedisRepository stores the snapshot as one hash, one field per username.
type RedisRepository struct {
	client *redis.Client
	key    string
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client, key: redisAccountsKey}
}

func (r *RedisRepository) Load(ctx context.Context) ([]models.AccountRecord, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot from redis: %w", err)
	}

	records := make([]models.AccountRecord, 0, len(fields))
	for username, raw := range fields {
		var rec models.AccountRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode account %q: %w", username, err)
		}
		rec.Username = username
		records = append(records, rec)
	}

	logger.Log.WithField("users", len(records)).Info("Snapshot loaded from redis")
	return records, nil
}

// Save replaces the hash inside MULTI/EXEC so readers never see a partial
// table.
func (r *RedisRepository) Save(ctx context.Context, records []models.AccountRecord) error {
	values := make([]any, 0, len(records)*2)
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode account %q: %w", rec.Username, err)
		}
		values = append(values, rec.Username, data)
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(values) > 0 {
			pipe.HSet(ctx, r.key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot to redis: %w", err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
